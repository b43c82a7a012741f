package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-graindelay/dsp/core"
	"github.com/cwbudde/algo-graindelay/dsp/delay"
	"github.com/cwbudde/algo-graindelay/dsp/filter/onepole"
	"github.com/cwbudde/algo-graindelay/dsp/trigger"
	"github.com/cwbudde/algo-graindelay/dsp/window"
)

// NumVoices is the fixed grain polyphony of GrainDelay.
const NumVoices = 5

const (
	maxDelayTimeSeconds = 2.0
	maxTriggerRateHz    = 1000.0
	minGrainOverlap     = 0.001
	minGrainRate        = 0.125
	maxGrainRate        = 4.0
	dcBlockCutoffHz     = 3.0

	defaultGrainTriggerRate = 8.0
	defaultGrainOverlap     = 2.0
	defaultGrainDelayTime   = 0.25
	defaultGrainRate        = 1.0
	defaultGrainDelayMix    = 1.0
	defaultGrainFeedback    = 0.35
	defaultGrainDamping     = 0.25
)

// grainVoice holds the playback state of one in-flight grain. readPos
// is the normalized buffer offset latched at trigger time; phase is the
// sample-domain read integrator advanced by rate each sample.
type grainVoice struct {
	readPos float64
	rate    float64
	phase   float64
}

// GrainDelay is a granular delay: input is recorded into a circular
// buffer while up to NumVoices short Hann-windowed grains read back
// from it at an independent playback rate, with the grain mix fed back
// into the buffer through damping and DC-blocking filters.
//
// Trigger rate, overlap, delay time and grain rate are audio-rate
// parameters: they may be changed between any two samples, or supplied
// as per-sample streams via ProcessBlock. Out-of-range values are
// clipped at the point of use rather than reported. Mix, feedback,
// damping, freeze and reset are control-rate.
//
// The process path performs no allocation and is not thread-safe.
type GrainDelay struct {
	sampleRate   float64
	samplePeriod float64

	line   *delay.Line
	sched  *trigger.Scheduler
	voices [NumVoices]grainVoice

	dampingFilter onepole.Smoother
	dcBlocker     onepole.Filter

	triggerRate  float64
	overlap      float64
	delaySeconds float64
	grainRate    float64

	mix      float64
	feedback float64
	damping  float64
	freeze   bool
	reset    bool
}

// NewGrainDelay creates a granular delay with practical defaults. The
// delay buffer is sized for the maximum delay time of 2 seconds.
func NewGrainDelay(sampleRate float64) (*GrainDelay, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("grain delay sample rate must be > 0: %f", sampleRate)
	}

	line, err := delay.New(int(maxDelayTimeSeconds * sampleRate))
	if err != nil {
		return nil, err
	}

	sched, err := trigger.NewScheduler(NumVoices, sampleRate)
	if err != nil {
		return nil, err
	}

	return &GrainDelay{
		sampleRate:   sampleRate,
		samplePeriod: 1 / sampleRate,
		line:         line,
		sched:        sched,
		triggerRate:  defaultGrainTriggerRate,
		overlap:      defaultGrainOverlap,
		delaySeconds: defaultGrainDelayTime,
		grainRate:    defaultGrainRate,
		mix:          defaultGrainDelayMix,
		feedback:     defaultGrainFeedback,
		damping:      defaultGrainDamping,
	}, nil
}

// SampleRate returns sample rate in Hz.
func (gd *GrainDelay) SampleRate() float64 { return gd.sampleRate }

// TriggerRate returns the grain trigger rate in Hz.
func (gd *GrainDelay) TriggerRate() float64 { return gd.triggerRate }

// Overlap returns the target number of simultaneously sounding grains.
func (gd *GrainDelay) Overlap() float64 { return gd.overlap }

// DelayTime returns the grain read delay in seconds.
func (gd *GrainDelay) DelayTime() float64 { return gd.delaySeconds }

// GrainRate returns the grain playback rate (1 = original pitch).
func (gd *GrainDelay) GrainRate() float64 { return gd.grainRate }

// Mix returns wet/dry mix in [0, 1].
func (gd *GrainDelay) Mix() float64 { return gd.mix }

// Feedback returns feedback amount in [0, 0.99].
func (gd *GrainDelay) Feedback() float64 { return gd.feedback }

// Damping returns the feedback damping coefficient in [0, 1].
func (gd *GrainDelay) Damping() float64 { return gd.damping }

// Freeze reports whether buffer writes are suspended.
func (gd *GrainDelay) Freeze() bool { return gd.freeze }

// BufferLen returns the delay buffer length in samples.
func (gd *GrainDelay) BufferLen() int { return gd.line.Len() }

// WritePos returns the current write pointer in [0, BufferLen).
func (gd *GrainDelay) WritePos() int { return gd.line.Pos() }

// SetTriggerRate sets the grain trigger rate in Hz. The value is
// clipped to [0, 1000] each sample before use; 0 stops new triggers.
func (gd *GrainDelay) SetTriggerRate(rate float64) { gd.triggerRate = rate }

// SetOverlap sets the target grain overlap, clipped to
// [0.001, NumVoices] each sample before use.
func (gd *GrainDelay) SetOverlap(overlap float64) { gd.overlap = overlap }

// SetDelayTime sets the grain read delay in seconds, clipped to
// [one sample period, 2] each sample before use.
func (gd *GrainDelay) SetDelayTime(seconds float64) { gd.delaySeconds = seconds }

// SetGrainRate sets the grain playback rate, clipped to [0.125, 4]
// each sample before use.
func (gd *GrainDelay) SetGrainRate(rate float64) { gd.grainRate = rate }

// SetMix sets wet/dry mix, clamped into [0, 1].
func (gd *GrainDelay) SetMix(mix float64) {
	gd.mix = core.Clamp(mix, 0, 1)
}

// SetFeedback sets feedback amount, clamped into [0, 0.99].
func (gd *GrainDelay) SetFeedback(feedback float64) {
	gd.feedback = core.Clamp(feedback, 0, 0.99)
}

// SetDamping sets the feedback damping coefficient, clamped into [0, 1].
// 0 leaves the feedback path unfiltered, 1 freezes the damping filter
// state entirely.
func (gd *GrainDelay) SetDamping(damping float64) {
	gd.damping = core.Clamp(damping, 0, 1)
}

// SetFreeze suspends (true) or resumes (false) recording into the delay
// buffer. Grains keep reading the frozen contents.
func (gd *GrainDelay) SetFreeze(freeze bool) { gd.freeze = freeze }

// SetReset drives the scheduler reset line. While held the trigger
// clock and all grain envelopes stay cleared, so the wet signal is
// silent; the dry path and buffer writes continue.
func (gd *GrainDelay) SetReset(reset bool) { gd.reset = reset }

// ProcessSample processes one sample using the stored parameters.
func (gd *GrainDelay) ProcessSample(input float64) float64 {
	return gd.step(input, gd.triggerRate, gd.overlap, gd.delaySeconds, gd.grainRate)
}

// ProcessInPlace applies the effect to buf in place.
func (gd *GrainDelay) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = gd.ProcessSample(buf[i])
	}
}

// Modulation carries optional per-sample parameter streams for
// ProcessBlock. A nil slice leaves the corresponding stored parameter
// in effect; a non-nil slice must match the block length.
type Modulation struct {
	TriggerRate []float64
	Overlap     []float64
	DelayTime   []float64
	GrainRate   []float64
}

func (m *Modulation) validate(n int) error {
	if m == nil {
		return nil
	}
	for _, s := range [][]float64{m.TriggerRate, m.Overlap, m.DelayTime, m.GrainRate} {
		if s != nil && len(s) != n {
			return fmt.Errorf("modulation stream length must be %d: %d", n, len(s))
		}
	}
	return nil
}

// ProcessBlock processes src into dst with optional audio-rate
// modulation streams. dst and src must have equal length and may alias.
func (gd *GrainDelay) ProcessBlock(dst, src []float64, mod *Modulation) error {
	if len(dst) != len(src) {
		return fmt.Errorf("block length mismatch: dst=%d src=%d", len(dst), len(src))
	}
	if err := mod.validate(len(src)); err != nil {
		return err
	}

	for i := range src {
		triggerRate := gd.triggerRate
		overlap := gd.overlap
		delayTime := gd.delaySeconds
		grainRate := gd.grainRate

		if mod != nil {
			if mod.TriggerRate != nil {
				triggerRate = mod.TriggerRate[i]
			}
			if mod.Overlap != nil {
				overlap = mod.Overlap[i]
			}
			if mod.DelayTime != nil {
				delayTime = mod.DelayTime[i]
			}
			if mod.GrainRate != nil {
				grainRate = mod.GrainRate[i]
			}
		}

		dst[i] = gd.step(src[i], triggerRate, overlap, delayTime, grainRate)
	}

	return nil
}

func (gd *GrainDelay) step(input, triggerRate, overlap, delayTime, grainRate float64) float64 {
	triggerRate = core.Clamp(triggerRate, 0, maxTriggerRateHz)
	overlap = core.Clamp(overlap, minGrainOverlap, NumVoices)
	delayTime = core.Clamp(delayTime, gd.samplePeriod, maxDelayTimeSeconds)
	grainRate = core.Clamp(grainRate, minGrainRate, maxGrainRate)

	states := gd.sched.Process(triggerRate, gd.reset, overlap)

	bufLen := float64(gd.line.Len())
	delayed := 0.0

	for i := range states {
		st := &states[i]
		v := &gd.voices[i]

		if st.JustTriggered {
			writeNorm := float64(gd.line.Pos()) / bufLen
			delayNorm := math.Max(gd.samplePeriod, delayTime*gd.sampleRate/bufLen)

			v.readPos = core.Wrap(writeNorm-delayNorm, 0, 1)
			v.rate = grainRate
			// Seed the read integrator with the same sub-sample offset
			// the envelope used, keeping pitch and window in sync.
			v.phase = grainRate * st.SubSampleOffset
		}

		if st.Active {
			v.phase += v.rate
			pos := v.readPos*bufLen + v.phase
			delayed += gd.line.PeekCubic(pos) * window.Hann(st.Envelope)
		}
	}

	// Constant perceived loudness as grain density grows.
	delayed *= 1 / mathSqrt(math.Max(1, overlap))

	damped := gd.dampingFilter.Lowpass(delayed, gd.damping)
	dcBlocked := gd.dcBlocker.Highpass(input, dcBlockCutoffHz, gd.sampleRate)

	if !gd.freeze {
		gd.line.Write(dcBlocked + damped*gd.feedback)
	}

	return core.Lerp(input, delayed, gd.mix)
}

// Reset clears all transient state: the scheduler, the write pointer,
// both filter memories and per-voice playback state. The delay buffer
// contents are intentionally kept so playback resumes without a gap in
// recorded history; use ClearBuffer to erase them.
func (gd *GrainDelay) Reset() {
	gd.sched.Reset()
	gd.line.Rewind()
	gd.dampingFilter.Reset()
	gd.dcBlocker.Reset()

	for i := range gd.voices {
		gd.voices[i] = grainVoice{}
	}
}

// ClearBuffer zeroes the delay buffer contents without touching any
// transient state.
func (gd *GrainDelay) ClearBuffer() {
	gd.line.Clear()
}

// SetSampleRate updates the sample rate, resizes the delay buffer and
// performs a full reset including buffer contents.
func (gd *GrainDelay) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("grain delay sample rate must be > 0: %f", sampleRate)
	}

	line, err := delay.New(int(maxDelayTimeSeconds * sampleRate))
	if err != nil {
		return err
	}

	gd.sampleRate = sampleRate
	gd.samplePeriod = 1 / sampleRate
	gd.line = line

	if err := gd.sched.SetSampleRate(sampleRate); err != nil {
		return err
	}

	gd.Reset()

	return nil
}
