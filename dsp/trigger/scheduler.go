package trigger

import "fmt"

// MaxVoices bounds the scheduler polyphony.
const MaxVoices = 64

// VoiceState is the per-voice output of one Scheduler step.
//
// Envelope is the voice's envelope phase in [0, 1), or 0 while the
// voice is inactive. SubSampleOffset is the fractional-sample position
// of the trigger within the previous sample period and is only
// meaningful on the step where JustTriggered is set.
type VoiceState struct {
	Envelope        float64
	SubSampleOffset float64
	JustTriggered   bool
	Active          bool
}

// Scheduler turns a trigger rate into grain events on a fixed number of
// voices and advances each active voice's envelope phase.
//
// All voices derive from one shared ramp clock. A rate change is
// latched at the next ramp wrap, never mid-cycle, so a running grain
// envelope is never bent by parameter motion. When every voice is busy
// at a trigger edge the event is dropped silently.
type Scheduler struct {
	sampleRate float64

	detect   RampToTrig
	phase    float64
	slope    float64
	wrapNext bool

	slopes  []float64
	offsets []float64
	active  []bool

	out []VoiceState
}

// NewScheduler creates a scheduler with the given fixed voice count.
func NewScheduler(voices int, sampleRate float64) (*Scheduler, error) {
	if voices <= 0 || voices > MaxVoices {
		return nil, fmt.Errorf("scheduler voices must be in [1, %d]: %d", MaxVoices, voices)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("scheduler sample rate must be > 0: %f", sampleRate)
	}

	return &Scheduler{
		sampleRate: sampleRate,
		slopes:     make([]float64, voices),
		offsets:    make([]float64, voices),
		active:     make([]bool, voices),
		out:        make([]VoiceState, voices),
	}, nil
}

// Voices returns the fixed voice count.
func (s *Scheduler) Voices() int {
	return len(s.out)
}

// SampleRate returns the sample rate in Hz.
func (s *Scheduler) SampleRate() float64 {
	return s.sampleRate
}

// SetSampleRate updates the sample rate and clears transient state.
func (s *Scheduler) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("scheduler sample rate must be > 0: %f", sampleRate)
	}

	s.sampleRate = sampleRate
	s.Reset()

	return nil
}

// ActiveCount returns the number of currently active voices.
func (s *Scheduler) ActiveCount() int {
	n := 0
	for _, a := range s.active {
		if a {
			n++
		}
	}
	return n
}

// Process advances the trigger clock by one sample and returns the
// per-voice states. The returned slice is reused between calls and must
// not be retained.
//
// rate is the trigger rate in Hz and overlap stretches each grain
// envelope relative to the trigger period; both must already be clipped
// by the caller. While reset is held the scheduler stays cleared and
// every voice reports inactive.
func (s *Scheduler) Process(rate float64, reset bool, overlap float64) []VoiceState {
	if reset {
		s.Reset()
		return s.out
	}

	for i := range s.out {
		s.out[i].JustTriggered = false
	}

	// First sample after construction or a stopped clock.
	if s.slope == 0 {
		s.slope = rate / s.sampleRate
	}

	// Complete the wrap deferred from the previous sample. The slope is
	// re-latched here so rate changes take effect at period boundaries.
	if s.wrapNext {
		s.phase -= 1
		s.slope = rate / s.sampleRate
		s.wrapNext = false
	}

	trig := s.detect.Process(s.phase)

	if trig && s.slope != 0 {
		for ch := range s.active {
			if s.active[ch] {
				continue
			}

			// The phase already carries the post-wrap residual, so
			// phase/slope is the exact fractional-sample trigger
			// position. Pre-advance the envelope by that amount.
			s.slopes[ch] = s.slope / overlap
			s.offsets[ch] = s.phase / s.slope
			s.active[ch] = true

			s.out[ch].JustTriggered = true
			s.out[ch].SubSampleOffset = s.offsets[ch]
			s.out[ch].Envelope = s.slopes[ch] * s.offsets[ch]
			break
		}
	}

	for ch := range s.active {
		if !s.active[ch] {
			s.out[ch].Active = false
			s.out[ch].Envelope = 0
			continue
		}

		// The trigger sample keeps its pre-advanced envelope value.
		if !s.out[ch].JustTriggered {
			s.out[ch].Envelope += s.slopes[ch]
		}

		if s.out[ch].Envelope >= 1 {
			s.active[ch] = false
			s.out[ch].Active = false
			s.out[ch].Envelope = 0
		} else {
			s.out[ch].Active = true
		}
	}

	s.phase += s.slope
	if s.phase >= 1 {
		s.wrapNext = true
	}

	return s.out
}

// Reset clears the ramp clock, the edge detector and all voice state.
func (s *Scheduler) Reset() {
	s.phase = 0
	s.slope = 0
	s.wrapNext = false
	s.detect.Reset()

	for i := range s.out {
		s.slopes[i] = 0
		s.offsets[i] = 0
		s.active[i] = false
		s.out[i] = VoiceState{}
	}
}
