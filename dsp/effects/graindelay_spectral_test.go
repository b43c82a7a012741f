package effects

import (
	"math"
	"testing"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-graindelay/dsp/window"
)

// dominantBin returns the FFT bin with the largest magnitude in
// x[from:n/2], analyzed with a Hann window.
func dominantBin(t *testing.T, x []float64, fftSize, from int) int {
	t.Helper()

	if len(x) < fftSize {
		t.Fatalf("analysis frame too short: %d < %d", len(x), fftSize)
	}

	frame := make([]float64, fftSize)
	copy(frame, x[:fftSize])
	window.Apply(frame)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		t.Fatalf("NewPlan64() error = %v", err)
	}

	in := make([]complex128, fftSize)
	out := make([]complex128, fftSize)
	for i, v := range frame {
		in[i] = complex(v, 0)
	}

	if err := plan.Forward(out, in); err != nil {
		t.Fatalf("Forward() error = %v", err)
	}

	peak := from
	peakMag := 0.0
	for k := from; k <= fftSize/2; k++ {
		mag := math.Hypot(real(out[k]), imag(out[k]))
		if mag > peakMag {
			peakMag = mag
			peak = k
		}
	}

	return peak
}

// Grain playback at unity rate must preserve the input pitch; rate 2
// transposes it up an octave. The trigger rate only contributes
// sidebands well below the analysis tolerance.
func TestGrainDelayPitchFollowsGrainRate(t *testing.T) {
	const (
		sampleRate = 48000.0
		inputFreq  = 440.0
		fftSize    = 16384
	)

	cases := []struct {
		name      string
		grainRate float64
		wantFreq  float64
	}{
		{"unity", 1.0, inputFreq},
		{"octave-up", 2.0, 2 * inputFreq},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gd, err := NewGrainDelay(sampleRate)
			if err != nil {
				t.Fatalf("NewGrainDelay() error = %v", err)
			}

			gd.SetTriggerRate(20)
			gd.SetOverlap(4)
			gd.SetDelayTime(0.05)
			gd.SetGrainRate(tc.grainRate)
			gd.SetMix(1)
			gd.SetFeedback(0)
			gd.SetDamping(0)

			n := 48000
			out := make([]float64, n)
			for i := range out {
				in := 0.8 * math.Sin(2*math.Pi*inputFreq*float64(i)/sampleRate)
				out[i] = gd.ProcessSample(in)
			}

			// Skip the fill-in phase so the frame holds steady-state grains.
			peak := dominantBin(t, out[24000:], fftSize, 30)

			want := tc.wantFreq * fftSize / sampleRate
			if math.Abs(float64(peak)-want) > 10 {
				t.Fatalf("dominant bin = %d (%.1f Hz), want near %.1f Hz",
					peak, float64(peak)*sampleRate/fftSize, tc.wantFreq)
			}
		})
	}
}
