package signal

import (
	"testing"

	"github.com/cwbudde/algo-graindelay/dsp/core"
)

func TestSineLength(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))
	s, err := g.Sine(1000, 1, 64)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}
	if len(s) != 64 {
		t.Fatalf("len = %d, want 64", len(s))
	}
}

func TestSineRejectsInvalidArgs(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))
	if _, err := g.Sine(1000, 1, 0); err == nil {
		t.Fatal("expected error for zero samples")
	}

	g = NewGenerator()
	g.cfg.SampleRate = 0
	if _, err := g.Sine(1000, 1, 64); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestImpulse(t *testing.T) {
	g := NewGenerator()
	out, err := g.Impulse(0.75, 3, 8)
	if err != nil {
		t.Fatalf("Impulse() error = %v", err)
	}
	for i, v := range out {
		want := 0.0
		if i == 3 {
			want = 0.75
		}
		if v != want {
			t.Fatalf("out[%d]=%v, want %v", i, v, want)
		}
	}

	if _, err := g.Impulse(1, 8, 8); err == nil {
		t.Fatal("expected error for out-of-range offset")
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1 := NewGeneratorWithOptions(nil, WithSeed(42))
	g2 := NewGeneratorWithOptions(nil, WithSeed(42))

	n1, err := g1.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	n2, err := g2.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	for i := range n1 {
		if n1[i] != n2[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, n1[i], n2[i])
		}
	}
}

func TestWhiteNoiseBounded(t *testing.T) {
	g := NewGenerator()
	out, err := g.WhiteNoise(0.25, 256)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	for i, v := range out {
		if v < -0.25 || v > 0.25 {
			t.Fatalf("out[%d]=%v exceeds amplitude", i, v)
		}
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{-0.5, 1.0, -0.25}, 0.5)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if out[1] != 0.5 {
		t.Fatalf("peak = %v, want 0.5", out[1])
	}
}

func TestNormalizeSilence(t *testing.T) {
	out, err := Normalize([]float64{0, 0, 0}, 1)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d]=%v, want 0", i, v)
		}
	}
}
