// Command graindelay-render renders a test signal through the granular
// delay and writes the result to a WAV file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-graindelay/dsp/core"
	"github.com/cwbudde/algo-graindelay/dsp/effects"
	"github.com/cwbudde/algo-graindelay/dsp/signal"
	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

func main() {
	source := flag.String("source", "burst", "Source signal: sine, noise or burst (sine that stops, leaving the delay tail)")
	freq := flag.Float64("freq", 440, "Source frequency in Hz (sine and burst)")
	burst := flag.Float64("burst", 0.5, "Burst length in seconds (burst source)")
	duration := flag.Float64("duration", 4.0, "Render duration in seconds")
	sampleRate := flag.Int("sample-rate", 48000, "Render sample rate in Hz")
	triggerRate := flag.Float64("trigger-rate", 8, "Grain trigger rate in Hz")
	overlap := flag.Float64("overlap", 2, "Target grain overlap")
	delayTime := flag.Float64("delay", 0.25, "Grain read delay in seconds")
	grainRate := flag.Float64("grain-rate", 1, "Grain playback rate (0.125..4)")
	mix := flag.Float64("mix", 1, "Wet/dry mix in [0, 1]")
	feedback := flag.Float64("feedback", 0.35, "Feedback amount in [0, 0.99]")
	damping := flag.Float64("damping", 0.25, "Feedback damping in [0, 1]")
	freezeAfter := flag.Float64("freeze-after", 0, "Freeze the buffer after this many seconds (0 = never)")
	gain := flag.Float64("gain", 1, "Output gain applied after processing")
	output := flag.String("output", "output.wav", "Output WAV file path")
	flag.Parse()

	totalFrames := int(float64(*sampleRate) * (*duration))
	if totalFrames < 1 {
		totalFrames = 1
	}

	gen := signal.NewGenerator(core.WithSampleRate(float64(*sampleRate)))

	var (
		in  []float64
		err error
	)

	switch *source {
	case "sine":
		in, err = gen.Sine(*freq, 0.8, totalFrames)
	case "noise":
		in, err = gen.WhiteNoise(0.5, totalFrames)
	case "burst":
		in, err = gen.Sine(*freq, 0.8, totalFrames)
		if err == nil {
			burstFrames := int(float64(*sampleRate) * (*burst))
			if burstFrames < totalFrames {
				core.Zero(in[burstFrames:])
			}
		}
	default:
		err = fmt.Errorf("unknown source %q", *source)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating source: %v\n", err)
		os.Exit(1)
	}

	gd, err := effects.NewGrainDelay(float64(*sampleRate))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating grain delay: %v\n", err)
		os.Exit(1)
	}

	gd.SetTriggerRate(*triggerRate)
	gd.SetOverlap(*overlap)
	gd.SetDelayTime(*delayTime)
	gd.SetGrainRate(*grainRate)
	gd.SetMix(*mix)
	gd.SetFeedback(*feedback)
	gd.SetDamping(*damping)

	fmt.Printf("Rendering %.2fs at %d Hz (source: %s, trigger %.2f Hz, overlap %.2f, delay %.3fs, rate %.3f)...\n",
		*duration, *sampleRate, *source, *triggerRate, *overlap, *delayTime, *grainRate)

	out := make([]float64, totalFrames)
	freezeFrame := totalFrames
	if *freezeAfter > 0 {
		freezeFrame = int(float64(*sampleRate) * (*freezeAfter))
	}

	for i := range in {
		if i == freezeFrame {
			gd.SetFreeze(true)
		}
		out[i] = gd.ProcessSample(in[i])
	}

	if *gain != 1 {
		vecmath.ScaleBlockInPlace(out, *gain)
	}

	samples := make([]float32, len(out))
	for i, v := range out {
		samples[i] = float32(v)
	}

	file, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	encoder := wav.NewEncoder(file, *sampleRate, 16, 1, 1)
	defer encoder.Close()

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  *sampleRate,
			NumChannels: 1,
		},
		Data:           samples,
		SourceBitDepth: 16,
	}

	if err := encoder.Write(buf); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing WAV file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully wrote %s (%d frames)\n", *output, totalFrames)
}
