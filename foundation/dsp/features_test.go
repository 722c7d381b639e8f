package dsp_test

import (
	"math"
	"testing"

	"github.com/AbdulmuhsinB/EmotiSense/foundation/dsp"
)

const sampleRate = 22050

func sine(freq float64, amplitude float64, seconds float64) []float64 {
	n := int(seconds * sampleRate)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return samples
}

func TestExtract(t *testing.T) {
	t.Run("pitch of a pure tone", func(t *testing.T) {
		t.Parallel()
		f := dsp.Extract(sine(220, 0.5, 2), sampleRate)

		if math.Abs(f.PitchMean-220) > 8 {
			t.Fatalf("got pitch %f, want ~220", f.PitchMean)
		}
		if f.PitchStd > 5 {
			t.Fatalf("got pitch deviation %f for a steady tone", f.PitchStd)
		}
		if f.VoicedFrames == 0 {
			t.Fatal("no voiced frames detected")
		}
		if math.Abs(f.Duration-2) > 0.01 {
			t.Fatalf("got duration %f", f.Duration)
		}
	})

	t.Run("energy of a known amplitude", func(t *testing.T) {
		t.Parallel()
		f := dsp.Extract(sine(220, 0.5, 1), sampleRate)

		// RMS of a 0.5 amplitude sine is 0.5/sqrt(2).
		want := 0.5 / math.Sqrt2
		if math.Abs(f.EnergyMean-want) > 0.02 {
			t.Fatalf("got energy %f, want ~%f", f.EnergyMean, want)
		}
	})

	t.Run("zero crossing rate tracks frequency", func(t *testing.T) {
		t.Parallel()
		f := dsp.Extract(sine(1000, 0.5, 1), sampleRate)

		// A sine at freq crosses zero 2*freq times per second.
		want := 2.0 * 1000 / sampleRate
		if math.Abs(f.ZCRMean-want) > want*0.2 {
			t.Fatalf("got zcr %f, want ~%f", f.ZCRMean, want)
		}
	})

	t.Run("spectral centroid of a pure tone", func(t *testing.T) {
		t.Parallel()
		f := dsp.Extract(sine(1000, 0.5, 1), sampleRate)

		if math.Abs(f.SpectralCentroid-1000) > 200 {
			t.Fatalf("got centroid %f, want ~1000", f.SpectralCentroid)
		}
	})

	t.Run("silence", func(t *testing.T) {
		t.Parallel()
		f := dsp.Extract(make([]float64, sampleRate), sampleRate)

		if f.PitchMean != 0 || f.VoicedFrames != 0 {
			t.Fatalf("got pitch %f over %d voiced frames for silence", f.PitchMean, f.VoicedFrames)
		}
		if f.EnergyMean != 0 {
			t.Fatalf("got energy %f for silence", f.EnergyMean)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		f := dsp.Extract(nil, sampleRate)
		if f.Duration != 0 {
			t.Fatalf("got duration %f", f.Duration)
		}
	})

	t.Run("tempo of a click train", func(t *testing.T) {
		t.Parallel()
		// Clicks every 0.5s => 120 BPM.
		samples := make([]float64, 4*sampleRate)
		for click := 0; click < 8; click++ {
			start := click * sampleRate / 2
			for i := 0; i < 64 && start+i < len(samples); i++ {
				samples[start+i] = 0.9
			}
		}

		f := dsp.Extract(samples, sampleRate)
		if f.Tempo < 100 || f.Tempo > 140 {
			t.Fatalf("got tempo %f, want ~120", f.Tempo)
		}
	})
}
