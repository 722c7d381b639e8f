// Package dsp derives the voice features (pitch, energy, speaking-rate proxy,
// spectral centroid, tempo) used by the voice interpretation stage.
package dsp

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

const (
	frameSize = 2048
	hopSize   = 512

	// Pitch search range in Hz. Human speech fundamentals live well inside it.
	minPitchHz = 50
	maxPitchHz = 500

	// Frames with RMS below this are treated as unvoiced.
	voicedRMS = 0.01

	// Autocorrelation peaks weaker than this are discarded as unpitched.
	minPitchCorr = 0.3

	minTempoBPM = 60
	maxTempoBPM = 180
)

// Features holds aggregate voice statistics for one audio track.
type Features struct {
	Duration         float64
	PitchMean        float64
	PitchStd         float64
	EnergyMean       float64
	EnergyStd        float64
	ZCRMean          float64
	SpectralCentroid float64
	Tempo            float64
	VoicedFrames     int
}

// Extract computes Features over normalized mono samples.
func Extract(samples []float64, sampleRate int) Features {
	var f Features
	if sampleRate <= 0 || len(samples) == 0 {
		return f
	}
	f.Duration = float64(len(samples)) / float64(sampleRate)

	var (
		energies  []float64
		zcrs      []float64
		pitches   []float64
		centroids []float64
	)

	fft := fourier.NewFFT(frameSize)

	for start := 0; start+frameSize <= len(samples); start += hopSize {
		frame := samples[start : start+frameSize]

		energy := rms(frame)
		energies = append(energies, energy)
		zcrs = append(zcrs, zeroCrossingRate(frame))

		if energy < voicedRMS {
			continue
		}

		if pitch := autocorrPitch(frame, sampleRate); pitch > 0 {
			pitches = append(pitches, pitch)
		}
		centroids = append(centroids, spectralCentroid(fft, frame, sampleRate))
	}

	f.EnergyMean, f.EnergyStd = meanStd(energies)
	f.ZCRMean, _ = meanStd(zcrs)
	f.PitchMean, f.PitchStd = meanStd(pitches)
	f.SpectralCentroid, _ = meanStd(centroids)
	f.VoicedFrames = len(pitches)
	f.Tempo = estimateTempo(energies, sampleRate)

	return f
}

// =====================================================================================================================

func rms(frame []float64) float64 {
	var sum float64
	for _, s := range frame {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(frame)))
}

func zeroCrossingRate(frame []float64) float64 {
	var crossings int
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0) != (frame[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(frame))
}

// autocorrPitch estimates the fundamental frequency of a frame by locating
// the strongest normalized autocorrelation peak in the pitch lag range.
func autocorrPitch(frame []float64, sampleRate int) float64 {
	minLag := sampleRate / maxPitchHz
	maxLag := sampleRate / minPitchHz
	if maxLag >= len(frame) {
		maxLag = len(frame) - 1
	}
	if minLag < 1 || minLag >= maxLag {
		return 0
	}

	var r0 float64
	for _, s := range frame {
		r0 += s * s
	}
	if r0 == 0 {
		return 0
	}

	bestLag := 0
	bestCorr := 0.0

	for lag := minLag; lag <= maxLag; lag++ {
		var r float64
		for i := 0; i+lag < len(frame); i++ {
			r += frame[i] * frame[i+lag]
		}
		corr := r / r0
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 || bestCorr < minPitchCorr {
		return 0
	}
	return float64(sampleRate) / float64(bestLag)
}

func spectralCentroid(fft *fourier.FFT, frame []float64, sampleRate int) float64 {
	coeffs := fft.Coefficients(nil, frame)

	var weighted, total float64
	for k, c := range coeffs {
		mag := cmplx.Abs(c)
		freq := float64(k) * float64(sampleRate) / float64(len(frame))
		weighted += freq * mag
		total += mag
	}

	if total == 0 {
		return 0
	}
	return weighted / total
}

// estimateTempo autocorrelates the positive energy flux (a crude onset
// envelope) and converts the strongest lag in the 60-180 BPM band to beats
// per minute.
func estimateTempo(energies []float64, sampleRate int) float64 {
	if len(energies) < 4 {
		return 0
	}

	flux := make([]float64, len(energies)-1)
	for i := 1; i < len(energies); i++ {
		if d := energies[i] - energies[i-1]; d > 0 {
			flux[i-1] = d
		}
	}

	envRate := float64(sampleRate) / float64(hopSize)
	minLag := int(envRate * 60 / maxTempoBPM)
	maxLag := int(envRate * 60 / minTempoBPM)
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(flux) {
		maxLag = len(flux) - 1
	}
	if minLag >= maxLag {
		return 0
	}

	bestLag := 0
	bestCorr := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var r float64
		for i := 0; i+lag < len(flux); i++ {
			r += flux[i] * flux[i+lag]
		}
		if r > bestCorr {
			bestCorr = r
			bestLag = lag
		}
	}

	if bestLag == 0 || bestCorr == 0 {
		return 0
	}
	return 60 * envRate / float64(bestLag)
}

func meanStd(xs []float64) (float64, float64) {
	switch len(xs) {
	case 0:
		return 0, 0
	case 1:
		return xs[0], 0
	}
	return stat.Mean(xs, nil), stat.StdDev(xs, nil)
}
