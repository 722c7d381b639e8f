package report

import (
	"github.com/AbdulmuhsinB/EmotiSense/foundation/dsp"
)

// NoAudioError is the payload string reported when the container carries no
// audio track.
const NoAudioError = "No audio track found in video"

// InterpretVoice maps raw audio features to the voice analysis result with
// its natural-language interpretations.
func InterpretVoice(f dsp.Features) VoiceAnalysis {
	pitchInterp := interpretPitch(f.PitchMean, f.PitchStd)
	energyInterp := interpretEnergy(f.EnergyMean)
	rateInterp := interpretRate(f.ZCRMean)
	spectralInterp := interpretSpectral(f.SpectralCentroid)

	return VoiceAnalysis{
		HasAudio: true,
		Duration: round2(f.Duration),
		Pitch: &PitchStats{
			Average:        round2(f.PitchMean),
			Variation:      round2(f.PitchStd),
			Interpretation: pitchInterp,
		},
		Energy: &EnergyStats{
			Average:        round4(f.EnergyMean),
			Variation:      round4(f.EnergyStd),
			Interpretation: energyInterp,
		},
		SpeakingRate: &RateStats{
			Value:          round4(f.ZCRMean),
			Interpretation: rateInterp,
		},
		SpectralCentroid: &CentroidStats{
			Average:        round2(f.SpectralCentroid),
			Interpretation: spectralInterp,
		},
		Tempo:       round2(f.Tempo),
		OverallTone: overallTone(f),
	}
}

// NoAudio is the voice analysis result for a silent container.
func NoAudio() VoiceAnalysis {
	return VoiceAnalysis{
		HasAudio: false,
		Error:    NoAudioError,
	}
}

// =====================================================================================================================

func interpretPitch(pitch float64, pitchStd float64) string {
	var interp string
	switch {
	case pitch > 180:
		interp = "high (possible excitement or stress)"
	case pitch > 120:
		interp = "moderate (neutral to confident)"
	default:
		interp = "low (calm or possibly monotone)"
	}

	switch {
	case pitchStd > 30:
		interp += " with high variation (expressive)"
	case pitchStd < 15:
		interp += " with low variation (monotone)"
	}

	return interp
}

func interpretEnergy(energy float64) string {
	switch {
	case energy > 0.05:
		return "high (confident and clear)"
	case energy > 0.02:
		return "moderate (balanced)"
	default:
		return "low (soft or hesitant)"
	}
}

func interpretRate(zcr float64) string {
	switch {
	case zcr > 0.1:
		return "fast (energetic or nervous)"
	case zcr > 0.05:
		return "moderate (comfortable pace)"
	default:
		return "slow (deliberate or uncertain)"
	}
}

func interpretSpectral(centroid float64) string {
	switch {
	case centroid > 3000:
		return "bright (clear articulation)"
	case centroid > 2000:
		return "balanced"
	default:
		return "dark (muffled or low resonance)"
	}
}

func overallTone(f dsp.Features) string {
	var confidence int

	if f.PitchMean > 120 && f.PitchMean < 200 {
		confidence++
	}
	if f.EnergyMean > 0.03 {
		confidence++
	}
	if f.ZCRMean > 0.05 && f.ZCRMean < 0.1 {
		confidence++
	}
	if f.PitchStd > 15 {
		confidence++
	}

	switch {
	case confidence >= 3:
		return "confident and engaging"
	case confidence >= 2:
		return "moderate confidence"
	default:
		return "room for improvement in vocal presence"
	}
}
