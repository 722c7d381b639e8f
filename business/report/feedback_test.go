package report_test

import (
	"strings"
	"testing"

	"github.com/AbdulmuhsinB/EmotiSense/business/report"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/config"
)

func newGenerator(t *testing.T) *report.Generator {
	t.Helper()
	rules, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	return report.NewGenerator(rules)
}

func confidentVoice() report.VoiceAnalysis {
	return report.VoiceAnalysis{
		HasAudio:     true,
		Pitch:        &report.PitchStats{Average: 150, Variation: 25, Interpretation: "moderate (neutral to confident)"},
		Energy:       &report.EnergyStats{Average: 0.06, Interpretation: "high (confident and clear)"},
		SpeakingRate: &report.RateStats{Value: 0.07, Interpretation: "moderate (comfortable pace)"},
		OverallTone:  "confident and engaging",
	}
}

func happyFacial() report.FacialAnalysis {
	return report.FacialAnalysis{
		Duration:           30,
		FramesAnalyzed:     60,
		DominantEmotion:    "happy",
		EmotionPercentages: map[string]float64{"happy": 55, "neutral": 40, "sad": 5},
	}
}

func TestGenerate(t *testing.T) {
	t.Run("both branches failed", func(t *testing.T) {
		t.Parallel()
		g := newGenerator(t)

		fb := g.Generate(
			report.FacialAnalysis{Error: report.NoFacesError},
			report.VoiceAnalysis{Error: report.NoAudioError},
		)

		if !strings.HasPrefix(fb.Summary, "Unable to analyze video.") {
			t.Fatalf("got summary %q", fb.Summary)
		}
		if len(fb.FacialFeedback) != 0 || len(fb.VoiceFeedback) != 0 || len(fb.Recommendations) != 0 {
			t.Fatal("expected empty feedback sections")
		}
	})

	t.Run("strong communicator", func(t *testing.T) {
		t.Parallel()
		g := newGenerator(t)

		fb := g.Generate(happyFacial(), confidentVoice())

		if !contains(fb.Strengths, "Maintained happy expression") {
			t.Fatalf("strengths missing happy expression: %v", fb.Strengths)
		}
		if !contains(fb.Strengths, "Strong positive emotional presence") {
			t.Fatalf("strengths missing positive presence: %v", fb.Strengths)
		}
		if !contains(fb.Strengths, "Confident vocal tone") {
			t.Fatalf("strengths missing vocal tone: %v", fb.Strengths)
		}
		if !strings.Contains(fb.Summary, "You appeared happy throughout most of the video") {
			t.Fatalf("got summary %q", fb.Summary)
		}
		if !strings.Contains(fb.Summary, "strong communication skills") {
			t.Fatalf("got summary conclusion %q", fb.Summary)
		}

		if fb.FacialFeedback[0].Category != "Dominant Emotion" {
			t.Fatalf("got first facial item %+v", fb.FacialFeedback[0])
		}
		if !strings.Contains(fb.FacialFeedback[0].Observation, "'happy' (55.0% of the time)") {
			t.Fatalf("got observation %q", fb.FacialFeedback[0].Observation)
		}
	})

	t.Run("nervous monotone speaker", func(t *testing.T) {
		t.Parallel()
		g := newGenerator(t)

		facial := report.FacialAnalysis{
			DominantEmotion:    "fear",
			EmotionPercentages: map[string]float64{"fear": 60, "sad": 20, "angry": 8, "neutral": 5, "happy": 4, "disgust": 3},
		}
		voice := report.VoiceAnalysis{
			HasAudio:     true,
			Pitch:        &report.PitchStats{Interpretation: "low (calm or possibly monotone) with low variation (monotone)"},
			Energy:       &report.EnergyStats{Interpretation: "low (soft or hesitant)"},
			SpeakingRate: &report.RateStats{Interpretation: "fast (energetic or nervous)"},
			OverallTone:  "room for improvement in vocal presence",
		}

		fb := g.Generate(facial, voice)

		if !contains(fb.AreasForImprovement, "Work on managing fear expressions") {
			t.Fatalf("improvements missing fear: %v", fb.AreasForImprovement)
		}
		if !contains(fb.AreasForImprovement, "Practice emotional consistency") {
			t.Fatalf("improvements missing consistency: %v", fb.AreasForImprovement)
		}
		if !contains(fb.AreasForImprovement, "Increase pitch variation") {
			t.Fatalf("improvements missing pitch: %v", fb.AreasForImprovement)
		}
		if !contains(fb.AreasForImprovement, "Moderate speaking pace") {
			t.Fatalf("improvements missing pace: %v", fb.AreasForImprovement)
		}

		titles := recommendationTitles(fb)
		for _, want := range []string{
			"Practice Relaxation Techniques",
			"Increase Positive Expressions",
			"Vary Your Pitch",
			"Project Your Voice",
		} {
			if !contains(titles, want) {
				t.Fatalf("recommendations missing %q: %v", want, titles)
			}
		}
		if !strings.Contains(fb.Summary, "several areas where you can improve") {
			t.Fatalf("got summary %q", fb.Summary)
		}
	})

	t.Run("always-on recommendations", func(t *testing.T) {
		t.Parallel()
		g := newGenerator(t)

		fb := g.Generate(happyFacial(), confidentVoice())

		titles := recommendationTitles(fb)
		n := len(titles)
		if n < 2 || titles[n-2] != "Record and Review" || titles[n-1] != "Practice with Feedback" {
			t.Fatalf("practice recommendations missing or out of order: %v", titles)
		}
	})

	t.Run("facial only", func(t *testing.T) {
		t.Parallel()
		g := newGenerator(t)

		fb := g.Generate(happyFacial(), report.NoAudio())

		if len(fb.VoiceFeedback) != 0 {
			t.Fatal("unexpected voice feedback without audio")
		}
		if len(fb.FacialFeedback) == 0 {
			t.Fatal("expected facial feedback")
		}
		if strings.Contains(fb.Summary, "vocal tone") {
			t.Fatalf("summary mentions voice: %q", fb.Summary)
		}
	})
}

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}

func recommendationTitles(fb report.Feedback) []string {
	titles := make([]string, len(fb.Recommendations))
	for i, rec := range fb.Recommendations {
		titles[i] = rec.Title
	}
	return titles
}
