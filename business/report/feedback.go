package report

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/AbdulmuhsinB/EmotiSense/foundation/config"
)

// Generator assembles natural-language feedback from the two analysis
// results using the configured emotion rule table.
type Generator struct {
	rules config.Rules
}

func NewGenerator(rules config.Rules) *Generator {
	return &Generator{
		rules: rules,
	}
}

func (g *Generator) Generate(facial FacialAnalysis, voice VoiceAnalysis) Feedback {
	feedback := Feedback{
		FacialFeedback:      []Item{},
		VoiceFeedback:       []Item{},
		Recommendations:     []Recommendation{},
		Strengths:           []string{},
		AreasForImprovement: []string{},
	}

	facialFailed := facial.Error != ""
	voiceFailed := voice.Error != ""

	if facialFailed && voiceFailed {
		feedback.Summary = "Unable to analyze video. Please ensure the video contains visible faces and clear audio."
		return feedback
	}

	if !facialFailed {
		items, strengths, improvements := g.facialFeedback(facial)
		feedback.FacialFeedback = items
		feedback.Strengths = append(feedback.Strengths, strengths...)
		feedback.AreasForImprovement = append(feedback.AreasForImprovement, improvements...)
	}

	if !voiceFailed {
		items, strengths, improvements := g.voiceFeedback(voice)
		feedback.VoiceFeedback = items
		feedback.Strengths = append(feedback.Strengths, strengths...)
		feedback.AreasForImprovement = append(feedback.AreasForImprovement, improvements...)
	}

	feedback.Summary = summarize(facial, voice, feedback.Strengths, feedback.AreasForImprovement)
	feedback.Recommendations = g.recommendations(facial, voice)

	return feedback
}

func (g *Generator) facialFeedback(facial FacialAnalysis) ([]Item, []string, []string) {
	items := []Item{}
	strengths := []string{}
	improvements := []string{}

	dominant := facial.DominantEmotion
	if dominant == "" {
		dominant = "neutral"
	}

	if insight, exists := g.rules.Lookup(dominant); exists {
		items = append(items, Item{
			Category:    "Dominant Emotion",
			Observation: fmt.Sprintf("Your dominant emotion was '%s' (%.1f%% of the time).", dominant, facial.EmotionPercentages[dominant]),
			Insight:     insight.Insight,
			Tip:         insight.Tip,
		})

		if dominant == "happy" || dominant == "neutral" {
			strengths = append(strengths, fmt.Sprintf("Maintained %s expression", dominant))
		} else {
			improvements = append(improvements, fmt.Sprintf("Work on managing %s expressions", dominant))
		}
	}

	if len(facial.EmotionPercentages) > 5 {
		items = append(items, Item{
			Category:    "Emotional Consistency",
			Observation: "Your emotions varied significantly throughout the video.",
			Insight:     "This could indicate natural expressiveness or lack of emotional control.",
			Tip:         "For professional settings, aim for more consistent emotional expression.",
		})
		improvements = append(improvements, "Practice emotional consistency")
	} else {
		strengths = append(strengths, "Consistent emotional expression")
	}

	positive := facial.EmotionPercentages["happy"]
	if positive > 40 {
		strengths = append(strengths, "Strong positive emotional presence")
	} else if positive < 10 {
		improvements = append(improvements, "Consider showing more positive engagement")
	}

	return items, strengths, improvements
}

func (g *Generator) voiceFeedback(voice VoiceAnalysis) ([]Item, []string, []string) {
	items := []Item{}
	strengths := []string{}
	improvements := []string{}

	items = append(items, Item{
		Category:    "Overall Vocal Tone",
		Observation: fmt.Sprintf("Your vocal tone was %s.", voice.OverallTone),
		Insight:     "Vocal tone significantly impacts how your message is received.",
		Tip:         "Continue developing vocal confidence through practice and preparation.",
	})

	if strings.Contains(voice.OverallTone, "confident") {
		strengths = append(strengths, "Confident vocal tone")
	} else {
		improvements = append(improvements, "Build more vocal confidence")
	}

	var pitchInterp string
	if voice.Pitch != nil {
		pitchInterp = voice.Pitch.Interpretation
	}
	if strings.Contains(pitchInterp, "monotone") {
		items = append(items, Item{
			Category:    "Pitch Variation",
			Observation: "Your pitch variation was limited.",
			Insight:     "Monotone delivery can make content less engaging.",
			Tip:         "Practice emphasizing key words and varying your pitch to maintain interest.",
		})
		improvements = append(improvements, "Increase pitch variation")
	} else if strings.Contains(pitchInterp, "expressive") {
		strengths = append(strengths, "Good pitch variation")
	}

	var energyInterp string
	if voice.Energy != nil {
		energyInterp = voice.Energy.Interpretation
	}
	if strings.Contains(energyInterp, "confident") {
		strengths = append(strengths, "Clear and confident vocal energy")
	} else if strings.Contains(energyInterp, "soft") || strings.Contains(energyInterp, "hesitant") {
		improvements = append(improvements, "Project voice with more energy")
	}

	var rateInterp string
	if voice.SpeakingRate != nil {
		rateInterp = voice.SpeakingRate.Interpretation
	}
	switch {
	case strings.Contains(rateInterp, "fast"):
		items = append(items, Item{
			Category:    "Speaking Rate",
			Observation: "You spoke at a fast pace.",
			Insight:     "Fast speaking can indicate nervousness or enthusiasm.",
			Tip:         "Slow down and add strategic pauses for emphasis and clarity.",
		})
		improvements = append(improvements, "Moderate speaking pace")

	case strings.Contains(rateInterp, "slow"):
		items = append(items, Item{
			Category:    "Speaking Rate",
			Observation: "You spoke at a slower pace.",
			Insight:     "Slow speaking can be deliberate or indicate uncertainty.",
			Tip:         "Ensure your pace matches your message and maintains engagement.",
		})

	default:
		strengths = append(strengths, "Comfortable speaking pace")
	}

	return items, strengths, improvements
}

func (g *Generator) recommendations(facial FacialAnalysis, voice VoiceAnalysis) []Recommendation {
	recommendations := []Recommendation{}

	if facial.Error == "" {
		switch facial.DominantEmotion {
		case "fear", "sad", "angry":
			recommendations = append(recommendations, Recommendation{
				Title:       "Practice Relaxation Techniques",
				Description: "Before important conversations, take deep breaths and practice positive visualization to appear more calm and confident.",
			})
		}

		if facial.EmotionPercentages["happy"] < 20 {
			recommendations = append(recommendations, Recommendation{
				Title:       "Increase Positive Expressions",
				Description: "Smile more naturally and show genuine interest. This makes you more approachable and engaging.",
			})
		}
	}

	if voice.Error == "" {
		if voice.Pitch != nil && strings.Contains(voice.Pitch.Interpretation, "monotone") {
			recommendations = append(recommendations, Recommendation{
				Title:       "Vary Your Pitch",
				Description: "Practice reading aloud with exaggerated emphasis. Gradually incorporate natural variation into your speaking.",
			})
		}

		if voice.Energy != nil && strings.Contains(voice.Energy.Interpretation, "soft") {
			recommendations = append(recommendations, Recommendation{
				Title:       "Project Your Voice",
				Description: "Speak from your diaphragm, not your throat. Practice projecting your voice to fill the room confidently.",
			})
		}
	}

	recommendations = append(recommendations,
		Recommendation{
			Title:       "Record and Review",
			Description: "Regularly record yourself in practice sessions and review your nonverbal communication. Self-awareness is key to improvement.",
		},
		Recommendation{
			Title:       "Practice with Feedback",
			Description: "Present to friends or colleagues and ask for honest feedback about your body language and tone.",
		},
	)

	return recommendations
}

// =====================================================================================================================

func summarize(facial FacialAnalysis, voice VoiceAnalysis, strengths []string, improvements []string) string {
	var parts []string

	if facial.Error == "" {
		dominant := facial.DominantEmotion
		if dominant == "" {
			dominant = "neutral"
		}
		parts = append(parts, fmt.Sprintf("You appeared %s throughout most of the video", dominant))
	}

	if voice.Error == "" {
		parts = append(parts, fmt.Sprintf("your vocal tone was %s", voice.OverallTone))
	}

	var conclusion string
	switch {
	case len(strengths) > len(improvements):
		conclusion = "Overall, you demonstrated strong communication skills with a few areas for refinement."
	case len(improvements) > len(strengths):
		conclusion = "There are several areas where you can improve your nonverbal communication for greater impact."
	default:
		conclusion = "You showed balanced nonverbal communication with both strengths and opportunities for growth."
	}

	if len(parts) == 0 {
		return conclusion
	}
	return capitalize(strings.Join(parts, ". ")) + ". " + conclusion
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
