// Package report turns raw detections and audio features into the response
// payloads: facial aggregation, voice interpretation and coaching feedback.
package report

import (
	"math"
	"sort"

	"github.com/AbdulmuhsinB/EmotiSense/foundation/external/deepface"
)

const timelineSegments = 10

// NoFacesError is the payload string reported when no frame produced a face.
const NoFacesError = "No faces detected in video"

// AggregateFacial reduces per-frame detections to the facial analysis result:
// dominant emotion, percentage distribution, average scores and a
// fixed-segment timeline.
func AggregateFacial(detections []Detection, duration float64, totalFrames int) FacialAnalysis {
	if len(detections) == 0 {
		return FacialAnalysis{
			Error:          NoFacesError,
			Duration:       round2(duration),
			FramesAnalyzed: 0,
		}
	}

	counts := make(map[string]int)
	for _, d := range detections {
		counts[d.Emotion]++
	}

	total := len(detections)
	percentages := make(map[string]float64, len(counts))
	for emotion, count := range counts {
		percentages[emotion] = float64(count) / float64(total) * 100
	}

	return FacialAnalysis{
		Duration:           round2(duration),
		FramesAnalyzed:     total,
		TotalFrames:        totalFrames,
		DominantEmotion:    mostFrequent(counts),
		EmotionPercentages: percentages,
		AverageScores:      averageScores(detections),
		Timeline:           buildTimeline(detections, duration),
		EmotionsDetected:   detections,
	}
}

// AggregateDemographics reduces the per-frame faces of a demographic run to
// the /api/analyze-video analysis payload.
func AggregateDemographics(faces []deepface.Face, duration float64, fps float64, totalFrames int) (VideoInsights, bool) {
	if len(faces) == 0 {
		return VideoInsights{}, false
	}

	var ageSum float64
	emotionCounts := make(map[string]int)
	genderCounts := make(map[string]int)
	raceCounts := make(map[string]int)

	for _, face := range faces {
		ageSum += face.Age
		emotionCounts[face.DominantEmotion]++
		if face.DominantGender != "" {
			genderCounts[face.DominantGender]++
		}
		if face.DominantRace != "" {
			raceCounts[face.DominantRace]++
		}
	}

	emotion := mostFrequent(emotionCounts)
	distribution := make(map[string]float64, len(emotionCounts))
	for label, count := range emotionCounts {
		distribution[label] = round2(float64(count) / float64(len(faces)) * 100)
	}

	return VideoInsights{
		Duration:       round2(duration),
		TotalFrames:    totalFrames,
		FramesAnalyzed: len(faces),
		FPS:            round2(fps),
		Age:            round2(ageSum / float64(len(faces))),
		Gender:         modeConfidence(genderCounts, faces, func(f deepface.Face) (string, map[string]float64) { return f.DominantGender, f.Gender }),
		Race:           modeConfidence(raceCounts, faces, func(f deepface.Face) (string, map[string]float64) { return f.DominantRace, f.Race }),
		Emotion: EmotionSummary{
			Value:        emotion,
			Confidence:   round2(averageScore(faces, emotion, func(f deepface.Face) map[string]float64 { return f.Emotion })),
			Distribution: distribution,
		},
	}, true
}

// =====================================================================================================================

func mostFrequent(counts map[string]int) string {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var best string
	var bestCount int
	for _, label := range labels {
		if counts[label] > bestCount {
			best = label
			bestCount = counts[label]
		}
	}
	return best
}

func averageScores(detections []Detection) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, d := range detections {
		for emotion, score := range d.Scores {
			sums[emotion] += score
			counts[emotion]++
		}
	}

	avgs := make(map[string]float64, len(sums))
	for emotion, sum := range sums {
		avgs[emotion] = round2(sum / float64(counts[emotion]))
	}
	return avgs
}

func buildTimeline(detections []Detection, duration float64) []TimelineSegment {
	segmentDuration := duration / timelineSegments
	timeline := make([]TimelineSegment, 0, timelineSegments)

	for i := 0; i < timelineSegments; i++ {
		start := float64(i) * segmentDuration
		end := float64(i+1) * segmentDuration

		counts := make(map[string]int)
		for _, d := range detections {
			if d.Timestamp >= start && d.Timestamp < end {
				counts[d.Emotion]++
			}
		}

		dominant := "neutral"
		if len(counts) > 0 {
			dominant = mostFrequent(counts)
		}

		timeline = append(timeline, TimelineSegment{
			Segment:   i + 1,
			StartTime: round2(start),
			EndTime:   round2(end),
			Emotion:   dominant,
		})
	}
	return timeline
}

func modeConfidence(counts map[string]int, faces []deepface.Face, pick func(deepface.Face) (string, map[string]float64)) ValueConfidence {
	mode := mostFrequent(counts)
	if mode == "" {
		return ValueConfidence{}
	}

	var sum float64
	var n int
	for _, face := range faces {
		_, scores := pick(face)
		if score, exists := scores[mode]; exists {
			sum += score
			n++
		}
	}

	vc := ValueConfidence{Value: mode}
	if n > 0 {
		vc.Confidence = round2(sum / float64(n))
	}
	return vc
}

func averageScore(faces []deepface.Face, label string, pick func(deepface.Face) map[string]float64) float64 {
	var sum float64
	var n int
	for _, face := range faces {
		if score, exists := pick(face)[label]; exists {
			sum += score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
