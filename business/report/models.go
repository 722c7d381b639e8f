package report

// Report is the full /analyze response payload.
type Report struct {
	Success        bool            `json:"success"`
	FacialAnalysis *FacialAnalysis `json:"facial_analysis,omitempty"`
	VoiceAnalysis  *VoiceAnalysis  `json:"voice_analysis,omitempty"`
	Feedback       *Feedback       `json:"feedback,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// Detection is one frame that produced a face, with the classifier's raw
// per-emotion scores.
type Detection struct {
	Frame     int                `json:"frame"`
	Timestamp float64            `json:"timestamp"`
	Emotion   string             `json:"emotion"`
	Scores    map[string]float64 `json:"scores"`
}

type FacialAnalysis struct {
	Duration           float64            `json:"duration"`
	FramesAnalyzed     int                `json:"frames_analyzed"`
	TotalFrames        int                `json:"total_frames,omitempty"`
	DominantEmotion    string             `json:"dominant_emotion,omitempty"`
	EmotionPercentages map[string]float64 `json:"emotion_percentages,omitempty"`
	AverageScores      map[string]float64 `json:"average_scores,omitempty"`
	Timeline           []TimelineSegment  `json:"timeline,omitempty"`
	EmotionsDetected   []Detection        `json:"emotions_detected,omitempty"`
	Error              string             `json:"error,omitempty"`
}

type TimelineSegment struct {
	Segment   int     `json:"segment"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Emotion   string  `json:"emotion"`
}

type VoiceAnalysis struct {
	HasAudio         bool           `json:"has_audio"`
	Duration         float64        `json:"duration,omitempty"`
	Pitch            *PitchStats    `json:"pitch,omitempty"`
	Energy           *EnergyStats   `json:"energy,omitempty"`
	SpeakingRate     *RateStats     `json:"speaking_rate,omitempty"`
	SpectralCentroid *CentroidStats `json:"spectral_centroid,omitempty"`
	Tempo            float64        `json:"tempo,omitempty"`
	OverallTone      string         `json:"overall_tone,omitempty"`
	Error            string         `json:"error,omitempty"`
}

type PitchStats struct {
	Average        float64 `json:"average"`
	Variation      float64 `json:"variation"`
	Interpretation string  `json:"interpretation"`
}

type EnergyStats struct {
	Average        float64 `json:"average"`
	Variation      float64 `json:"variation"`
	Interpretation string  `json:"interpretation"`
}

type RateStats struct {
	Value          float64 `json:"value"`
	Interpretation string  `json:"interpretation"`
}

type CentroidStats struct {
	Average        float64 `json:"average"`
	Interpretation string  `json:"interpretation"`
}

type Feedback struct {
	Summary             string           `json:"summary"`
	FacialFeedback      []Item           `json:"facial_feedback"`
	VoiceFeedback       []Item           `json:"voice_feedback"`
	Recommendations     []Recommendation `json:"recommendations"`
	Strengths           []string         `json:"strengths"`
	AreasForImprovement []string         `json:"areas_for_improvement"`
}

type Item struct {
	Category    string `json:"category"`
	Observation string `json:"observation"`
	Insight     string `json:"insight"`
	Tip         string `json:"tip"`
}

type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// VideoInsights is the analysis payload of /api/analyze-video.
type VideoInsights struct {
	Duration       float64         `json:"duration"`
	TotalFrames    int             `json:"total_frames"`
	FramesAnalyzed int             `json:"frames_analyzed"`
	FPS            float64         `json:"fps"`
	Age            float64         `json:"age"`
	Gender         ValueConfidence `json:"gender"`
	Emotion        EmotionSummary  `json:"emotion"`
	Race           ValueConfidence `json:"race"`
}

type ValueConfidence struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

type EmotionSummary struct {
	Value        string             `json:"value"`
	Confidence   float64            `json:"confidence"`
	Distribution map[string]float64 `json:"distribution"`
}
