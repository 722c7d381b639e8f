package pipeline

import (
	"time"

	"github.com/AbdulmuhsinB/EmotiSense/business/report"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/config"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/dsp"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/external/deepface"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/pubsub"
	"go.uber.org/zap"
)

type Settings struct {
	Config
	Logger *zap.SugaredLogger
	Vision *deepface.Client
	Broker *pubsub.Broker
	Rules  config.Rules
}

type Config struct {
	SessionID    string
	VideoPath    string
	WorkDir      string
	FrameStride  int
	Demographics bool
}

// Result is the terminal output of one pipeline run. Insights is set only for
// demographic runs that saw at least one face.
type Result struct {
	Report   report.Report
	Insights *report.VideoInsights
}

// Progress is one stage event published to the session's progress topic.
type Progress struct {
	SessionID string    `json:"session_id"`
	Stage     string    `json:"stage"`
	Detail    string    `json:"detail,omitempty"`
	At        time.Time `json:"at"`
}

// Topic names the progress topic of a session.
func Topic(sessionID string) string {
	return "progress:" + sessionID
}

// =====================================================================================================================

type facialResult struct {
	detections []report.Detection
	faces      []deepface.Face
	err        error
}

type audioResult struct {
	wavPath string
	err     error
}

type voiceResult struct {
	features dsp.Features
	err      error
}
