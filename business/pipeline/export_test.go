package pipeline

import (
	"github.com/AbdulmuhsinB/EmotiSense/business/report"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/dsp"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/media"
)

// Bridges for the external test package.

var DegradedBranches = degradedBranches

func BuildVoice(features dsp.Features, err error) report.VoiceAnalysis {
	return buildVoice(voiceResult{features: features, err: err})
}

func BuildFacial(detections []report.Detection, err error, meta media.Metadata) report.FacialAnalysis {
	var w Worker
	return w.buildFacial(facialResult{detections: detections, err: err}, meta)
}
