package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AbdulmuhsinB/EmotiSense/business/report"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/media"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/state"
)

func (w *Worker) reportOperation() {
	w.logger.Infow("worker: reportOperation: G started", "sessionID", w.config.SessionID)
	defer w.logger.Infow("worker: reportOperation: G completed", "sessionID", w.config.SessionID)

	var meta media.Metadata
	select {
	case meta = <-w.reportMetaCh:
	case <-w.shut:
		return
	}

	var fres facialResult
	var vres voiceResult

	facialCh, voiceCh := w.facialCh, w.voiceCh
	for facialCh != nil || voiceCh != nil {
		select {
		case fr := <-facialCh:
			fres, facialCh = fr, nil
		case vr := <-voiceCh:
			vres, voiceCh = vr, nil
		case <-w.shut:
			return
		}
	}

	degraded := degradedBranches(w.state)
	w.publish("generating feedback", degraded)
	if degraded != "" {
		w.logger.Infow("worker: reportOperation: degraded branches",
			"sessionID", w.config.SessionID,
			"branches", degraded,
		)
	}

	facial := w.buildFacial(fres, meta)
	voice := buildVoice(vres)
	feedback := w.generator.Generate(facial, voice)

	result := Result{
		Report: report.Report{
			Success:        true,
			FacialAnalysis: &facial,
			VoiceAnalysis:  &voice,
			Feedback:       &feedback,
		},
	}

	if w.config.Demographics {
		if insights, ok := report.AggregateDemographics(fres.faces, meta.Duration, meta.FPS, meta.TotalFrames); ok {
			result.Insights = &insights
		}
	}

	select {
	case w.result <- result:
	case <-w.shut:
		return
	}

	w.publish("complete", "")
	w.Shutdown(nil)
}

// =====================================================================================================================

// degradedBranches names the analysis branches that were turned off, for the
// progress event detail. Empty when both branches are healthy.
func degradedBranches(s *state.State) string {
	var branches []string
	if !s.Get(state.Facial) {
		branches = append(branches, "facial")
	}
	if !s.Get(state.Voice) {
		branches = append(branches, "voice")
	}
	return strings.Join(branches, ",")
}

func (w *Worker) buildFacial(fres facialResult, meta media.Metadata) report.FacialAnalysis {
	if fres.err != nil {
		return report.FacialAnalysis{
			Duration: meta.Duration,
			Error:    fmt.Sprintf("Facial analysis failed: %v", fres.err),
		}
	}
	return report.AggregateFacial(fres.detections, meta.Duration, meta.TotalFrames)
}

func buildVoice(vres voiceResult) report.VoiceAnalysis {
	switch {
	case errors.Is(vres.err, media.ErrNoAudio):
		return report.NoAudio()

	case vres.err != nil:
		return report.VoiceAnalysis{
			HasAudio: true,
			Error:    fmt.Sprintf("Voice analysis failed: %v", vres.err),
		}
	}
	return report.InterpretVoice(vres.features)
}
