package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/AbdulmuhsinB/EmotiSense/business/report"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/external/deepface"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/media"
)

const progressEvery = 10

func (w *Worker) facialOperation() {
	w.logger.Infow("worker: facialOperation: G started", "sessionID", w.config.SessionID)
	defer w.logger.Infow("worker: facialOperation: G completed", "sessionID", w.config.SessionID)

	var frames []media.Frame
	select {
	case frames = <-w.framesCh:
	case <-w.shut:
		return
	}

	w.publish("facial analysis", fmt.Sprintf("0/%d", len(frames)))

	actions := []string{deepface.ActionEmotion}
	if w.config.Demographics {
		actions = append(actions, deepface.ActionAge, deepface.ActionGender, deepface.ActionRace)
	}

	var detections []report.Detection
	var faces []deepface.Face

	for i, frame := range frames {
		select {
		case <-w.shut:
			return
		default:
		}

		face, err := w.vision.Analyze(context.Background(), frame.Path, actions)
		if err != nil {
			// Frames without a face are skipped, same as any transient
			// classifier error.
			if !errors.Is(err, deepface.ErrNoFace) {
				w.logger.Errorw("worker: facialOperation", "sessionID", w.config.SessionID, "frame", frame.Index, "ERROR", err)
			}
			continue
		}

		detections = append(detections, report.Detection{
			Frame:     frame.Index,
			Timestamp: frame.Timestamp,
			Emotion:   face.DominantEmotion,
			Scores:    face.Emotion,
		})
		faces = append(faces, face)

		if (i+1)%progressEvery == 0 {
			w.publish("facial analysis", fmt.Sprintf("%d/%d", i+1, len(frames)))
		}
	}

	w.logger.Infow("worker: facialOperation: frames classified",
		"sessionID", w.config.SessionID,
		"frames", len(frames),
		"detections", len(detections),
	)

	select {
	case w.facialCh <- facialResult{detections: detections, faces: faces}:
	case <-w.shut:
	}
}

func (w *Worker) frameDir() string {
	return filepath.Join(w.config.WorkDir, "frames")
}
