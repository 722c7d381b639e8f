package pipeline

import (
	"context"

	"github.com/AbdulmuhsinB/EmotiSense/foundation/media"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/state"
)

func (w *Worker) probeOperation() {
	w.logger.Infow("worker: probeOperation: G started", "sessionID", w.config.SessionID)
	defer w.logger.Infow("worker: probeOperation: G completed", "sessionID", w.config.SessionID)

	w.publish("probing", "")

	ctx, cancel := context.WithTimeout(context.Background(), mediaTimeout)
	defer cancel()

	meta, err := media.Probe(ctx, w.config.VideoPath)
	if err != nil {
		w.Shutdown(err)
		return
	}

	w.logger.Infow("worker: probeOperation: video probed",
		"sessionID", w.config.SessionID,
		"duration", meta.Duration,
		"fps", meta.FPS,
		"totalFrames", meta.TotalFrames,
		"hasAudio", meta.HasAudio,
	)

	if !meta.HasAudio {
		w.state.Set(state.Voice, false)
	}

	for _, ch := range []chan media.Metadata{w.framesMetaCh, w.audioMetaCh, w.reportMetaCh} {
		if !sendMeta(w, ch, meta) {
			return
		}
	}
}

func (w *Worker) frameOperation() {
	w.logger.Infow("worker: frameOperation: G started", "sessionID", w.config.SessionID)
	defer w.logger.Infow("worker: frameOperation: G completed", "sessionID", w.config.SessionID)

	var meta media.Metadata
	select {
	case meta = <-w.framesMetaCh:
	case <-w.shut:
		return
	}

	w.publish("frame extraction", "")

	ctx, cancel := context.WithTimeout(context.Background(), mediaTimeout)
	defer cancel()

	frames, err := media.ExtractFrames(ctx, w.config.VideoPath, w.frameDir(), w.config.FrameStride, meta.FPS)
	if err != nil {
		w.logger.Errorw("worker: frameOperation", "sessionID", w.config.SessionID, "ERROR", err)
		w.state.Set(state.Facial, false)
		select {
		case w.facialCh <- facialResult{err: err}:
		case <-w.shut:
		}
		return
	}

	w.logger.Infow("worker: frameOperation: frames extracted", "sessionID", w.config.SessionID, "frames", len(frames))

	select {
	case w.framesCh <- frames:
	case <-w.shut:
	}
}
