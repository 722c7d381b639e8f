package pipeline

import (
	"context"
	"path/filepath"

	"github.com/AbdulmuhsinB/EmotiSense/foundation/dsp"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/media"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/state"
)

func (w *Worker) audioOperation() {
	w.logger.Infow("worker: audioOperation: G started", "sessionID", w.config.SessionID)
	defer w.logger.Infow("worker: audioOperation: G completed", "sessionID", w.config.SessionID)

	select {
	case <-w.audioMetaCh:
	case <-w.shut:
		return
	}

	// The probe turns the voice branch off when the container has no audio
	// track; nothing to extract then.
	if !w.state.Get(state.Voice) {
		w.logger.Infow("worker: audioOperation: voice branch disabled", "sessionID", w.config.SessionID)
		select {
		case w.audioCh <- audioResult{err: media.ErrNoAudio}:
		case <-w.shut:
		}
		return
	}

	w.publish("audio extraction", "")

	ctx, cancel := context.WithTimeout(context.Background(), mediaTimeout)
	defer cancel()

	wavPath := filepath.Join(w.config.WorkDir, "audio.wav")
	if err := media.ExtractAudio(ctx, w.config.VideoPath, wavPath); err != nil {
		w.logger.Errorw("worker: audioOperation", "sessionID", w.config.SessionID, "ERROR", err)
		w.state.Set(state.Voice, false)
		select {
		case w.audioCh <- audioResult{err: err}:
		case <-w.shut:
		}
		return
	}

	select {
	case w.audioCh <- audioResult{wavPath: wavPath}:
	case <-w.shut:
	}
}

func (w *Worker) voiceOperation() {
	w.logger.Infow("worker: voiceOperation: G started", "sessionID", w.config.SessionID)
	defer w.logger.Infow("worker: voiceOperation: G completed", "sessionID", w.config.SessionID)

	var audio audioResult
	select {
	case audio = <-w.audioCh:
	case <-w.shut:
		return
	}

	if audio.err != nil {
		select {
		case w.voiceCh <- voiceResult{err: audio.err}:
		case <-w.shut:
		}
		return
	}

	w.publish("voice analysis", "")

	samples, sampleRate, err := dsp.ReadWAV(audio.wavPath)
	if err != nil {
		w.logger.Errorw("worker: voiceOperation", "sessionID", w.config.SessionID, "ERROR", err)
		select {
		case w.voiceCh <- voiceResult{err: err}:
		case <-w.shut:
		}
		return
	}

	features := dsp.Extract(samples, sampleRate)

	w.logger.Infow("worker: voiceOperation: features extracted",
		"sessionID", w.config.SessionID,
		"duration", features.Duration,
		"voicedFrames", features.VoicedFrames,
	)

	select {
	case w.voiceCh <- voiceResult{features: features}:
	case <-w.shut:
	}
}
