// Package pipeline runs one video analysis session: probing, frame and audio
// extraction, facial classification, voice features and report assembly, each
// as its own goroutine wired by channels.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/AbdulmuhsinB/EmotiSense/business/report"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/external/deepface"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/media"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/pubsub"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/state"
	"go.uber.org/zap"
)

const mediaTimeout = 2 * time.Minute

type Worker struct {
	config    Config
	state     *state.State
	logger    *zap.SugaredLogger
	vision    *deepface.Client
	broker    *pubsub.Broker
	generator *report.Generator

	wg       sync.WaitGroup
	shutOnce sync.Once
	shut     chan struct{}
	error    chan error
	result   chan Result

	framesMetaCh chan media.Metadata
	audioMetaCh  chan media.Metadata
	reportMetaCh chan media.Metadata
	framesCh     chan []media.Frame
	facialCh     chan facialResult
	audioCh      chan audioResult
	voiceCh      chan voiceResult
}

// Run starts the session's operations and returns its result and error
// channels. Exactly one of them receives; cancelling ctx aborts the run.
func Run(ctx context.Context, s Settings) (<-chan Result, <-chan error) {
	w := &Worker{
		config:       s.Config,
		state:        state.NewState(),
		logger:       s.Logger,
		vision:       s.Vision,
		broker:       s.Broker,
		generator:    report.NewGenerator(s.Rules),
		shut:         make(chan struct{}),
		error:        make(chan error, 1),
		result:       make(chan Result, 1),
		framesMetaCh: make(chan media.Metadata, 1),
		audioMetaCh:  make(chan media.Metadata, 1),
		reportMetaCh: make(chan media.Metadata, 1),
		framesCh:     make(chan []media.Frame, 1),
		facialCh:     make(chan facialResult, 1),
		audioCh:      make(chan audioResult, 1),
		voiceCh:      make(chan voiceResult, 1),
	}

	operations := []func(){
		w.probeOperation,
		w.frameOperation,
		w.facialOperation,
		w.audioOperation,
		w.voiceOperation,
		w.reportOperation,
	}

	g := len(operations)
	w.wg.Add(g)

	hasStarted := make(chan bool)

	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	for i := 0; i < g; i++ {
		<-hasStarted
	}

	go func() {
		select {
		case <-ctx.Done():
			w.Shutdown(ctx.Err())
		case <-w.shut:
		}
	}()

	return w.result, w.error
}

// Shutdown terminates the session's goroutines. A non-nil err is delivered to
// the caller; the first error wins.
func (w *Worker) Shutdown(err error) {
	if err != nil {
		w.logger.Errorw("worker: shutdown", "sessionID", w.config.SessionID, "ERROR", err)
		select {
		case w.error <- err:
		default:
		}
	}

	w.shutOnce.Do(func() {
		w.logger.Infow("worker: shutdown: terminate goroutines", "sessionID", w.config.SessionID)
		close(w.shut)

		// Releasing the progress topic here covers failed runs too; a watcher
		// must never outlive its session.
		if w.broker != nil {
			w.broker.CloseTopic(Topic(w.config.SessionID))
		}
	})
}

// =====================================================================================================================

func (w *Worker) publish(stage string, detail string) {
	if w.broker == nil {
		return
	}
	w.broker.Publish(Topic(w.config.SessionID), Progress{
		SessionID: w.config.SessionID,
		Stage:     stage,
		Detail:    detail,
		At:        time.Now(),
	})
}

// sendMeta delivers v unless the session is shutting down.
func sendMeta(w *Worker, ch chan media.Metadata, v media.Metadata) bool {
	select {
	case ch <- v:
		return true
	case <-w.shut:
		return false
	}
}
