package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/AbdulmuhsinB/EmotiSense/business/pipeline"
	"github.com/AbdulmuhsinB/EmotiSense/business/report"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/config"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/external/deepface"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/pubsub"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/redis"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/store"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"lukechampine.com/blake3"
)

type handlersConfig struct {
	Logger        *zap.SugaredLogger
	Vision        *deepface.Client
	Broker        *pubsub.Broker
	Sessions      *store.Store
	Events        *redis.Publisher
	Rules         config.Rules
	WorkDirectory string
	FrameStride   int
	MaxUploadSize int64
	AllowedTypes  string
}

type handlers struct {
	log           *zap.SugaredLogger
	vision        *deepface.Client
	broker        *pubsub.Broker
	sessions      *store.Store
	events        *redis.Publisher
	rules         config.Rules
	workDir       string
	frameStride   int
	maxUploadSize int64
	allowedExts   map[string]bool
	upgrader      websocket.Upgrader
}

func newHandlers(cfg handlersConfig) *handlers {
	exts := make(map[string]bool)
	for _, e := range strings.Split(cfg.AllowedTypes, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = true
	}

	return &handlers{
		log:           cfg.Logger,
		vision:        cfg.Vision,
		broker:        cfg.Broker,
		sessions:      cfg.Sessions,
		events:        cfg.Events,
		rules:         cfg.Rules,
		workDir:       cfg.WorkDirectory,
		frameStride:   cfg.FrameStride,
		maxUploadSize: cfg.MaxUploadSize,
		allowedExts:   exts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *handlers) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/analyze", h.analyze).Methods(http.MethodPost)
	r.HandleFunc("/api/analyze-video", h.analyzeVideo).Methods(http.MethodPost)
	r.HandleFunc("/ws/progress/{id}", h.progress).Methods(http.MethodGet)
	return r
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "EmotiSense",
	})
}

// analyze accepts a video upload, runs the full pipeline and returns the
// combined report.
func (h *handlers) analyze(w http.ResponseWriter, r *http.Request) {
	up, err := h.saveUpload(w, r)
	if err != nil {
		return
	}
	defer os.RemoveAll(up.workDir)

	result, err := h.run(r, up, false)
	if err != nil {
		h.sessions.Delete(up.sessionID)
		h.log.Errorw("analyze", "session", up.sessionID, "ERROR", err)
		respond(w, http.StatusInternalServerError, map[string]any{
			"error":   fmt.Sprintf("Analysis failed: %v", err),
			"success": false,
		})
		return
	}

	h.sessions.Complete(up.sessionID, result.Report)
	h.publishEvent(up.sessionID, result.Report)

	w.Header().Set("X-Session-ID", up.sessionID)
	respond(w, http.StatusOK, result.Report)
}

// analyzeVideo runs the pipeline with demographic actions enabled and returns
// per-video insights instead of the coaching report.
func (h *handlers) analyzeVideo(w http.ResponseWriter, r *http.Request) {
	up, err := h.saveUpload(w, r)
	if err != nil {
		return
	}
	defer os.RemoveAll(up.workDir)

	result, err := h.run(r, up, true)
	if err != nil {
		h.sessions.Delete(up.sessionID)
		h.log.Errorw("analyze-video", "session", up.sessionID, "ERROR", err)
		respond(w, http.StatusInternalServerError, map[string]string{
			"status": "error",
			"error":  fmt.Sprintf("Analysis failed: %v", err),
		})
		return
	}

	h.sessions.Complete(up.sessionID, result)

	if result.Insights == nil {
		respond(w, http.StatusOK, map[string]string{
			"status": "error",
			"error":  report.NoFacesError,
		})
		return
	}

	w.Header().Set("X-Session-ID", up.sessionID)
	respond(w, http.StatusOK, map[string]any{
		"status":   "success",
		"analysis": result.Insights,
	})
}

// progress streams pipeline stage events for a session over a websocket until
// the run completes.
func (h *handlers) progress(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	session, ok := h.sessions.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Unknown session")
		return
	}
	if session.Done {
		respondError(w, http.StatusGone, "Analysis already complete")
		return
	}

	sub := pubsub.NewSubscriber(16)
	h.broker.Subscribe(pipeline.Topic(id), sub)
	defer h.broker.Unsubscribe(pipeline.Topic(id), sub)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorw("progress", "session", id, "ERROR", err)
		return
	}
	defer conn.Close()

	for event := range sub.GetChannel() {
		if err := conn.WriteJSON(event); err != nil {
			return
		}
	}
}

type upload struct {
	sessionID string
	videoPath string
	workDir   string
}

// saveUpload validates the multipart request, stores the video under a
// per-session work directory and registers the session. It writes the error
// response itself so callers only need to check err.
func (h *handlers) saveUpload(w http.ResponseWriter, r *http.Request) (upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File too large. Maximum size is %dMB", h.maxUploadSize>>20))
			return upload{}, err
		}
		respondError(w, http.StatusBadRequest, "No video file provided")
		return upload{}, err
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No video file provided")
		return upload{}, err
	}
	defer file.Close()

	if header.Filename == "" {
		respondError(w, http.StatusBadRequest, "No file selected")
		return upload{}, errors.New("empty filename")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !h.allowedExts[ext] {
		respondError(w, http.StatusBadRequest, "Only MP4 files are allowed")
		return upload{}, fmt.Errorf("rejected extension %q", ext)
	}

	sessionID := r.FormValue("session_id")
	if sessionID != "" {
		if _, err := uuid.Parse(sessionID); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid session_id")
			return upload{}, err
		}
	} else {
		sessionID = uuid.NewString()
	}

	workDir := filepath.Join(h.workDir, sessionID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		respondError(w, http.StatusInternalServerError, "Could not store upload")
		return upload{}, err
	}

	videoPath := filepath.Join(workDir, "upload"+ext)
	hash, err := writeUpload(videoPath, file)
	if err != nil {
		os.RemoveAll(workDir)
		respondError(w, http.StatusInternalServerError, "Could not store upload")
		return upload{}, err
	}

	if _, err := h.sessions.Create(sessionID, hash); err != nil {
		os.RemoveAll(workDir)
		if errors.Is(err, store.ErrInFlight) {
			respondError(w, http.StatusConflict, "This video is already being analyzed")
			return upload{}, err
		}
		respondError(w, http.StatusConflict, "Session already exists")
		return upload{}, err
	}

	h.log.Infow("upload", "session", sessionID, "file", header.Filename, "hash", hash)

	return upload{
		sessionID: sessionID,
		videoPath: videoPath,
		workDir:   workDir,
	}, nil
}

// writeUpload copies the uploaded file to disk while hashing its content.
func writeUpload(path string, src multipart.File) (string, error) {
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	hasher := blake3.New(32, nil)
	if _, err := io.Copy(io.MultiWriter(dst, hasher), src); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// run executes the analysis pipeline for an upload and blocks until it
// finishes or the request is cancelled. Stage events are mirrored into the
// session store for the progress endpoint.
func (h *handlers) run(r *http.Request, up upload, demographics bool) (pipeline.Result, error) {
	stages := pubsub.NewSubscriber(16)
	h.broker.Subscribe(pipeline.Topic(up.sessionID), stages)

	go func() {
		defer h.broker.Unsubscribe(pipeline.Topic(up.sessionID), stages)
		for event := range stages.GetChannel() {
			if p, ok := event.(pipeline.Progress); ok {
				h.sessions.SetStage(up.sessionID, p.Stage)
			}
		}
	}()

	resultCh, errCh := pipeline.Run(r.Context(), pipeline.Settings{
		Config: pipeline.Config{
			SessionID:    up.sessionID,
			VideoPath:    up.videoPath,
			WorkDir:      up.workDir,
			FrameStride:  h.frameStride,
			Demographics: demographics,
		},
		Logger: h.log,
		Vision: h.vision,
		Broker: h.broker,
		Rules:  h.rules,
	})

	select {
	case result := <-resultCh:
		return result, nil
	case err := <-errCh:
		return pipeline.Result{}, err
	case <-r.Context().Done():
		return pipeline.Result{}, r.Context().Err()
	}
}

// publishEvent forwards a completed analysis summary to the optional redis
// channel without blocking the response.
func (h *handlers) publishEvent(sessionID string, rep report.Report) {
	if h.events == nil {
		return
	}

	event := struct {
		SessionID       string  `json:"session_id"`
		DominantEmotion string  `json:"dominant_emotion,omitempty"`
		OverallTone     string  `json:"overall_tone,omitempty"`
		Duration        float64 `json:"duration,omitempty"`
	}{
		SessionID: sessionID,
	}
	if rep.FacialAnalysis != nil {
		event.DominantEmotion = rep.FacialAnalysis.DominantEmotion
		event.Duration = rep.FacialAnalysis.Duration
	}
	if rep.VoiceAnalysis != nil {
		event.OverallTone = rep.VoiceAnalysis.OverallTone
	}

	go func() {
		if err := h.events.Publish(event); err != nil {
			h.log.Errorw("events", "session", sessionID, "ERROR", err)
		}
	}()
}

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]string{"error": message})
}
