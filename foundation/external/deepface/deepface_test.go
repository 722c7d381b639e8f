package deepface_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AbdulmuhsinB/EmotiSense/foundation/external/deepface"
)

func frameFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frame.jpg")
	if err := os.WriteFile(path, []byte("jpegdata"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyze(t *testing.T) {
	t.Run("single face", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/analyze" {
				t.Errorf("got path %s", r.URL.Path)
			}

			var req map[string]any
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Error(err)
			}
			if enforce, ok := req["enforce_detection"].(bool); !ok || enforce {
				t.Error("enforce_detection should be false")
			}
			if img, _ := req["img"].(string); !strings.HasPrefix(img, "data:image/jpeg;base64,") {
				t.Error("img not base64 encoded with data uri prefix")
			}

			w.Write([]byte(`{"results": [{
				"dominant_emotion": "happy",
				"emotion": {"happy": 93.2, "neutral": 5.1, "sad": 1.7},
				"age": 31.4,
				"dominant_gender": "Man",
				"gender": {"Man": 98.0, "Woman": 2.0},
				"region": {"x": 10, "y": 10, "w": 120, "h": 120}
			}]}`))
		}))
		defer srv.Close()

		c := deepface.New(srv.URL)
		face, err := c.Analyze(context.Background(), frameFixture(t), []string{deepface.ActionEmotion})
		if err != nil {
			t.Fatal(err)
		}

		if face.DominantEmotion != "happy" {
			t.Fatalf("got dominant emotion %q", face.DominantEmotion)
		}
		if face.Emotion["happy"] != 93.2 {
			t.Fatalf("got happy score %f", face.Emotion["happy"])
		}
		if face.Age != 31.4 {
			t.Fatalf("got age %f", face.Age)
		}
	})

	t.Run("no face detected", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results": []}`))
		}))
		defer srv.Close()

		c := deepface.New(srv.URL)
		_, err := c.Analyze(context.Background(), frameFixture(t), []string{deepface.ActionEmotion})
		if !errors.Is(err, deepface.ErrNoFace) {
			t.Fatalf("got %v, want ErrNoFace", err)
		}
	})

	t.Run("sidecar failure", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not loaded", http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := deepface.New(srv.URL)
		_, err := c.Analyze(context.Background(), frameFixture(t), []string{deepface.ActionEmotion})
		if err == nil || !strings.Contains(err.Error(), "model not loaded") {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("missing frame file", func(t *testing.T) {
		t.Parallel()

		c := deepface.New("http://127.0.0.1:0")
		if _, err := c.Analyze(context.Background(), "/does/not/exist.jpg", nil); err == nil {
			t.Fatal("expected error for missing frame")
		}
	})
}
