package media_test

import (
	"math"
	"strings"
	"testing"

	"github.com/AbdulmuhsinB/EmotiSense/foundation/media"
)

const probeJSON = `{
	"streams": [
		{
			"codec_type": "video",
			"width": 1280,
			"height": 720,
			"avg_frame_rate": "30000/1001",
			"r_frame_rate": "30000/1001",
			"nb_frames": "903"
		},
		{
			"codec_type": "audio",
			"avg_frame_rate": "0/0"
		}
	],
	"format": {
		"duration": "30.130000"
	}
}`

func TestParseProbe(t *testing.T) {
	t.Run("video with audio", func(t *testing.T) {
		t.Parallel()
		meta, err := media.ParseProbe([]byte(probeJSON))
		if err != nil {
			t.Fatal(err)
		}

		if !meta.HasAudio {
			t.Fatal("expected audio stream")
		}
		if meta.Width != 1280 || meta.Height != 720 {
			t.Fatalf("got %dx%d", meta.Width, meta.Height)
		}
		if meta.TotalFrames != 903 {
			t.Fatalf("got %d total frames", meta.TotalFrames)
		}
		if math.Abs(meta.FPS-29.97) > 0.01 {
			t.Fatalf("got fps %f", meta.FPS)
		}
		if math.Abs(meta.Duration-30.13) > 0.001 {
			t.Fatalf("got duration %f", meta.Duration)
		}
	})

	t.Run("silent video", func(t *testing.T) {
		t.Parallel()
		silent := `{
			"streams": [{"codec_type": "video", "avg_frame_rate": "25/1", "nb_frames": ""}],
			"format": {"duration": "10.0"}
		}`
		meta, err := media.ParseProbe([]byte(silent))
		if err != nil {
			t.Fatal(err)
		}

		if meta.HasAudio {
			t.Fatal("expected no audio stream")
		}
		if meta.FPS != 25 {
			t.Fatalf("got fps %f", meta.FPS)
		}
		// nb_frames missing, derived from duration and fps.
		if meta.TotalFrames != 250 {
			t.Fatalf("got %d total frames", meta.TotalFrames)
		}
	})

	t.Run("no video stream", func(t *testing.T) {
		t.Parallel()
		audioOnly := `{"streams": [{"codec_type": "audio"}], "format": {"duration": "5.0"}}`
		if _, err := media.ParseProbe([]byte(audioOnly)); err == nil {
			t.Fatal("expected error for missing video stream")
		}
	})
}

func TestParseRate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		rate string
		want float64
	}{
		{"25/1", 25},
		{"30000/1001", 29.97003},
		{"0/0", 0},
		{"garbage", 0},
		{"", 0},
	}

	for _, c := range cases {
		got := media.ParseRate(c.rate)
		if math.Abs(got-c.want) > 0.0001 {
			t.Fatalf("ParseRate(%q) = %f, want %f", c.rate, got, c.want)
		}
	}
}

func TestBuildFrames(t *testing.T) {
	t.Parallel()

	paths := []string{"frame_00001.jpg", "frame_00002.jpg", "frame_00003.jpg"}
	frames := media.BuildFrames(paths, 5, 25)

	if len(frames) != 3 {
		t.Fatalf("got %d frames", len(frames))
	}
	if frames[2].Index != 10 {
		t.Fatalf("got index %d, want 10", frames[2].Index)
	}
	if math.Abs(frames[2].Timestamp-0.4) > 1e-9 {
		t.Fatalf("got timestamp %f, want 0.4", frames[2].Timestamp)
	}
}

func TestCommandArgs(t *testing.T) {
	t.Parallel()

	frame := strings.Join(media.FrameArgs("in.mp4", 5, "out/frame_%05d.jpg"), " ")
	if !strings.Contains(frame, `select=not(mod(n\,5))`) {
		t.Fatalf("frame args missing select filter: %s", frame)
	}

	audio := strings.Join(media.AudioArgs("in.mp4", "out.wav"), " ")
	for _, want := range []string{"pcm_s16le", "-ar 22050", "-ac 1", "-vn"} {
		if !strings.Contains(audio, want) {
			t.Fatalf("audio args missing %q: %s", want, audio)
		}
	}
}
