// Package media shells out to ffprobe and ffmpeg for container inspection,
// frame extraction and audio extraction.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// SampleRate is the rate audio tracks are resampled to for voice analysis.
const SampleRate = 22050

var ErrNoAudio = errors.New("video has no audio track")

func Probe(ctx context.Context, videoPath string) (Metadata, error) {
	out, err := run(ctx, "ffprobe", probeArgs(videoPath))
	if err != nil {
		return Metadata{}, fmt.Errorf("probing video: %w", err)
	}
	return parseProbe(out)
}

// ExtractFrames writes every strideth frame of the video as a JPEG into
// outDir and returns the frames in source order.
func ExtractFrames(ctx context.Context, videoPath string, outDir string, stride int, fps float64) ([]Frame, error) {
	if stride < 1 {
		stride = 1
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating frame directory: %w", err)
	}

	pattern := filepath.Join(outDir, "frame_%05d.jpg")
	if _, err := run(ctx, "ffmpeg", frameArgs(videoPath, stride, pattern)); err != nil {
		return nil, fmt.Errorf("extracting frames: %w", err)
	}

	paths, err := filepath.Glob(filepath.Join(outDir, "frame_*.jpg"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	return buildFrames(paths, stride, fps), nil
}

// ExtractAudio transcodes the audio track to 16-bit PCM mono WAV at
// SampleRate.
func ExtractAudio(ctx context.Context, videoPath string, wavPath string) error {
	if _, err := run(ctx, "ffmpeg", audioArgs(videoPath, wavPath)); err != nil {
		return fmt.Errorf("extracting audio: %w", err)
	}
	return nil
}

// =====================================================================================================================

func probeArgs(videoPath string) []string {
	return []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		videoPath,
	}
}

func frameArgs(videoPath string, stride int, outPattern string) []string {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-vf", fmt.Sprintf("select=not(mod(n\\,%d))", stride),
		"-vsync", "vfr",
		"-q:v", "2",
		outPattern,
	}
}

func audioArgs(videoPath string, wavPath string) []string {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(SampleRate),
		"-ac", "1",
		"-y",
		wavPath,
	}
}

func parseProbe(data []byte) (Metadata, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Metadata{}, fmt.Errorf("decoding ffprobe output: %w", err)
	}

	var meta Metadata
	var hasVideo bool

	for _, stream := range out.Streams {
		switch stream.CodecType {
		case "video":
			if hasVideo {
				continue
			}
			hasVideo = true
			meta.Width = stream.Width
			meta.Height = stream.Height
			meta.FPS = parseRate(stream.AvgFrameRate)
			if meta.FPS == 0 {
				meta.FPS = parseRate(stream.RFrameRate)
			}
			if frames, err := strconv.Atoi(stream.NbFrames); err == nil {
				meta.TotalFrames = frames
			}

		case "audio":
			meta.HasAudio = true
		}
	}

	if !hasVideo {
		return Metadata{}, errors.New("no video stream found")
	}

	if duration, err := decimal.NewFromString(out.Format.Duration); err == nil {
		meta.Duration = duration.InexactFloat64()
	}

	if meta.TotalFrames == 0 && meta.FPS > 0 {
		meta.TotalFrames = int(meta.Duration * meta.FPS)
	}

	return meta, nil
}

// parseRate converts an ffprobe frame-rate fraction such as "30000/1001".
func parseRate(rate string) float64 {
	num, den, found := strings.Cut(rate, "/")
	if !found {
		return 0
	}

	n, err := decimal.NewFromString(num)
	if err != nil {
		return 0
	}
	d, err := decimal.NewFromString(den)
	if err != nil || d.IsZero() {
		return 0
	}

	return n.DivRound(d, 6).InexactFloat64()
}

func buildFrames(paths []string, stride int, fps float64) []Frame {
	frames := make([]Frame, len(paths))
	for i, path := range paths {
		index := i * stride
		var timestamp float64
		if fps > 0 {
			timestamp = float64(index) / fps
		}
		frames[i] = Frame{
			Path:      path,
			Index:     index,
			Timestamp: timestamp,
		}
	}
	return frames
}

func run(ctx context.Context, name string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := lastLine(stderr.String())
		if detail == "" {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return nil, fmt.Errorf("%s: %w: %s", name, err, detail)
	}

	return stdout.Bytes(), nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
