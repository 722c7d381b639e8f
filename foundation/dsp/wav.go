package dsp

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// ReadWAV decodes a PCM WAV file into normalized [-1, 1] mono samples.
// Multi-channel audio is downmixed by averaging.
func ReadWAV(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening wav file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, errors.New("not a valid wav file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decoding wav file: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, errors.New("wav file has no channel format")
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(decoder.BitDepth)
	}
	scale := float64(int64(1) << uint(bitDepth-1))

	channels := buf.Format.NumChannels
	samples := make([]float64, 0, len(buf.Data)/channels)

	for i := 0; i+channels <= len(buf.Data); i += channels {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i+c])
		}
		samples = append(samples, sum/float64(channels)/scale)
	}

	return samples, buf.Format.SampleRate, nil
}
