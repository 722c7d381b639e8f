// Package deepface is an HTTP client for a DeepFace-compatible inference
// sidecar.
package deepface

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	apiTimeout = 30

	ActionEmotion = "emotion"
	ActionAge     = "age"
	ActionGender  = "gender"
	ActionRace    = "race"
)

var ErrNoFace = errors.New("no face detected")

type Client struct {
	apiEndpoint string
	client      *http.Client
}

func New(apiEndpoint string) *Client {
	return &Client{
		apiEndpoint: strings.TrimRight(apiEndpoint, "/"),
		client: &http.Client{
			Timeout: apiTimeout * time.Second,
		},
	}
}

// Analyze submits one frame image and returns the first detected face.
func (c *Client) Analyze(ctx context.Context, imagePath string, actions []string) (Face, error) {
	img, err := os.ReadFile(imagePath)
	if err != nil {
		return Face{}, fmt.Errorf("reading frame image: %w", err)
	}

	payload, err := json.Marshal(analyzeRequest{
		Img:              "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img),
		Actions:          actions,
		EnforceDetection: false,
		DetectorBackend:  "opencv",
	})
	if err != nil {
		return Face{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiEndpoint+"/analyze", bytes.NewReader(payload))
	if err != nil {
		return Face{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Face{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Face{}, err
	}

	if resp.StatusCode == http.StatusInternalServerError {
		return Face{}, fmt.Errorf("internal server error 500: %s", string(body))
	}

	if resp.StatusCode != http.StatusOK {
		return Face{}, errors.New(string(body))
	}

	var r analyzeResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return Face{}, fmt.Errorf("decoding analyze response: %w", err)
	}

	if r.Error.Message != "" {
		return Face{}, errors.New(r.Error.Message)
	}

	if len(r.Results) == 0 {
		return Face{}, ErrNoFace
	}

	face := r.Results[0]
	if face.DominantEmotion == "" && len(face.Emotion) == 0 {
		return Face{}, ErrNoFace
	}

	return face, nil
}
