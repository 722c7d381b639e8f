package deepface

type analyzeRequest struct {
	Img              string   `json:"img"`
	Actions          []string `json:"actions"`
	EnforceDetection bool     `json:"enforce_detection"`
	DetectorBackend  string   `json:"detector_backend"`
}

type analyzeResponse struct {
	Results []Face      `json:"results"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string `json:"message"`
}

// Face is one detected face with the scores of the requested actions.
type Face struct {
	DominantEmotion string             `json:"dominant_emotion"`
	Emotion         map[string]float64 `json:"emotion"`
	Age             float64            `json:"age"`
	DominantGender  string             `json:"dominant_gender"`
	Gender          map[string]float64 `json:"gender"`
	DominantRace    string             `json:"dominant_race"`
	Race            map[string]float64 `json:"race"`
	Region          Region             `json:"region"`
}

type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}
