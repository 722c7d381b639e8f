package media

// Metadata describes an uploaded video container.
type Metadata struct {
	Duration    float64
	FPS         float64
	TotalFrames int
	Width       int
	Height      int
	HasAudio    bool
}

// Frame is one extracted frame image with its position in the source video.
type Frame struct {
	Path      string
	Index     int
	Timestamp float64
}

type probeOutput struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

type probeStream struct {
	CodecType    string `json:"codec_type"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
	NbFrames     string `json:"nb_frames"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}
