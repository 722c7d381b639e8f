package media

// Bridges for the external test package.
var (
	ParseProbe  = parseProbe
	ParseRate   = parseRate
	BuildFrames = buildFrames
	FrameArgs   = frameArgs
	AudioArgs   = audioArgs
)
