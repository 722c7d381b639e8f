package config

// Insight is the coaching text attached to a single facial emotion.
type Insight struct {
	Insight string `yaml:"insight"`
	Tip     string `yaml:"tip"`
}

// Rules holds the feedback rule table. The zero value is unusable; obtain one
// through Load.
type Rules struct {
	Emotions map[string]Insight `yaml:"emotions"`
}

func (r Rules) Lookup(emotion string) (Insight, bool) {
	insight, exists := r.Emotions[emotion]
	return insight, exists
}
