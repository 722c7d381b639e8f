package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// Load reads the feedback rule table from rulesPath. An empty path loads the
// built-in defaults.
func Load(rulesPath string) (Rules, error) {
	data := defaultRules

	if rulesPath != "" {
		bytes, err := os.ReadFile(rulesPath)
		if err != nil {
			return Rules{}, err
		}
		data = bytes
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, err
	}

	if len(rules.Emotions) == 0 {
		return Rules{}, fmt.Errorf("rules file[%s] defines no emotion insights", rulesPath)
	}

	return rules, nil
}
