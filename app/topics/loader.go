package topics

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Loader struct {
	configFile string
}

func NewLoader(configFile string) *Loader {
	return &Loader{configFile: configFile}
}

// Load reads and validates the topics configuration. Called once per fetch
// cycle so edits take effect without a restart.
func (l *Loader) Load() (*Config, error) {
	data, err := os.ReadFile(l.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read topics file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := l.validate(&config); err != nil {
		return nil, fmt.Errorf("invalid topics config %s: %w", l.configFile, err)
	}

	return &config, nil
}

func (l *Loader) validate(config *Config) error {
	if len(config.Regions) == 0 {
		return fmt.Errorf("at least one region is required")
	}

	for key, region := range config.Regions {
		if region.Name == "" {
			return fmt.Errorf("region '%s' is missing a name", key)
		}
		if len(region.Topics) == 0 {
			return fmt.Errorf("region '%s' has no topics", key)
		}
		for i, topic := range region.Topics {
			if topic == "" {
				return fmt.Errorf("region '%s' has an empty topic at index %d", key, i)
			}
		}
		for i, subregion := range region.Subregions {
			if subregion == "" {
				return fmt.Errorf("region '%s' has an empty subregion at index %d", key, i)
			}
		}
	}

	return nil
}
