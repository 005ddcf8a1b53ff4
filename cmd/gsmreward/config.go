package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/halcyon-rl/gsmreward/pkg/types"
)

// scoreConfig mirrors the optional YAML config file. Flags take
// precedence over file values.
type scoreConfig struct {
	Mode          string  `yaml:"mode"`
	FormatReward  float64 `yaml:"format_reward"`
	CorrectReward float64 `yaml:"correct_reward"`
	Parallel      int     `yaml:"parallel"`
}

func defaultScoreConfig() scoreConfig {
	return scoreConfig{
		Mode:          string(types.ModeStrict),
		FormatReward:  types.RewardFormatCorrect,
		CorrectReward: types.RewardCorrect,
		Parallel:      1,
	}
}

func loadScoreConfig(path string) (scoreConfig, error) {
	cfg := defaultScoreConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}
