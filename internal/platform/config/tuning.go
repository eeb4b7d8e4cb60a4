package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"vaultsim/internal/domain/simulation"
)

// LoadTuning returns the default simulation tuning, overlaid with the YAML
// file at path when one is given. Keys missing from the file keep their
// defaults.
func LoadTuning(path string) (simulation.Config, error) {
	cfg := simulation.DefaultConfig()
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return simulation.Config{}, fmt.Errorf("read tuning file: %w", err)
	}
	if err := ParseTuning(raw, &cfg); err != nil {
		return simulation.Config{}, err
	}
	return cfg, nil
}

// ParseTuning decodes YAML overrides into cfg and validates the result.
func ParseTuning(raw []byte, cfg *simulation.Config) error {
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse tuning yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate tuning: %w", err)
	}
	return nil
}
