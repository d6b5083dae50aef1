package main

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Config holds the settings a merge run draws on, layered as:
// built-in defaults < YAML config file < command-line flags. Each layer is
// mergo.Merge'd onto the previous one, with later layers winning on any
// field they set explicitly.
type Config struct {
	AuditDB   string `yaml:"audit_db"`
	RulesFile string `yaml:"rules_file"`
}

func defaultConfig() Config {
	return Config{
		AuditDB: ".pcsmerge/audit.sqlite",
	}
}

// loadConfig reads path, if it exists, and merges it onto the built-in
// defaults. A missing config file is not an error — callers simply get
// the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var fromFile Config
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	if err := mergo.Merge(&cfg, fromFile, mergo.WithOverride); err != nil {
		return Config{}, fmt.Errorf("merging config file onto defaults: %w", err)
	}
	return cfg, nil
}

// applyFlagOverrides merges any explicitly-set CLI flag values onto cfg,
// again via mergo so a flag left at its zero value never clobbers a value
// the config file already supplied.
func applyFlagOverrides(cfg Config, overrides Config) (Config, error) {
	if err := mergo.Merge(&cfg, overrides, mergo.WithOverride); err != nil {
		return Config{}, fmt.Errorf("merging flag overrides onto config: %w", err)
	}
	return cfg, nil
}
