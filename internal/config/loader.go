package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	k8syaml "sigs.k8s.io/yaml"

	"edgedeploy/internal/api"
	"edgedeploy/pkg/logging"
)

// LoadSettings loads the settings file at path. A missing file yields the
// defaults; fields left out of the file keep their default.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("ConfigLoader", "No settings found at %s, using defaults", path)
			return GetDefaultSettings(), nil
		}
		return Settings{}, api.NewConfigurationError(path, "cannot read settings: %v", err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		// settings malformed
		return Settings{}, api.NewConfigurationError(path, "error loading settings: %v", err)
	}
	settings = settings.withDefaults()
	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("settings %s: %w", path, err)
	}

	logging.Debug("ConfigLoader", "Loaded settings from %s", path)
	return settings, nil
}

// LoadAppConfig loads and validates the app definition at path.
func LoadAppConfig(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return AppConfig{}, api.NewConfigurationError(path, "app definition not found")
		}
		return AppConfig{}, api.NewConfigurationError(path, "cannot read app definition: %v", err)
	}

	var cfg AppConfig
	if err := k8syaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, api.NewConfigurationError(path, "failed to load app definition: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, fmt.Errorf("app definition %s: %w", path, err)
	}
	return cfg, nil
}

// LoadAppInstsConfig loads the app instances document at path. A missing
// document means the app has no instances.
func LoadAppInstsConfig(path string) ([]AppInstConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No app instances definition at %s", path)
			return nil, nil
		}
		return nil, api.NewConfigurationError(path, "cannot read app instances definition: %v", err)
	}

	var entries []AppInstConfig
	if err := k8syaml.Unmarshal(data, &entries); err != nil {
		return nil, api.NewConfigurationError(path, "failed to load app instances definition: %v", err)
	}
	for i, entry := range entries {
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("app instances definition %s: entry %d: %w", path, i, err)
		}
	}
	return entries, nil
}
