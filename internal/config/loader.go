package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/casegen"
	projectConfigDir = ".casegen"
	configFileName   = "config.yaml"

	// EnvDBPath overrides the storage path of every file layer.
	EnvDBPath = "CASEGEN_DB"
)

// Load builds the effective configuration by layering the defaults, the user
// file, the project file and finally explicitPath when it is not empty.
// Missing user and project files are skipped; a missing explicit file is an
// error.
func Load(explicitPath string) (Config, error) {
	config := DefaultConfig()

	for _, locate := range []func() (string, error){getUserConfigPath, getProjectConfigPath} {
		path, err := locate()
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		overlay, err := loadConfigFromFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("error loading config from %s: %w", path, err)
		}
		config = mergeConfigs(config, overlay)
	}

	if explicitPath != "" {
		overlay, err := loadConfigFromFile(explicitPath)
		if err != nil {
			return Config{}, fmt.Errorf("error loading config from %s: %w", explicitPath, err)
		}
		config = mergeConfigs(config, overlay)
	}

	if db := os.Getenv(EnvDBPath); db != "" {
		config.Storage.Path = db
	}

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a Config from a YAML file.
func loadConfigFromFile(filePath string) (Config, error) {
	var config Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// mergeConfigs merges non-zero fields of overlay into base.
func mergeConfigs(base, overlay Config) Config {
	merged := base

	if overlay.Generation.MaxCases != 0 {
		merged.Generation.MaxCases = overlay.Generation.MaxCases
	}
	if overlay.Generation.Seed != 0 {
		merged.Generation.Seed = overlay.Generation.Seed
	}
	setString(&merged.Generation.ValidMarker, overlay.Generation.ValidMarker)

	setString(&merged.Export.Format, overlay.Export.Format)
	setString(&merged.Export.Output, overlay.Export.Output)
	setString(&merged.Export.Marker, overlay.Export.Marker)
	setString(&merged.Export.CoverageSheet, overlay.Export.CoverageSheet)
	setString(&merged.Export.CasesSheet, overlay.Export.CasesSheet)
	setString(&merged.Export.AnnotationsSheet, overlay.Export.AnnotationsSheet)

	if overlay.Annotate.Enabled {
		merged.Annotate.Enabled = true
	}
	if overlay.Annotate.Concurrency != 0 {
		merged.Annotate.Concurrency = overlay.Annotate.Concurrency
	}
	if overlay.Annotate.Retries != 0 {
		merged.Annotate.Retries = overlay.Annotate.Retries
	}

	setString(&merged.Storage.Path, overlay.Storage.Path)
	setString(&merged.Log.Level, overlay.Log.Level)
	setString(&merged.Log.Format, overlay.Log.Format)

	return merged
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// Marshal renders a configuration as YAML.
func Marshal(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}
