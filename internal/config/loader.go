package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadRunner loads the runner configuration.
// Search order: customPath -> ~/.runner/configs/runner.yaml -> ./configs/runner.yaml -> embedded default.
// Files are decoded over the built-in defaults, so partial files only override
// the fields they set. Callers should run Normalize on the result.
func LoadRunner(customPath string) (RunnerConfig, error) {
	// Try custom path first
	if customPath != "" {
		cfg := DefaultRunnerConfig()
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return DefaultRunnerConfig(), fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then local configs directory
	for _, path := range []string{userConfigPath("runner.yaml"), filepath.Join("configs", "runner.yaml")} {
		if path == "" {
			continue
		}
		if cfg, ok := decodeFile(path); ok {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg := DefaultRunnerConfig()
	if err := yaml.Unmarshal(defaultRunnerYAML, &cfg); err != nil {
		return DefaultRunnerConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML over the built-in defaults.
func Parse(data []byte) (RunnerConfig, error) {
	cfg := DefaultRunnerConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultRunnerConfig(), fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func decodeFile(path string) (RunnerConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunnerConfig{}, false
	}
	cfg, err := Parse(data)
	if err != nil {
		return RunnerConfig{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".runner", "configs", filename)
}

// UserDataDir returns ~/.runner, or "." when home is unavailable.
func UserDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".runner")
}
