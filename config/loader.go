package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Load returns a Config using the hierarchy: defaults < YAML < .env < environment.
// Both files are optional; a missing file is not an error. Empty paths use DefaultFile
// and ".env".
func Load(yamlPath, envPath string) (Config, error) {
	cfg := Defaults()

	if yamlPath == "" {
		yamlPath = DefaultFile
	}
	if err := loadYAML(&cfg, yamlPath); err != nil {
		return Config{}, fmt.Errorf("config yaml: %w", err)
	}

	if err := LoadDotEnv(envPath); err != nil {
		return Config{}, fmt.Errorf("config dotenv: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config env: %w", err)
	}

	return cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// LoadDotEnv loads environment variables from a .env file. Variables that are already set
// in the environment are not overridden. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}
