package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds crewplan settings.
type Config struct {
	DBPath       string       `yaml:"db_path"`
	LogUseCases  bool         `yaml:"log_use_cases"`
	FallbackYear int          `yaml:"fallback_year"`
	Editor       EditorConfig `yaml:"editor"`
}

// EditorConfig tunes the interactive timeline editor.
type EditorConfig struct {
	// PreviewGlyph marks months whose previewed crew differs from the
	// committed crew while a handle is being dragged.
	PreviewGlyph string `yaml:"preview_glyph"`
}

// Default returns the built-in configuration. The database lives under the
// user's home directory when it can be found.
func Default() Config {
	dbPath := "crewplan.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".crewplan", "crewplan.db")
	}
	return Config{
		DBPath:       dbPath,
		FallbackYear: 2022,
		Editor:       EditorConfig{PreviewGlyph: "~"},
	}
}

// Load reads configuration from an optional YAML file named by
// CREWPLAN_CONFIG, then applies environment overrides.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CREWPLAN_CONFIG"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if v := os.Getenv("CREWPLAN_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CREWPLAN_LOG_USE_CASES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CREWPLAN_LOG_USE_CASES: %w", err)
		}
		cfg.LogUseCases = b
	}
	if v := os.Getenv("CREWPLAN_FALLBACK_YEAR"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CREWPLAN_FALLBACK_YEAR: %w", err)
		}
		cfg.FallbackYear = year
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the rest of the program cannot work with.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if c.FallbackYear < 1 || c.FallbackYear > 9999 {
		return fmt.Errorf("fallback_year %d out of range 1-9999", c.FallbackYear)
	}
	if c.Editor.PreviewGlyph == "" {
		return fmt.Errorf("editor.preview_glyph must not be empty")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
