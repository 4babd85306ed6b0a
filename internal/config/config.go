package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the filesystem layout of a voice-pack build.
type Paths struct {
	SoundList   string `toml:"sound_list" env:"SOUND_LIST"`
	OutputDir   string `toml:"output_dir" env:"OUTPUT_DIR"`
	ArchiveDir  string `toml:"archive_dir" env:"ARCHIVE_DIR"`
	LogDir      string `toml:"log_dir" env:"LOG_DIR"`
	ReleasePath string `toml:"release_path" env:"RELEASE_PATH"`
	ReadmePath  string `toml:"readme_path" env:"README_PATH"`
	ReleaseURL  string `toml:"release_url" env:"RELEASE_URL"`
}

// Generator contains the speech endpoint and retry budget.
type Generator struct {
	URL               string  `toml:"url" env:"URL"`
	RequestTimeout    int     `toml:"request_timeout"` // seconds per attempt
	MaxRetries        int     `toml:"max_retries"`
	BaseBackoff       float64 `toml:"base_backoff"` // seconds
	BackoffMultiplier float64 `toml:"backoff_multiplier"`
	MaxBackoff        float64 `toml:"max_backoff"` // seconds
	RateLimit         float64 `toml:"rate_limit"`  // requests/sec, 0 disables
}

// Encoder contains the ffmpeg invocation settings.
type Encoder struct {
	Binary    string  `toml:"binary" env:"BINARY"`
	GainDB    float64 `toml:"gain_db"`
	PeakLimit float64 `toml:"peak_limit"`
	Quality   int     `toml:"quality"` // Vorbis qscale, 0-10
}

// Workflow contains scheduler settings.
type Workflow struct {
	Workers int `toml:"workers" env:"WORKERS"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format" env:"LOG_FORMAT"`
	Level  string `toml:"level" env:"LOG_LEVEL"`
}

// Config encapsulates all configuration values for voicepack.
type Config struct {
	Paths     Paths     `toml:"paths" envPrefix:"PATHS_"`
	Generator Generator `toml:"generator" envPrefix:"GENERATOR_"`
	Encoder   Encoder   `toml:"encoder" envPrefix:"ENCODER_"`
	Workflow  Workflow  `toml:"workflow" envPrefix:"WORKFLOW_"`
	Logging   Logging   `toml:"logging" envPrefix:"LOGGING_"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/voicepack/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has environment overrides applied and all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "VOICEPACK_"}); err != nil {
		return nil, "", false, fmt.Errorf("apply environment overrides: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	projectPath, err := filepath.Abs("voicepack.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
