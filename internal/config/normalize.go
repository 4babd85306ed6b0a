package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGenerator()
	c.normalizeEncoder()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.SoundList) == "" {
		c.Paths.SoundList = defaultSoundList
	}
	if c.Paths.SoundList, err = expandPath(c.Paths.SoundList); err != nil {
		return fmt.Errorf("paths.sound_list: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ArchiveDir) == "" {
		c.Paths.ArchiveDir = defaultArchiveDir
	}
	if c.Paths.ArchiveDir, err = expandPath(c.Paths.ArchiveDir); err != nil {
		return fmt.Errorf("paths.archive_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ReleasePath) == "" {
		c.Paths.ReleasePath = defaultReleasePath
	}
	if c.Paths.ReleasePath, err = expandPath(c.Paths.ReleasePath); err != nil {
		return fmt.Errorf("paths.release_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.ReadmePath) == "" {
		c.Paths.ReadmePath = defaultReadmePath
	}
	if c.Paths.ReadmePath, err = expandPath(c.Paths.ReadmePath); err != nil {
		return fmt.Errorf("paths.readme_path: %w", err)
	}
	c.Paths.ReleaseURL = strings.TrimSpace(c.Paths.ReleaseURL)
	return nil
}

func (c *Config) normalizeGenerator() {
	c.Generator.URL = strings.TrimSpace(c.Generator.URL)
	if c.Generator.URL == "" {
		c.Generator.URL = defaultGeneratorURL
	}
	if c.Generator.RequestTimeout == 0 {
		c.Generator.RequestTimeout = defaultRequestTimeout
	}
	if c.Generator.MaxRetries == 0 {
		c.Generator.MaxRetries = defaultMaxRetries
	}
	if c.Generator.BaseBackoff == 0 {
		c.Generator.BaseBackoff = defaultBaseBackoff
	}
	if c.Generator.BackoffMultiplier == 0 {
		c.Generator.BackoffMultiplier = defaultBackoffMultiplier
	}
	if c.Generator.MaxBackoff == 0 {
		c.Generator.MaxBackoff = defaultMaxBackoff
	}
}

func (c *Config) normalizeEncoder() {
	c.Encoder.Binary = strings.TrimSpace(c.Encoder.Binary)
	if c.Encoder.Binary == "" {
		c.Encoder.Binary = defaultEncoderBinary
	}
	if c.Encoder.GainDB == 0 {
		c.Encoder.GainDB = defaultGainDB
	}
	if c.Encoder.PeakLimit == 0 {
		c.Encoder.PeakLimit = defaultPeakLimit
	}
	// qscale 0 is treated as unset, not as lowest quality.
	if c.Encoder.Quality == 0 {
		c.Encoder.Quality = defaultQuality
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.Workers == 0 {
		c.Workflow.Workers = defaultWorkers
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
