package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGenerator(); err != nil {
		return err
	}
	if err := c.validateEncoder(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGenerator() error {
	parsed, err := url.Parse(c.Generator.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("generator.url %q is not a valid absolute URL", c.Generator.URL)
	}
	if err := ensurePositiveMap(map[string]int{
		"generator.request_timeout": c.Generator.RequestTimeout,
		"generator.max_retries":     c.Generator.MaxRetries,
	}); err != nil {
		return err
	}
	if c.Generator.BaseBackoff <= 0 {
		return errors.New("generator.base_backoff must be positive")
	}
	if c.Generator.BackoffMultiplier < 1 {
		return errors.New("generator.backoff_multiplier must be at least 1")
	}
	if c.Generator.MaxBackoff < c.Generator.BaseBackoff {
		return errors.New("generator.max_backoff must be at least generator.base_backoff")
	}
	if c.Generator.RateLimit < 0 {
		return errors.New("generator.rate_limit must not be negative")
	}
	return nil
}

func (c *Config) validateEncoder() error {
	if c.Encoder.Quality < 0 || c.Encoder.Quality > 10 {
		return errors.New("encoder.quality must be between 0 and 10")
	}
	if c.Encoder.PeakLimit <= 0 || c.Encoder.PeakLimit > 1 {
		return errors.New("encoder.peak_limit must be in (0, 1]")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.Workers < 1 {
		return errors.New("workflow.workers must be at least 1")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
