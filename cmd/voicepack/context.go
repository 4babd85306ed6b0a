package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"voicepack/internal/config"
	"voicepack/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// newLogger builds the run logger from the logging section, tagging every
// record with a fresh run id. Logs go to stderr and, when a log directory is
// configured, to a per-run file as well.
func newLogger(cfg *config.Config) (*slog.Logger, string, error) {
	outputs := []string{"stderr"}
	if cfg.Paths.LogDir != "" {
		name := "voicepack-" + time.Now().Format("20060102-150405") + ".log"
		outputs = append(outputs, filepath.Join(cfg.Paths.LogDir, name))
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
	if err != nil {
		return nil, "", err
	}
	runID := uuid.NewString()
	return logger.With(logging.String("run_id", runID)), runID, nil
}
