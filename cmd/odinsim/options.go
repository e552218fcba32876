package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dshills/odin75/internal/config"
	"github.com/dshills/odin75/internal/logging"
)

// load reads the configuration and applies command line overrides. An
// explicit --config must exist; the default path may be missing.
func (o *rootOptions) load() (*config.Config, string, error) {
	path := o.configPath
	if path == "" {
		path = config.DefaultPath()
	} else if _, err := os.Stat(path); err != nil {
		return nil, "", fmt.Errorf("config: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFile != "" {
		cfg.Log.File = o.logFile
	}
	if o.eeprom != "" {
		cfg.Storage.EEPROM = o.eeprom
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// logger opens the configured log file. Without one, logs go to fallback.
// The returned closer is never nil.
func logger(cfg *config.Config, fallback io.Writer) (logrus.FieldLogger, io.Closer, error) {
	lc := logging.DefaultConfig()
	lc.Level = cfg.Log.Level
	lc.Output = fallback
	if cfg.Log.File == "" {
		return logging.New(lc), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	lc.Output = f
	return logging.New(lc), f, nil
}
