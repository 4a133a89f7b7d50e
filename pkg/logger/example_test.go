package logger_test

import (
	"errors"

	"github.com/wonny/nvdbdq/pkg/config"
	"github.com/wonny/nvdbdq/pkg/logger"
)

// Example_basic demonstrates basic logger usage
func Example_basic() {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "console",
	}

	log := logger.New(cfg)

	log.Debug("This won't appear (level is info)")
	log.Info("Analysis started")
	log.Infof("Fetched %d objects", 500)
}

// Example_withFields demonstrates structured logging with fields
func Example_withFields() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"object_type": 79,
		"region":      34,
		"limit":       500,
	}).Info("Fetching objects")

	log.WithError(errors.New("status 503")).Warn("NVDB request failed")
}
