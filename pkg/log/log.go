// Package log sets up the global zap logger used by both commands.
package log

import (
	"github.com/kiltia/kzseed/config"

	"go.uber.org/zap"
)

// Init builds a logger from the config and installs it as zap's global
// logger. The returned function flushes buffered entries.
func Init(cfg config.LogConfig) (sync func(), err error) {
	conf := zap.NewDevelopmentConfig()
	conf.Level = zap.NewAtomicLevelAt(cfg.Level)
	if cfg.Encoding != "" {
		conf.Encoding = cfg.Encoding
	}
	// stdout carries the generated SQL
	conf.OutputPaths = []string{"stderr"}
	conf.ErrorOutputPaths = []string{"stderr"}

	logger, err := conf.Build()
	if err != nil {
		return nil, err
	}
	undo := zap.ReplaceGlobals(logger)
	return func() {
		_ = logger.Sync()
		undo()
	}, nil
}
