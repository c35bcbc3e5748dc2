package cmd

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the command logger.
// It uses a no-op logger unless --verbose enabled the development one.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

func enableVerbose() {
	if l, err := zap.NewDevelopment(); err == nil {
		logger = l
	}
}
