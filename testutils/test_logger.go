package testutils

import (
	"io"

	"go.uber.org/zap/zapcore"

	"github.com/gonoise/gonoise/pkg/logging"
)

// NewTestLogger creates a new logger for testing that discards output.
func NewTestLogger() logging.Logger {
	logging.InitLogger("debug", "console", zapcore.AddSync(io.Discard))
	return logging.GetLogger()
}
