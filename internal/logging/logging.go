// Package logging builds the CLI's debug logger.
package logging

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to w when debug is set, and a
// discarding logger otherwise. Debug lines are logged at V(1).
func New(w io.Writer, debug bool) logr.Logger {
	if !debug {
		return logr.Discard()
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(ec),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(zap.DebugLevel),
	)
	return zapr.NewLogger(zap.New(core)).WithName("taskprobe")
}
