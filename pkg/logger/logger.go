// Package logger builds the zap logger used across imgup.
package logger

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to out. Debug enables debug level
// output along with caller annotations.
func New(debug bool, out io.Writer) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	} else {
		encCfg.CallerKey = ""
		encCfg.NameKey = ""
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(out),
		level,
	)

	opts := []zap.Option{}
	if debug {
		opts = append(opts, zap.AddCaller())
	}

	return zap.New(core, opts...)
}
