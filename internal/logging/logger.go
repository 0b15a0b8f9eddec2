package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a production JSON logger at info level, or a development console logger
// at debug level when debug is set. Output always goes to sink so stdout stays free for the report.
func NewLogger(debug bool, sink zapcore.WriteSyncer) *zap.Logger {
	if debug {
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			sink,
			zap.NewAtomicLevelAt(zapcore.DebugLevel),
		)
		return zap.New(core, zap.Development(), zap.AddCaller())
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		sink,
		zap.NewAtomicLevelAt(zapcore.InfoLevel),
	)
	return zap.New(core)
}
