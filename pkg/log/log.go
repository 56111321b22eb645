package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *zap.Logger
	once         sync.Once
)

// InitLogger initializes the global logger.
// Debug mode uses a console encoder at debug level, otherwise JSON at info level.
func InitLogger(debug bool) {
	once.Do(func() {
		var config zap.Config
		if debug {
			config = zap.NewDevelopmentConfig()
			config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			config = zap.NewProductionConfig()
			config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		}

		// Protocol traffic goes to the client on stdout in stdio mode,
		// so logs must stay on stderr.
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}

		globalLogger, _ = config.Build(zap.AddCallerSkip(1))
	})
}

func get() *zap.Logger {
	if globalLogger == nil {
		l, _ := zap.NewProduction()
		return l
	}
	return globalLogger
}

// Sync flushes any buffered log entries.
func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}

// Debug logs a message at DebugLevel.
func Debug(msg string, fields ...zap.Field) {
	get().Debug(msg, fields...)
}

// Info logs a message at InfoLevel.
func Info(msg string, fields ...zap.Field) {
	get().Info(msg, fields...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, fields ...zap.Field) {
	get().Warn(msg, fields...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, fields ...zap.Field) {
	get().Error(msg, fields...)
}

// Fatal logs a message at FatalLevel then exits.
func Fatal(msg string, fields ...zap.Field) {
	get().Fatal(msg, fields...)
}
