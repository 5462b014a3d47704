package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "tutor-platform"

// Logger stays a no-op until Init, so packages can log from tests.
var Logger = zap.NewNop()

// Init installs the process logger: JSON at info in production, coloured
// console output at debug everywhere else.
func Init(environment string) error {
	cfg := buildConfig(environment)

	built, err := cfg.Build(
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service", serviceName)),
	)
	if err != nil {
		return err
	}

	Replace(built)
	return nil
}

func buildConfig(environment string) zap.Config {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if environment == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	enc := &cfg.EncoderConfig
	enc.TimeKey = "timestamp"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.MessageKey = "message"
	enc.LevelKey = "level"
	enc.CallerKey = "caller"
	enc.StacktraceKey = "stacktrace"
	return cfg
}

// Replace swaps the package logger and returns a func restoring the old one.
func Replace(l *zap.Logger) (restore func()) {
	prev := Logger
	Logger = l
	undoGlobals := zap.ReplaceGlobals(l)
	return func() {
		Logger = prev
		undoGlobals()
	}
}

func Sync() {
	_ = Logger.Sync()
}

func WithRequestID(requestID string) *zap.Logger {
	return Logger.With(zap.String("request_id", requestID))
}

func Debug(msg string, fields ...zap.Field) { Logger.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { Logger.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Logger.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Logger.Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { Logger.Fatal(msg, fields...) }
