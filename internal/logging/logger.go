package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger é o logger global. Começa como no-op até InitLogger ser chamado.
	Logger = zap.NewNop()
)

// InitLogger configura o logger global em formato JSON de produção.
func InitLogger(service, version string) error {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(logLevel)); err == nil {
			config.Level = zap.NewAtomicLevelAt(level)
		}
	}

	logger, err := config.Build(
		zap.AddCallerSkip(1),
		zap.Fields(
			zap.String("service", service),
			zap.String("version", version),
		),
	)
	if err != nil {
		return err
	}

	Logger = logger
	return nil
}

// Sync descarrega o buffer do logger global.
func Sync() {
	_ = Logger.Sync()
}
