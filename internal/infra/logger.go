// README: Zap logger construction with file rotation and stdout tee.
package infra

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func NewLogger(path string, debug bool) (*zap.Logger, error) {
	if path != "" {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, err
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	if debug {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	encoder := zapcore.NewJSONEncoder(encoderConfig)
	if debug {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(path, "drivehire.log"),
		MaxSize:    10, // MB
		MaxBackups: 7,
		MaxAge:     28, // days
		Compress:   true,
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, fileWriter, level),
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level),
	)
	return zap.New(core, zap.AddCaller()), nil
}
