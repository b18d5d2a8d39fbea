// Package log wraps zap with file rotation for the CLI's debug log.
package log

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger      *zap.Logger
	mu          sync.Mutex
	initialized bool
)

// Init initializes the logger. With verbose set, debug-level entries
// also go to stderr; otherwise everything lands only in the rotated
// log file under dir. Calling Init twice is a no-op.
func Init(dir string, verbose bool) error {
	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return nil
	}
	initialized = true

	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dir = filepath.Join(homeDir, ".session-handoff")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	fileSyncer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, "debug.log"),
		MaxSize:    20, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	})

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), fileSyncer, zapcore.DebugLevel),
	}
	if verbose {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(os.Stderr),
			zapcore.DebugLevel,
		))
	}

	logger = zap.New(zapcore.NewTee(cores...))
	return nil
}

// L returns the logger, or a nop logger before Init.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// Sync flushes buffered entries.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		_ = logger.Sync()
	}
}
