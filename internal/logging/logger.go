// Package logging builds the process logger: JSON lines in the session log
// file plus a console-formatted tail kept in memory for the log panel.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger that writes JSON to the given log file path and
// console lines into ring. Session name and PID are included as initial
// fields. The returned close func syncs and closes the log file.
func New(logPath, sessionName, level string, ring *Ring) (*zap.Logger, func() error, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	jsonEncoder := zapcore.NewJSONEncoder(encoderCfg)

	panelCfg := encoderCfg
	panelCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	panelCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	panelCfg.CallerKey = zapcore.OmitKey
	consoleEncoder := zapcore.NewConsoleEncoder(panelCfg)

	cores := []zapcore.Core{zapcore.NewCore(jsonEncoder, zapcore.AddSync(file), lvl)}
	if ring != nil {
		cores = append(cores, zapcore.NewCore(consoleEncoder, ring, lvl))
	}

	logger := zap.New(zapcore.NewTee(cores...),
		zap.Fields(
			zap.String("session", sessionName),
			zap.Int("pid", os.Getpid()),
		),
	)

	closeFn := func() error {
		_ = logger.Sync()
		return file.Close()
	}
	return logger, closeFn, nil
}
