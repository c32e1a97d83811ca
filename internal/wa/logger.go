package wa

import (
	waLog "go.mau.fi/whatsmeow/util/log"
	"go.uber.org/zap"
)

// zapLogger routes whatsmeow's printf-style logs into zap.
type zapLogger struct {
	s *zap.SugaredLogger
}

// NewLogger adapts a zap logger to the whatsmeow logging interface.
func NewLogger(logger *zap.Logger) waLog.Logger {
	return &zapLogger{s: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (l *zapLogger) Errorf(msg string, args ...any) { l.s.Errorf(msg, args...) }
func (l *zapLogger) Warnf(msg string, args ...any)  { l.s.Warnf(msg, args...) }
func (l *zapLogger) Infof(msg string, args ...any)  { l.s.Infof(msg, args...) }
func (l *zapLogger) Debugf(msg string, args ...any) { l.s.Debugf(msg, args...) }

func (l *zapLogger) Sub(module string) waLog.Logger {
	return &zapLogger{s: l.s.Named(module)}
}
