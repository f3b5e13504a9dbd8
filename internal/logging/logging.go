// Package logging adapts go.uber.org/zap to the b24.Logger interface.
package logging

import (
	"github.com/ariblive/captionb24/b24"
	"go.uber.org/zap"
)

// ZapLogger implements b24.Logger by routing each level to the matching
// zap.SugaredLogger call.
type ZapLogger struct {
	l *zap.SugaredLogger
}

// New wraps a *zap.SugaredLogger as a b24.Logger.
func New(l *zap.SugaredLogger) *ZapLogger {
	return &ZapLogger{l: l}
}

// NewProduction builds a production zap logger and wraps it.
func NewProduction() (*ZapLogger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return New(logger.Sugar()), nil
}

// Log implements b24.Logger.
func (z *ZapLogger) Log(level b24.LogLevel, message string) {
	switch level {
	case b24.LogLevelError:
		z.l.Errorw(message)
	case b24.LogLevelWarning:
		z.l.Warnw(message)
	default:
		z.l.Infow(message)
	}
}
