// Package logadapter plugs structured logging libraries into schedule.Logger.
package logadapter

import (
	"go.uber.org/zap"

	schedule "github.com/netresearch/go-schedule"
)

// Zap adapts a *zap.Logger. Key/value pairs become sugared fields.
type Zap struct {
	l *zap.Logger
}

var _ schedule.Logger = (*Zap)(nil)

// NewZap wraps l. A nil l is replaced by zap.NewNop().
func NewZap(l *zap.Logger) *Zap {
	if l == nil {
		l = zap.NewNop()
	}
	return &Zap{l: l}
}

// Info logs at zap.InfoLevel.
func (z *Zap) Info(msg string, keysAndValues ...any) {
	z.l.Sugar().Infow(msg, keysAndValues...)
}

// Error logs at zap.ErrorLevel with the error under zap's "error" key.
func (z *Zap) Error(err error, msg string, keysAndValues ...any) {
	z.l.With(zap.Error(err)).Sugar().Errorw(msg, keysAndValues...)
}
