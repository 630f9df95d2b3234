package logadapter

import (
	"fmt"

	"github.com/rs/zerolog"

	schedule "github.com/netresearch/go-schedule"
)

// Zerolog adapts a zerolog.Logger.
type Zerolog struct {
	l zerolog.Logger
}

var _ schedule.Logger = (*Zerolog)(nil)

// NewZerolog wraps l.
func NewZerolog(l zerolog.Logger) *Zerolog {
	return &Zerolog{l: l}
}

// Info logs at zerolog.InfoLevel.
func (z *Zerolog) Info(msg string, keysAndValues ...any) {
	z.l.Info().Fields(fields(keysAndValues)).Msg(msg)
}

// Error logs at zerolog.ErrorLevel with the error under zerolog's error key.
func (z *Zerolog) Error(err error, msg string, keysAndValues ...any) {
	z.l.Error().Err(err).Fields(fields(keysAndValues)).Msg(msg)
}

// fields turns key/value pairs into a map; non-string keys are formatted and
// a dangling key gets a nil value.
func fields(keysAndValues []any) map[string]any {
	m := make(map[string]any, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		var v any
		if i+1 < len(keysAndValues) {
			v = keysAndValues[i+1]
		}
		m[key] = v
	}
	return m
}
