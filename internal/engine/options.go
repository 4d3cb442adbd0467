package engine

import (
	"io"

	"github.com/charmbracelet/log"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes engine events to l. A nil logger discards them.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l == nil {
			l = log.New(io.Discard)
		}
		e.log = l
	}
}
