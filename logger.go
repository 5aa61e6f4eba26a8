package session

import (
	charm "github.com/charmbracelet/log"
)

// charmLogger adapts a charmbracelet logger to the Logger interface.
type charmLogger struct {
	l *charm.Logger
}

// NewCharmLogger wraps a charmbracelet log.Logger. Passing nil uses the
// package default logger.
func NewCharmLogger(l *charm.Logger) Logger {
	if l == nil {
		l = charm.Default()
	}
	return charmLogger{l: l}
}

func (c charmLogger) Debug(msg string, args ...any) {
	c.l.Debug(msg, args...)
}

func (c charmLogger) Info(msg string, args ...any) {
	c.l.Info(msg, args...)
}

func (c charmLogger) Warn(msg string, args ...any) {
	c.l.Warn(msg, args...)
}

func (c charmLogger) Error(msg string, args ...any) {
	c.l.Error(msg, args...)
}
