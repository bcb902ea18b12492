package autowire

import (
	"log"
	"os"
)

// Logger is the logging surface the engine and plugin contexts expose.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type stdLogger struct {
	l *log.Logger
}

// NewLogger returns the default Logger writing to stderr.
func NewLogger() Logger {
	return &stdLogger{l: log.New(os.Stderr, "autowire: ", log.LstdFlags)}
}

func (s *stdLogger) Infof(format string, args ...any)  { s.l.Printf("INFO "+format, args...) }
func (s *stdLogger) Warnf(format string, args ...any)  { s.l.Printf("WARN "+format, args...) }
func (s *stdLogger) Errorf(format string, args ...any) { s.l.Printf("ERROR "+format, args...) }

// nopLogger discards everything. Used when the caller supplies none
// and asks for quiet operation in tests.
type nopLogger struct{}

func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
