package bot

import "log"

// Logger is the logging interface used throughout the service. Components
// receive it by injection so tests can assert on what was logged.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type stdLogger struct {
	log     *log.Logger
	verbose bool
}

// NewLogger returns a Logger backed by the given log.Logger. Debug output is
// suppressed unless verbose is set.
func NewLogger(l *log.Logger, verbose bool) Logger {
	return &stdLogger{log: l, verbose: verbose}
}

func (s *stdLogger) Debugf(format string, args ...interface{}) {
	if s.verbose {
		s.log.Printf("DEBUG "+format, args...)
	}
}

func (s *stdLogger) Infof(format string, args ...interface{}) {
	s.log.Printf("INFO  "+format, args...)
}

func (s *stdLogger) Warnf(format string, args ...interface{}) {
	s.log.Printf("WARN  "+format, args...)
}

func (s *stdLogger) Errorf(format string, args ...interface{}) {
	s.log.Printf("ERROR "+format, args...)
}
