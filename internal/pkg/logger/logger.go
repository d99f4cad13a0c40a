// Package logger provides the diagnostic logger behind ports.Logger.
package logger

import (
	"io"
	"log"
	"os"
	"strings"
)

// StdLogger writes leveled diagnostic lines to stderr. Output is silent
// unless verbose mode is on, so the interactive studio stays clean by
// default.
type StdLogger struct {
	verbose bool
	log     *log.Logger
}

// NewStd creates a StdLogger. Verbose mode is controlled by the
// ASOFORGE_DEBUG environment variable ("1" or "true").
func NewStd() *StdLogger {
	return newStd(os.Stderr, debugEnabled())
}

func newStd(out io.Writer, verbose bool) *StdLogger {
	return &StdLogger{
		verbose: verbose,
		log:     log.New(out, "asoforge ", log.LstdFlags),
	}
}

func debugEnabled() bool {
	v := os.Getenv("ASOFORGE_DEBUG")
	return v == "1" || strings.EqualFold(v, "true")
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.log.Println("[DEBUG]", msg, fields)
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.log.Println("[INFO]", msg, fields)
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.log.Println("[WARN]", msg, fields)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.log.Println("[ERROR]", msg, err, fields)
}
