package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Level is the severity of a log line
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "Warning"
	case LevelError:
		return "Error"
	default:
		return "Info"
	}
}

// Logger writes timestamped, leveled lines: "2006/01/02 15:04:05 Info - message"
type Logger struct {
	out *log.Logger
}

// New creates a logger writing to w
func New(w io.Writer) *Logger {
	return &Logger{out: log.New(w, "", log.LstdFlags)}
}

// Discard returns a logger that drops every line
func Discard() *Logger {
	return New(io.Discard)
}

// Open creates (truncating) the log file at path and returns a logger writing
// to it. The caller closes the returned file.
func Open(path string) (*Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(f), f, nil
}

func (l *Logger) write(level Level, format string, args []any) {
	if l == nil {
		return
	}
	l.out.Printf("%s - %s", level, fmt.Sprintf(format, args...))
}

// Infof logs an informational line
func (l *Logger) Infof(format string, args ...any) {
	l.write(LevelInfo, format, args)
}

// Warnf logs a warning
func (l *Logger) Warnf(format string, args ...any) {
	l.write(LevelWarning, format, args)
}

// Errorf logs an error
func (l *Logger) Errorf(format string, args ...any) {
	l.write(LevelError, format, args)
}
