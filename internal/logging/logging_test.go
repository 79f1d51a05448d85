package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		write func(l *Logger)
		want  string
	}{
		{"info", func(l *Logger) { l.Infof("Created tag [%s]", "a:b") }, "Info - Created tag [a:b]"},
		{"warning", func(l *Logger) { l.Warnf("already assigned") }, "Warning - already assigned"},
		{"error", func(l *Logger) { l.Errorf("tag %q not found", "x") }, `Error - tag "x" not found`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.write(New(&buf))

			line := strings.TrimSpace(buf.String())
			if !strings.HasSuffix(line, tt.want) {
				t.Errorf("expected line ending in %q, got %q", tt.want, line)
			}
		})
	}
}

func TestLogger_NilIsSilent(t *testing.T) {
	var l *Logger
	l.Infof("nothing happens")
	l.Warnf("nothing happens")
	l.Errorf("nothing happens")
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bite.log")

	l, closer, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	l.Infof("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(content), "Info - hello") {
		t.Errorf("log file missing line, got %q", content)
	}
}
