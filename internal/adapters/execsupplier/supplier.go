package execsupplier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"bite/internal/ports"
)

// DefaultDelay is the minimum time between two invocations of the command
const DefaultDelay = time.Second

// categoryPrefixes maps supplier tag categories onto top-level tags
var categoryPrefixes = map[int]string{
	1: "artist:",
	3: "universe:",
	5: "character:",
}

// Supplier implements ports.TagSupplier by running an external command with
// the image hash as its last argument. The command prints a JSON array of
// {"name": ..., "type": N} objects.
type Supplier struct {
	command []string
	delay   time.Duration

	mu    sync.Mutex
	last  time.Time
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Ensure Supplier implements TagSupplier
var _ ports.TagSupplier = (*Supplier)(nil)

// Option configures the Supplier
type Option func(*Supplier)

// WithDelay sets the minimum delay between invocations
func WithDelay(d time.Duration) Option {
	return func(s *Supplier) {
		s.delay = d
	}
}

// withClock replaces time.Now and the sleep used for throttling
func withClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Supplier) {
		s.now = now
		s.sleep = sleep
	}
}

// New creates a supplier running command (program followed by fixed args)
func New(command []string, opts ...Option) (*Supplier, error) {
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return nil, errors.New("supplier command is required")
	}
	s := &Supplier{
		command: command,
		delay:   DefaultDelay,
		now:     time.Now,
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// IsAvailable checks if the supplier command can be found
func (s *Supplier) IsAvailable() bool {
	_, err := exec.LookPath(s.command[0])
	return err == nil
}

// Tags runs the command for one image hash and returns prefixed tag names
func (s *Supplier) Tags(ctx context.Context, hash string) ([]string, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	args := append(append([]string{}, s.command[1:]...), hash)
	cmd := exec.CommandContext(ctx, s.command[0], args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("supplier error: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("supplier error: %w", err)
	}

	return parseTags(string(output))
}

// wait blocks until the delay since the previous invocation has elapsed
func (s *Supplier) wait(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.last.IsZero() {
		if remaining := s.delay - s.now().Sub(s.last); remaining > 0 {
			if err := s.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	s.last = s.now()
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type tagJSON struct {
	Name string `json:"name"`
	Type int    `json:"type"`
}

var codeBlockRe = regexp.MustCompile("```(?:json)?\\s*\\n?([\\s\\S]*?)\\n?```")

// parseTags extracts the tag array from the command output
func parseTags(output string) ([]string, error) {
	output = strings.TrimSpace(output)

	if matches := codeBlockRe.FindStringSubmatch(output); len(matches) > 1 {
		output = strings.TrimSpace(matches[1])
	}

	start := strings.Index(output, "[")
	end := strings.LastIndex(output, "]")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON array found in supplier output")
	}

	var raw []tagJSON
	if err := json.Unmarshal([]byte(output[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse supplier output: %w", err)
	}

	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		tags = append(tags, categoryPrefixes[t.Type]+name)
	}
	return tags, nil
}
