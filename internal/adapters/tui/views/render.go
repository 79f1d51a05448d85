package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"bite/internal/adapters/tui/styles"
	"bite/internal/domain"
)

// RenderHelpLine renders key bindings on one line, separated by bullets
func RenderHelpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, styles.HelpKey.Render(h.Key)+" "+styles.HelpDesc.Render(h.Desc))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage renders a status message, red for errors
func RenderMessage(message string, isError bool) string {
	switch {
	case message == "":
		return ""
	case isError:
		return styles.ErrorMsg.Render(message)
	default:
		return styles.Success.Render(message)
	}
}

// RenderTag renders a tag path in the colour of its type, or highlighted
// when selected
func RenderTag(text string, t domain.TagType, selected bool) string {
	if selected {
		return styles.NodeSelected.Render(text)
	}
	return styles.TagStyle(t).Render(text)
}

// RenderLabelValue renders "label: value"
func RenderLabelValue(label, value string) string {
	return styles.InputLabel.Render(label+":") + " " + value
}

// screen collects the lines of one view. Every view starts with a title and
// ends wrapped in the app style.
type screen struct {
	lines []string
}

func newScreen(title string) *screen {
	return &screen{lines: []string{styles.Title.Render(title), ""}}
}

func (s *screen) add(lines ...string) *screen {
	s.lines = append(s.lines, lines...)
	return s
}

func (s *screen) gap() *screen {
	return s.add("")
}

func (s *screen) muted(format string, args ...any) *screen {
	return s.add(styles.MutedText.Render(fmt.Sprintf(format, args...)))
}

// status adds the message and a blank line, or nothing if there is no message
func (s *screen) status(message string, isError bool) *screen {
	if message == "" {
		return s
	}
	return s.add(RenderMessage(message, isError), "")
}

func (s *screen) keys(bindings ...key.Binding) *screen {
	return s.add(RenderHelpLine(bindings...))
}

// section adds a labelled block with one binding per line, keys aligned
func (s *screen) section(label string, bindings ...key.Binding) *screen {
	s.add(styles.InputLabel.Render(label))
	for _, b := range bindings {
		h := b.Help()
		s.add(fmt.Sprintf("  %s%s", styles.HelpKey.Render(fmt.Sprintf("%-14s", h.Key)), styles.HelpDesc.Render(h.Desc)))
	}
	return s.gap()
}

func (s *screen) String() string {
	return styles.App.Render(strings.Join(s.lines, "\n"))
}
