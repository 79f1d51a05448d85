package views

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"bite/internal/adapters/tui/styles"
	"bite/internal/application"
	"bite/internal/application/commands"
)

// SearchKeyMap defines key bindings for the search view
type SearchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "copy path"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

const maxSearchResults = 10

// SearchModel looks tags up while typing: the autocompletion of the text as
// typed, followed by fuzzy matches over every tag path
type SearchModel struct {
	ViewState
	session    *application.Session
	input      textinput.Model
	completion string
	results    []commands.SearchResult
	cursor     int // 0 is the completion, 1.. the results
	copy       func(string) error
}

// NewSearchModel creates a new search view model
func NewSearchModel(session *application.Session) *SearchModel {
	input := textinput.New()
	input.Placeholder = "Tag name..."
	input.Focus()

	return &SearchModel{
		session: session,
		input:   input,
		copy:    clipboard.WriteAll,
	}
}

// Init initializes the search view
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset resets the search view
func (m *SearchModel) Reset() {
	m.input.SetValue("")
	m.completion = ""
	m.results = nil
	m.cursor = 0
	m.input.Focus()
}

type lookupResultsMsg struct {
	query      string
	completion string
	results    []commands.SearchResult
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case lookupResultsMsg:
		// Drop results of a query that has since been edited
		if msg.query != m.input.Value() {
			return m, nil
		}
		m.completion = msg.completion
		m.results = msg.results
		m.cursor = 0
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			return m, switchTo(SwitchToBrowserMsg{})

		case key.Matches(msg, SearchKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Down):
			if m.cursor < m.choices()-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Select):
			path := m.selected()
			if path == "" {
				return m, nil
			}
			if err := m.copy(path); err != nil {
				return m, switchTo(SwitchToBrowserMsg{Focus: path, Message: fmt.Sprintf("%s (clipboard unavailable: %v)", path, err)})
			}
			return m, switchTo(SwitchToBrowserMsg{Focus: path, Message: fmt.Sprintf("Copied %s", path)})
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	query := m.input.Value()
	if query == "" {
		m.completion = ""
		m.results = nil
		m.cursor = 0
		return m, cmd
	}
	return m, tea.Batch(cmd, m.lookup(query))
}

func (m *SearchModel) lookup(query string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		completion, err := commands.NewAutocompleteCommand(m.session, query).Execute(ctx)
		if err != nil {
			return errMsg{err}
		}
		results, err := commands.NewSearchCommand(m.session, query).Execute(ctx)
		if err != nil {
			return errMsg{err}
		}
		if len(results) > maxSearchResults {
			results = results[:maxSearchResults]
		}
		return lookupResultsMsg{query: query, completion: completion, results: results}
	}
}

func (m *SearchModel) choices() int {
	if m.completion == "" {
		return 0
	}
	return len(m.results) + 1
}

// selected returns the tag path under the cursor
func (m *SearchModel) selected() string {
	switch {
	case m.completion == "":
		return ""
	case m.cursor == 0:
		return m.completion
	case m.cursor <= len(m.results):
		return m.results[m.cursor-1].Path
	default:
		return ""
	}
}

// View renders the search view
func (m *SearchModel) View() string {
	v := newScreen("Find tag")
	v.add(styles.InputFocused.Render(m.input.View())).gap()
	v.status(m.Message, m.MessageErr)

	if m.completion == "" {
		v.muted("Type a tag name, a prefix of one, or a substitution")
	} else {
		v.add(RenderLabelValue("completes to", m.renderChoice(m.completion, 0)))
		if len(m.results) > 0 {
			v.gap().add(styles.Subtitle.Render(fmt.Sprintf("%d matches", len(m.results))))
		}
		for i, r := range m.results {
			v.add(m.renderChoice(fmt.Sprintf("%s [%s]", r.Path, r.Type), i+1))
		}
	}

	return v.gap().keys(SearchKeys.Up, SearchKeys.Down, SearchKeys.Select, SearchKeys.Cancel).String()
}

func (m *SearchModel) renderChoice(text string, index int) string {
	if index == m.cursor {
		return styles.NodeSelected.Render(text)
	}
	return text
}
