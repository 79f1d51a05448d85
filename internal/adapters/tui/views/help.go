package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"bite/internal/adapters/tui/styles"
	"bite/internal/domain"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel lists the bindings of the browser and images views
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, switchTo(SwitchToBrowserMsg{})
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	b := BrowserKeys
	s := newScreen("bite help").
		section("Tag tree", b.Up, b.Down, b.Left, b.Right, b.Enter).
		section("Tags", b.Images, b.Assign, b.Type, b.Remove, b.Prune, b.Search).
		section("Images", ImagesKeys.Open, ImagesKeys.RateUp, ImagesKeys.RateDown, ImagesKeys.Unassign, ImagesKeys.NextPage).
		add(styles.InputLabel.Render("Tag types"))

	for _, t := range []domain.TagType{domain.TagTypeRegular, domain.TagTypeCategory, domain.TagTypeModifier, domain.TagTypeInteraction} {
		s.add("  " + styles.TagStyle(t).Render(t.String()))
	}

	return s.muted("  Paths nest with colons: animal:cat:tabby").
		gap().
		keys(HelpKeys.Close).
		String()
}
