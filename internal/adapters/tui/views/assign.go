package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"bite/internal/application"
	"bite/internal/application/commands"
	"bite/internal/domain"
)

const (
	assignFieldHash = iota
	assignFieldTag
	assignFieldType
)

// AssignModel is a form assigning a tag to an image. The tag field completes
// with Tab the same way the autocomplete command does.
type AssignModel struct {
	ViewState
	session *application.Session
	form    *InputForm
}

// NewAssignModel creates a new assign view model
func NewAssignModel(session *application.Session) *AssignModel {
	m := &AssignModel{session: session}
	m.form = NewInputForm(
		NewInputField("Image hash", "md5 of the image file", 64),
		NewInputField("Tag", "animal:cat", 256).WithCompleter(m.complete),
		NewInputField("Type of a new tag", "regular", 16),
	)
	return m
}

// Prepare clears the form, prefilling the tag with the selected tree node
func (m *AssignModel) Prepare(node *domain.TreeNode) {
	m.form.Reset()
	m.ClearMessage()
	if node != nil && node.Type != domain.TagTypeRoot {
		m.form.SetValue(assignFieldTag, node.Path)
	}
}

// Init initializes the assign view
func (m *AssignModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m *AssignModel) complete(text string) string {
	completed, err := commands.NewAutocompleteCommand(m.session, text).Execute(context.Background())
	if err != nil {
		return text
	}
	return completed
}

type assignDoneMsg struct {
	path    string
	message string
}

// Update handles messages for the assign view
func (m *AssignModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case assignDoneMsg:
		return m, switchTo(SwitchToBrowserMsg{Focus: msg.path, Message: msg.message})

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, switchTo(SwitchToBrowserMsg{})
		case key.Matches(msg, m.form.Keys.Submit):
			return m, m.submit()
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *AssignModel) submit() tea.Cmd {
	hash := strings.ToLower(m.form.Value(assignFieldHash))
	path := m.form.Value(assignFieldTag)
	typeName := m.form.Value(assignFieldType)
	if typeName == "" {
		typeName = domain.TagTypeRegular.String()
	}

	return func() tea.Msg {
		typ, err := domain.ParseTagType(typeName)
		if err != nil {
			return errMsg{err}
		}
		result, err := commands.NewAssignCommand(m.session, hash, path, typ).Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return assignDoneMsg{path: path, message: result.Message}
	}
}

// View renders the assign view
func (m *AssignModel) View() string {
	v := newScreen("Assign tag")
	v.status(m.Message, m.MessageErr)
	for i := range m.form.Fields {
		v.add(m.form.RenderField(i))
	}
	v.muted("Types: %s, %s, %s, %s",
		domain.TagTypeRegular, domain.TagTypeCategory, domain.TagTypeModifier, domain.TagTypeInteraction)
	return v.gap().add(m.form.RenderHelp("assign")).String()
}
