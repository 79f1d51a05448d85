package views

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"bite/internal/application"
	"bite/internal/application/commands"
	"bite/internal/domain"
)

// RemoveModel confirms removing a tag, with its subtree, from every image
type RemoveModel struct {
	ConfirmationModel
	session *application.Session
}

// NewRemoveModel creates a new remove view model
func NewRemoveModel(session *application.Session) *RemoveModel {
	return &RemoveModel{
		ConfirmationModel: NewConfirmationModel(),
		session:           session,
	}
}

// Init initializes the remove view
func (m *RemoveModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the remove view
func (m *RemoveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		if m.TargetNode == nil {
			return m, switchTo(SwitchToBrowserMsg{})
		}
		_, cmd := m.HandleKeyMsg(msg, m.remove, func() tea.Msg {
			return SwitchToBrowserMsg{Focus: m.TargetNode.Path}
		})
		return m, cmd
	}
	return m, nil
}

func (m *RemoveModel) remove() tea.Msg {
	path := m.TargetNode.Path
	result, err := commands.NewRemoveTagCommand(m.session, path).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return SwitchToBrowserMsg{Focus: domain.ParentPath(path), Message: result.Message}
}

// View renders the remove view
func (m *RemoveModel) View() string {
	v := newScreen("Remove tag")
	v.status(m.Message, m.MessageErr)
	v.add(RenderTargetInfo(m.TargetNode, "Remove")).gap()
	if m.TargetNode != nil && m.TargetNode.ImageCount > 0 {
		v.muted("The tag is unassigned from %d images first.", m.TargetNode.ImageCount)
	}
	return v.add(RenderConfirmPrompt("Remove this tag?")).String()
}
