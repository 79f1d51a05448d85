package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"bite/internal/domain"
)

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Messages for view switching
type SwitchToSearchMsg struct{}

type SwitchToHelpMsg struct{}

type SwitchToImagesMsg struct {
	Node *domain.TreeNode
}

type SwitchToAssignMsg struct {
	Node *domain.TreeNode
}

type SwitchToRemoveMsg struct {
	Node *domain.TreeNode
}

// SwitchToBrowserMsg returns to the tree. Focus, when set, is a tag path the
// browser expands to and selects after reloading.
type SwitchToBrowserMsg struct {
	Focus   string
	Message string
}

// OpenImageMsg asks the app to show an image location in the viewer
type OpenImageMsg struct {
	Location string
}

type errMsg struct {
	err error
}

func switchTo(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
