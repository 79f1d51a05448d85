package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"bite/internal/adapters/tui/views"
	"bite/internal/application"
	"bite/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewSearch
	ViewImages
	ViewAssign
	ViewRemove
	ViewHelp
)

// App is the main TUI application model
type App struct {
	session *application.Session
	opener  ports.ImageOpener

	state   ViewState
	browser *views.BrowserModel
	search  *views.SearchModel
	images  *views.ImagesModel
	assign  *views.AssignModel
	remove  *views.RemoveModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application. opener may be nil, in which case
// images can not be opened.
func NewApp(session *application.Session, opener ports.ImageOpener) *App {
	return &App{
		session: session,
		opener:  opener,
		state:   ViewBrowser,
		browser: views.NewBrowserModel(session),
		search:  views.NewSearchModel(session),
		images:  views.NewImagesModel(session),
		assign:  views.NewAssignModel(session),
		remove:  views.NewRemoveModel(session),
		help:    views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.search.SetSize(msg.Width, msg.Height)
		a.images.SetSize(msg.Width, msg.Height)
		a.assign.SetSize(msg.Width, msg.Height)
		a.remove.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToSearchMsg:
		a.state = ViewSearch
		a.search.Reset()
		return a, a.search.Init()

	case views.SwitchToImagesMsg:
		a.state = ViewImages
		return a, a.images.SetTag(msg.Node)

	case views.SwitchToAssignMsg:
		a.state = ViewAssign
		a.assign.Prepare(msg.Node)
		return a, a.assign.Init()

	case views.SwitchToRemoveMsg:
		a.state = ViewRemove
		a.remove.SetTarget(msg.Node)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		a.browser.SetMessage(msg.Message, false)
		return a, a.browser.ReloadAt(msg.Focus)

	case views.OpenImageMsg:
		return a, a.openImage(msg.Location)

	case viewerFinishedMsg:
		if msg.err != nil {
			a.images.SetMessage(msg.err.Error(), true)
		}
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewSearch:
		_, cmd = a.search.Update(msg)
	case ViewImages:
		_, cmd = a.images.Update(msg)
	case ViewAssign:
		_, cmd = a.assign.Update(msg)
	case ViewRemove:
		_, cmd = a.remove.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type viewerFinishedMsg struct{ err error }

func (a *App) openImage(location string) tea.Cmd {
	if a.opener == nil {
		return nil
	}

	cmd, err := a.opener.Command(location)
	if err != nil {
		return func() tea.Msg {
			return viewerFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return viewerFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewSearch:
		return a.search.View()
	case ViewImages:
		return a.images.View()
	case ViewAssign:
		return a.assign.View()
	case ViewRemove:
		return a.remove.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
