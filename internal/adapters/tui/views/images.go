package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"

	"bite/internal/adapters/tui/styles"
	"bite/internal/application"
	"bite/internal/application/commands"
	"bite/internal/domain"
)

// ImagesKeyMap defines key bindings for the images view
type ImagesKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Open     key.Binding
	RateUp   key.Binding
	RateDown key.Binding
	Unassign key.Binding
	Back     key.Binding
}

var ImagesKeys = ImagesKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("l", "right", "pgdown"),
		key.WithHelp("l/→", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("h", "left", "pgup"),
		key.WithHelp("h/←", "prev page"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter", "o"),
		key.WithHelp("enter", "open"),
	),
	RateUp: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "rate up"),
	),
	RateDown: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "rate down"),
	),
	Unassign: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "unassign"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "back"),
	),
}

const imagesPerPage = 15

// ImagesModel lists the images bearing one tag
type ImagesModel struct {
	ViewState
	session *application.Session
	tag     *domain.TreeNode
	images  []*commands.ImageDetails
	pages   paginator.Model
	cursor  int
}

// NewImagesModel creates a new images view model
func NewImagesModel(session *application.Session) *ImagesModel {
	pages := paginator.New()
	pages.Type = paginator.Arabic
	pages.PerPage = imagesPerPage
	return &ImagesModel{
		session: session,
		pages:   pages,
	}
}

// SetTag selects the tag whose images are listed and loads them
func (m *ImagesModel) SetTag(node *domain.TreeNode) tea.Cmd {
	m.tag = node
	m.images = nil
	m.cursor = 0
	m.pages.Page = 0
	m.ClearMessage()
	return m.load
}

type imagesLoadedMsg struct {
	images []*commands.ImageDetails
}

type imageUpdatedMsg struct {
	message string
}

func (m *ImagesModel) load() tea.Msg {
	ctx := context.Background()
	hashes, err := commands.NewListImagesCommand(m.session, m.tag.Path).Execute(ctx)
	if err != nil {
		return errMsg{err}
	}
	images := make([]*commands.ImageDetails, 0, len(hashes))
	for _, hash := range hashes {
		details, err := commands.NewShowImageCommand(m.session, hash).Execute(ctx)
		if err != nil {
			return errMsg{err}
		}
		images = append(images, details)
	}
	return imagesLoadedMsg{images}
}

// Update handles messages for the images view
func (m *ImagesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case imagesLoadedMsg:
		m.images = msg.images
		m.pages.SetTotalPages(len(m.images))
		m.setCursor(m.cursor)
		return m, nil

	case imageUpdatedMsg:
		m.SetMessage(msg.message, false)
		return m, m.load

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, ImagesKeys.Back):
			return m, switchTo(SwitchToBrowserMsg{Focus: m.tag.Path})

		case key.Matches(msg, ImagesKeys.Up):
			m.setCursor(m.cursor - 1)

		case key.Matches(msg, ImagesKeys.Down):
			m.setCursor(m.cursor + 1)

		case key.Matches(msg, ImagesKeys.NextPage):
			m.setCursor(m.cursor + imagesPerPage)

		case key.Matches(msg, ImagesKeys.PrevPage):
			m.setCursor(m.cursor - imagesPerPage)

		case key.Matches(msg, ImagesKeys.Open):
			if img := m.selected(); img != nil {
				if len(img.Locations) == 0 {
					m.SetMessage(fmt.Sprintf("%s has no known location", img.Hash), true)
					return m, nil
				}
				return m, switchTo(OpenImageMsg{Location: img.Locations[0]})
			}

		case key.Matches(msg, ImagesKeys.RateUp), key.Matches(msg, ImagesKeys.RateDown):
			if img := m.selected(); img != nil {
				delta := 1
				if key.Matches(msg, ImagesKeys.RateDown) {
					delta = -1
				}
				return m, m.rate(img.Hash, img.Rating+delta)
			}

		case key.Matches(msg, ImagesKeys.Unassign):
			if img := m.selected(); img != nil {
				return m, m.unassign(img.Hash)
			}
		}
	}

	return m, nil
}

func (m *ImagesModel) rate(hash string, rating int) tea.Cmd {
	return func() tea.Msg {
		result, err := commands.NewRateImageCommand(m.session, hash, rating).Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return imageUpdatedMsg{result.Message}
	}
}

func (m *ImagesModel) unassign(hash string) tea.Cmd {
	path := m.tag.Path
	return func() tea.Msg {
		result, err := commands.NewUnassignCommand(m.session, hash, path).Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return imageUpdatedMsg{result.Message}
	}
}

// setCursor clamps pos to the list and turns to the page holding it
func (m *ImagesModel) setCursor(pos int) {
	pos = min(pos, len(m.images)-1)
	pos = max(pos, 0)
	m.cursor = pos
	m.pages.Page = pos / imagesPerPage
}

func (m *ImagesModel) selected() *commands.ImageDetails {
	if m.cursor >= 0 && m.cursor < len(m.images) {
		return m.images[m.cursor]
	}
	return nil
}

// View renders the images view
func (m *ImagesModel) View() string {
	if m.tag == nil {
		return ""
	}

	v := newScreen(fmt.Sprintf("Images tagged %s", RenderTag(m.tag.Path, m.tag.Type, false)))
	v.status(m.Message, m.MessageErr)

	if len(m.images) == 0 {
		v.muted("No images")
	} else {
		start, end := m.pages.GetSliceBounds(len(m.images))
		for i := start; i < end; i++ {
			v.add(m.renderImage(m.images[i], i == m.cursor))
		}
		if m.pages.TotalPages > 1 {
			v.gap().muted("page %s", m.pages.View())
		}
	}

	return v.gap().keys(
		ImagesKeys.Open, ImagesKeys.RateUp, ImagesKeys.RateDown, ImagesKeys.Unassign, ImagesKeys.Back,
	).String()
}

func (m *ImagesModel) renderImage(img *commands.ImageDetails, selected bool) string {
	stars := strings.Repeat("★", img.Rating) + strings.Repeat("☆", domain.MaxRating-img.Rating)
	text := fmt.Sprintf("%s %s", img.Hash, stars)
	if selected {
		text = styles.NodeSelected.Render(text)
	}
	location := "(no location)"
	if len(img.Locations) > 0 {
		location = img.Locations[0]
	}
	return fmt.Sprintf("%s  %s", text, styles.MutedText.Render(location))
}
