package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"bite/internal/adapters/tui/styles"
	"bite/internal/application"
	"bite/internal/application/commands"
	"bite/internal/domain"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Enter  key.Binding
	Images key.Binding
	Assign key.Binding
	Type   key.Binding
	Remove key.Binding
	Prune  key.Binding
	Search key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	Images: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "images"),
	),
	Assign: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "assign"),
	),
	Type: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "cycle type"),
	),
	Remove: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "remove"),
	),
	Prune: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "prune"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowserModel is the model for the tag tree view
type BrowserModel struct {
	ViewState
	session   *application.Session
	root      *domain.TreeNode
	flatNodes []*domain.TreeNode
	cursor    int

	// restored after a reload
	expanded map[string]bool
	focus    string
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(session *application.Session) *BrowserModel {
	return &BrowserModel{
		session:  session,
		expanded: make(map[string]bool),
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadTree
}

func (m *BrowserModel) loadTree() tea.Msg {
	root, err := commands.NewBuildTreeCommand(m.session).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return treeLoadedMsg{root}
}

type treeLoadedMsg struct {
	root *domain.TreeNode
}

type successMsg struct {
	message string
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case treeLoadedMsg:
		m.setRoot(msg.root)
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case successMsg:
		m.SetMessage(msg.message, false)
		return m, m.Reload()

	case tea.KeyMsg:
		m.ClearMessage()

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Down):
			if m.cursor < len(m.flatNodes)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Left):
			if node := m.selectedNode(); node != nil {
				if node.IsExpanded {
					node.Collapse()
					m.refreshFlatNodes()
				} else if node.Parent != nil && node.Parent.Type != domain.TagTypeRoot {
					m.selectPath(node.Parent.Path)
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Right), key.Matches(msg, BrowserKeys.Enter):
			if node := m.selectedNode(); node != nil && !node.IsLeaf() {
				if !node.IsExpanded {
					node.Expand()
				} else if key.Matches(msg, BrowserKeys.Enter) {
					node.Collapse()
				}
				m.refreshFlatNodes()
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Images):
			if node := m.selectedNode(); node != nil {
				return m, switchTo(SwitchToImagesMsg{Node: node})
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Assign):
			return m, switchTo(SwitchToAssignMsg{Node: m.selectedNode()})

		case key.Matches(msg, BrowserKeys.Type):
			if node := m.selectedNode(); node != nil {
				return m, m.cycleType(node)
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Remove):
			if node := m.selectedNode(); node != nil {
				return m, switchTo(SwitchToRemoveMsg{Node: node})
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Prune):
			return m, m.prune

		case key.Matches(msg, BrowserKeys.Search):
			return m, switchTo(SwitchToSearchMsg{})

		case key.Matches(msg, BrowserKeys.Help):
			return m, switchTo(SwitchToHelpMsg{})
		}
	}

	return m, nil
}

// nextType is the type a tag takes when cycled: Regular, Category,
// Modifier, Interaction and back
func nextType(t domain.TagType) domain.TagType {
	switch t {
	case domain.TagTypeRegular:
		return domain.TagTypeCategory
	case domain.TagTypeCategory:
		return domain.TagTypeModifier
	case domain.TagTypeModifier:
		return domain.TagTypeInteraction
	default:
		return domain.TagTypeRegular
	}
}

func (m *BrowserModel) cycleType(node *domain.TreeNode) tea.Cmd {
	typ := nextType(node.Type)
	path := node.Path
	return func() tea.Msg {
		result, err := commands.NewChangeTypeCommand(m.session, path, typ).Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return successMsg{result.Message}
	}
}

func (m *BrowserModel) prune() tea.Msg {
	result, err := commands.NewPruneCommand(m.session).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return successMsg{result.Message}
}

func (m *BrowserModel) selectedNode() *domain.TreeNode {
	if m.cursor >= 0 && m.cursor < len(m.flatNodes) {
		return m.flatNodes[m.cursor]
	}
	return nil
}

// SelectedPath returns the path of the tag under the cursor
func (m *BrowserModel) SelectedPath() string {
	if node := m.selectedNode(); node != nil {
		return node.Path
	}
	return ""
}

func (m *BrowserModel) setRoot(root *domain.TreeNode) {
	m.root = root
	root.Walk(func(n *domain.TreeNode) {
		if m.expanded[n.Path] && n.Type != domain.TagTypeRoot {
			n.Expand()
		}
	})
	m.refreshFlatNodes()
	if m.focus != "" {
		m.Focus(m.focus)
		m.focus = ""
	}
}

// Focus expands the tree down to path and moves the cursor onto it
func (m *BrowserModel) Focus(path string) {
	if m.root == nil {
		m.focus = path
		return
	}
	node := m.root.Find(path)
	if node == nil {
		return
	}
	node.ExpandTo()
	m.refreshFlatNodes()
	m.selectPath(path)
}

func (m *BrowserModel) selectPath(path string) {
	for i, n := range m.flatNodes {
		if n.Path == path {
			m.cursor = i
			return
		}
	}
}

func (m *BrowserModel) refreshFlatNodes() {
	if m.root == nil {
		return
	}
	m.flatNodes = m.root.Flatten()
	// Skip root node in display
	if len(m.flatNodes) > 0 {
		m.flatNodes = m.flatNodes[1:]
	}
	// Clamp cursor
	if m.cursor >= len(m.flatNodes) {
		m.cursor = len(m.flatNodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the browser
func (m *BrowserModel) View() string {
	if m.root == nil {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render("bite"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d tags", m.countTags())))
	b.WriteString("\n\n")

	if len(m.flatNodes) == 0 {
		b.WriteString(styles.MutedText.Render("No tags yet. Press a to assign one."))
		b.WriteString("\n")
	}
	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		b.WriteString(m.renderNode(m.flatNodes[i], i == m.cursor))
		b.WriteString("\n")
	}

	if m.Message != "" {
		b.WriteString("\n")
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
	}

	b.WriteString("\n")
	b.WriteString(RenderHelpLine(
		BrowserKeys.Right, BrowserKeys.Images, BrowserKeys.Assign, BrowserKeys.Type,
		BrowserKeys.Search, BrowserKeys.Help, BrowserKeys.Quit,
	))

	return styles.App.Render(b.String())
}

// visibleRange returns the slice of flatNodes to draw, scrolled so the
// cursor stays on screen
func (m *BrowserModel) visibleRange() (start, end int) {
	rows := m.Height - 9
	start, end = 0, len(m.flatNodes)
	if rows > 0 && end > rows {
		start = max(0, m.cursor-rows/2)
		end = min(len(m.flatNodes), start+rows)
		start = max(0, end-rows)
	}
	return start, end
}

func (m *BrowserModel) countTags() int {
	count := -1 // root
	m.root.Walk(func(*domain.TreeNode) { count++ })
	return count
}

func (m *BrowserModel) renderNode(node *domain.TreeNode, selected bool) string {
	indent := strings.Repeat("  ", node.Depth())

	var prefix string
	switch {
	case node.IsLeaf():
		prefix = styles.TreeLeaf
	case node.IsExpanded:
		prefix = styles.TreeExpanded
	default:
		prefix = styles.TreeCollapsed
	}

	count := styles.NodeCount.Render(fmt.Sprintf(" (%d)", node.ImageCount))
	return fmt.Sprintf("%s%s%s%s", indent, styles.TreeBranch.Render(prefix), RenderTag(node.Name, node.Type, selected), count)
}

// ReloadAt rebuilds the tree and selects path afterwards
func (m *BrowserModel) ReloadAt(path string) tea.Cmd {
	m.focus = path
	return m.Reload()
}

// Reload rebuilds the tree, keeping expanded tags expanded and the cursor
// on the same tag when it still exists
func (m *BrowserModel) Reload() tea.Cmd {
	if m.root != nil {
		m.expanded = make(map[string]bool)
		m.root.Walk(func(n *domain.TreeNode) {
			if n.IsExpanded {
				m.expanded[n.Path] = true
			}
		})
		if m.focus == "" {
			m.focus = m.SelectedPath()
		}
	}
	m.root = nil
	m.flatNodes = nil
	return m.loadTree
}
