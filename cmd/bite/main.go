package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"bite/internal/adapters/tui"
	"bite/internal/adapters/viewer"
	"bite/internal/bootstrap"
	"bite/internal/config"
)

func main() {
	env, err := bootstrap.Open(config.DataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	// Create and run TUI app
	app := tui.NewApp(env.Session, viewer.NewOpener())

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		env.Close()
		os.Exit(1)
	}
}
