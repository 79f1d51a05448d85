package viewer

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"bite/internal/ports"
)

// EnvViewer names the environment variable selecting the image viewer
const EnvViewer = "BITE_VIEWER"

// Opener implements ports.ImageOpener
type Opener struct {
	goos   string
	getenv func(string) string
}

// Ensure Opener implements ImageOpener
var _ ports.ImageOpener = (*Opener)(nil)

// NewOpener creates a new image opener
func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS, getenv: os.Getenv}
}

// Open shows an image location in the viewer and waits for the viewer
// process to return
func (o *Opener) Open(location string) error {
	cmd, err := o.Command(location)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening an image location. Local files must
// exist; URLs are handed to the viewer unchecked.
func (o *Opener) Command(location string) (*exec.Cmd, error) {
	if !strings.Contains(location, "://") {
		if _, err := os.Stat(location); err != nil {
			return nil, fmt.Errorf("cannot open image: %w", err)
		}
	}

	argv, err := o.viewerCommand()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(argv[0], append(argv[1:], location)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// viewerCommand returns the program and leading arguments of the viewer
func (o *Opener) viewerCommand() ([]string, error) {
	// $BITE_VIEWER may carry arguments, e.g. "feh --scale-down"
	if viewer := strings.Fields(o.getenv(EnvViewer)); len(viewer) > 0 {
		return viewer, nil
	}

	switch o.goos {
	case "darwin":
		return []string{"open"}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return []string{"xdg-open"}, nil
	case "windows":
		return []string{"cmd", "/c", "start", ""}, nil
	default:
		return nil, fmt.Errorf("no viewer for %s: set $%s", o.goos, EnvViewer)
	}
}
