package ports

import "os/exec"

// ImageOpener defines the interface for showing an image in an external viewer
type ImageOpener interface {
	// Open shows the image file at path
	Open(path string) error

	// Command returns an exec.Cmd for opening the image
	// This is useful for integrating with bubbletea's ExecProcess
	Command(path string) (*exec.Cmd, error)
}
