package commands

// Result is returned by commands that only report a message
type Result struct {
	Message string
}
