package ports

import "os/exec"

// EditorOpener defines the interface for opening a finding in an external editor
type EditorOpener interface {
	// OpenFile opens the file at the given line (line <= 0 means the top)
	// It uses $EDITOR, then $VISUAL, falling back to common editors
	OpenFile(path string, line int) error

	// Command returns an exec.Cmd for opening a file in the editor
	// This is useful for integrating with bubbletea's ExecProcess
	Command(path string, line int) (*exec.Cmd, error)
}
