package editor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"mdlint/internal/ports"
)

// Opener implements ports.EditorOpener
type Opener struct {
	getenv func(string) string
}

var _ ports.EditorOpener = (*Opener)(nil)

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{getenv: os.Getenv}
}

// OpenFile opens a file in the user's preferred editor
func (o *Opener) OpenFile(path string, line int) error {
	cmd, err := o.Command(path, line)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file in the editor
// This is useful for integrating with bubbletea's ExecProcess
func (o *Opener) Command(path string, line int) (*exec.Cmd, error) {
	editor := o.findEditor()
	if len(editor) == 0 {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	args := append(editor[1:], positionArgs(editor[0], path, line)...)
	cmd := exec.Command(editor[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// positionArgs places the cursor on line: "+N file" for vi-likes and nano, "-g file:N" for VS Code
func positionArgs(editor, path string, line int) []string {
	if line <= 0 {
		return []string{path}
	}
	switch filepath.Base(editor) {
	case "code", "codium":
		return []string{"-g", path + ":" + strconv.Itoa(line)}
	default:
		return []string{"+" + strconv.Itoa(line), path}
	}
}

// findEditor returns the editor command split into program and arguments
func (o *Opener) findEditor() []string {
	// Check $EDITOR first
	if editor := strings.Fields(o.getenv("EDITOR")); len(editor) > 0 {
		return editor
	}

	// Check $VISUAL
	if visual := strings.Fields(o.getenv("VISUAL")); len(visual) > 0 {
		return visual
	}

	// Try common editors
	editors := []string{"nvim", "vim", "vi", "nano", "code"}
	for _, editor := range editors {
		if path, err := exec.LookPath(editor); err == nil {
			return []string{path}
		}
	}

	return nil
}
