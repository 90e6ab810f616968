package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"mdlint/internal/adapters/tui/styles"
	"mdlint/internal/domain"
)

// RenderKeyHelp formats a key binding as help text (key + description)
func RenderKeyHelp(b key.Binding) string {
	help := b.Help()
	return fmt.Sprintf("%s %s",
		styles.HelpKey.Render(help.Key),
		styles.HelpDesc.Render(help.Desc),
	)
}

// RenderHelpLine renders multiple key bindings as a help line separated by bullets
func RenderHelpLine(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		parts = append(parts, RenderKeyHelp(b))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage renders a message with appropriate styling based on isError
func RenderMessage(message string, isError bool) string {
	if message == "" {
		return ""
	}
	if isError {
		return styles.ErrorMsg.Render(message)
	}
	return styles.Success.Render(message)
}

// RenderMuted renders muted/secondary text
func RenderMuted(text string) string {
	return styles.MutedText.Render(text)
}

// RenderFinding renders one finding row: kind, location, detail
func RenderFinding(f domain.Finding, selected bool) string {
	text := fmt.Sprintf("%-12s %s  %s", f.Kind, f.Location(), f.Detail)
	if selected {
		return styles.Selected.Render(text)
	}
	return styles.KindLabel.Foreground(styles.KindColor(f.Kind)).Render(f.Kind) + " " +
		styles.Location.Render(f.Location()) + "  " +
		styles.Detail.Render(f.Detail)
}
