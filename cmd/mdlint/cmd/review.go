package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"mdlint/internal/adapters/editor"
	"mdlint/internal/adapters/tui"
	"mdlint/internal/application"
	"mdlint/internal/domain"
)

var reviewCmd = &cobra.Command{
	Use:   "review [source]",
	Short: "Browse findings interactively",
	Long: `Run a lint pass and browse the findings.

Enter opens the file in $EDITOR at the finding's line, y copies file:line
to the clipboard, f filters by kind and r re-runs the lint.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := sourceArg(args)

		ws, err := newSource().Enumerate(source)
		if err != nil {
			return &application.DiscoveryError{Path: source, Err: err}
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		load := func() ([]domain.Finding, error) {
			result, err := runLint(ctx, source, false)
			if err != nil {
				return nil, err
			}
			return result.Findings(), nil
		}

		return tui.Run(tui.NewApp(load, editor.NewOpener(), ws.Dir))
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}
