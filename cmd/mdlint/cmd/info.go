package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mdlint/internal/application"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show store bookkeeping",
	Long:  `Print when the store was created, when a run last completed, the last run id and how many files are tracked.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(false)
		if err != nil {
			return &application.StoreInitError{Path: cfg.Database, Err: err}
		}
		defer store.Close()

		meta, err := store.Metadata()
		if err != nil {
			return err
		}
		files, err := store.ListFiles()
		if err != nil {
			return err
		}

		lastRun := meta.LastRunID
		if lastRun == "" {
			lastRun = "never"
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "store:       %s\n", cfg.Database)
		fmt.Fprintf(out, "created:     %s\n", meta.Created.Local().Format(time.DateTime))
		fmt.Fprintf(out, "last update: %s\n", meta.LastUpdate.Local().Format(time.DateTime))
		fmt.Fprintf(out, "last run:    %s\n", lastRun)
		fmt.Fprintf(out, "files:       %d\n", len(files))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
