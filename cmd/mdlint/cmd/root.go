package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"mdlint/internal/adapters/filesystem"
	"mdlint/internal/adapters/report"
	"mdlint/internal/adapters/sqlite"
	"mdlint/internal/application"
	"mdlint/internal/application/commands"
	"mdlint/internal/config"
	"mdlint/internal/ports"
)

// errFindings makes --strict exit with status 2
var errFindings = errors.New("findings reported")

var (
	configPath string
	dbPath     string
	toctree    string
	rootDoc    string
	verbose    bool
	update     bool
	strict     bool

	cfg     *config.Config
	logger  *log.Logger
	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "mdlint [source]",
	Short: "Lint a GitBook-style markdown book",
	Long: `mdlint checks a markdown book for broken internal links, links to
missing anchors, duplicate toctree entries and orphan files.

The source is the book directory, a single markdown file, or the path to
the toctree file (SUMMARY.md). It defaults to the current directory.
Results are kept in a local store so only changed files are re-parsed.

Exit status is 1 when the book cannot be read or the store cannot be
opened. With --strict it is 2 when any problem is found.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			logFile.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := runLint(cmd.Context(), sourceArg(args), update)
		if err != nil {
			return err
		}

		renderer := report.New(cmd.OutOrStdout(), cfg.Toctree)
		if verbose {
			err = renderer.Render(result)
		} else {
			err = renderer.Summary(result)
		}
		if err != nil {
			return err
		}

		if strict && !result.Clean() {
			return errFindings
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if errors.Is(err, errFindings) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.FileName+" if present)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDatabase, "path to the store file")
	rootCmd.PersistentFlags().StringVar(&toctree, "toctree", config.DefaultToctree, "name of the table of contents file")
	rootCmd.PersistentFlags().StringVar(&rootDoc, "root", config.DefaultRoot, "name of the book's root document, never reported as orphan")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print the full report and log every parsed file")
	rootCmd.Flags().BoolVarP(&update, "update", "u", false, "rebuild the store and re-parse every file")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "exit with status 2 when problems are found")
}

// setup loads the configuration, lets explicit flags win, and opens the log
func setup(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database = dbPath
	}
	if flags.Changed("toctree") {
		cfg.Toctree = toctree
	}
	if flags.Changed("root") {
		cfg.Root = rootDoc
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		logFile, err = os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		out = logFile
	}
	logger = log.New(out, "[mdlint] ", log.LstdFlags)

	return nil
}

func sourceArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

func newSource() *filesystem.Source {
	return filesystem.NewSource(cfg.Toctree, cfg.Include, cfg.Exclude)
}

func openStore(rebuild bool) (ports.GraphStore, error) {
	return sqlite.Open(cfg.Database, rebuild)
}

// runLint executes one full lint pass with the loaded configuration
func runLint(ctx context.Context, source string, force bool) (*application.LintResult, error) {
	lint := commands.NewLintCommand(newSource(), openStore, logger, commands.LintOptions{
		SourcePath: source,
		StorePath:  cfg.Database,
		Toctree:    cfg.Toctree,
		RootDoc:    cfg.Root,
		Force:      force,
		Verbose:    verbose,
	})
	return lint.Execute(ctx)
}
