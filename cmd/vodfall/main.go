package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/vodfall/internal/aggregate"
	"github.com/pders01/vodfall/internal/fetch"
	"github.com/pders01/vodfall/internal/media"
	"github.com/pders01/vodfall/internal/tui"
)

// Version is the version of the application, set at build time
var Version = "dev"

type options struct {
	configPath string
	dbPath     string
	logLevel   string
	quiet      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "vodfall [query]",
		Short:        "Search video sources and browse the results as a waterfall",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts, args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	pf.StringVar(&opts.dbPath, "db", "", "Path to preferences database (overrides config)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Debug log level: off, error, warn, info, debug")
	root.Flags().BoolVar(&opts.quiet, "quiet", false, "Skip startup banner")

	root.AddCommand(
		newVersionCmd(),
		newConfigCmd(),
		newSourcesCmd(opts),
		newDumpCmd(opts),
	)
	return root
}

func runTUI(cmd *cobra.Command, opts *options, args []string) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	if len(args) > 0 {
		e.cfg.Search.Query = strings.Join(args, " ")
	}
	if err := e.checkProxy(); err != nil {
		return err
	}

	if !opts.quiet {
		tui.ShowBanner(Version)
	}

	ctx := cmd.Context()
	session := aggregate.NewSession(e.registry, fetch.NewFetcher(e.cfg))
	app := tui.NewApp(ctx, e.cfg, session, media.NewLauncher(e.cfg))

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", tui.AppName, Version)
			fmt.Fprintln(out, tui.Tagline)
			fmt.Fprintln(out, "github.com/pders01/vodfall")
		},
	}
}
