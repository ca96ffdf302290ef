package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saucynandhu/femicideKEanalysis/internal/config"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitSkipped = 2
)

// exitError carries a process exit code through cobra's error return.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// flags holds the command line overrides applied on top of the loaded configuration
type flags struct {
	configFile string
	input      string
	output     string
	sheet      string
	logLevel   string
	strict     bool
	dayFirst   bool
	noWorkbook bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the root command with args and maps its outcome to an exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(stderr, "Error:", ee.err)
		}
		return ee.code
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitFailure
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Clean a femicide case sheet and produce summary charts",
		Long: `femstats loads a spreadsheet of reported femicide cases, normalizes and
cleans it, and writes charts, a cleaned CSV and a summary workbook into the
output directory.

Configuration is layered: built-in defaults, then a YAML file, then
FEMSTATS_* environment variables, then the flags below.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd.Context(), f, cmd.Flags().Changed, stdout, stderr)
		},
	}

	pf := root.Flags()
	pf.StringVarP(&f.configFile, "config", "c", "", "path to a YAML config file")
	pf.StringVarP(&f.input, "input", "i", "", "case spreadsheet (.xlsx or .csv)")
	pf.StringVarP(&f.output, "output", "o", "", "directory for charts and exports")
	pf.StringVar(&f.sheet, "sheet", "", "worksheet to read (default: first sheet)")
	pf.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&f.strict, "strict", false, "exit with status 2 when any step is skipped")
	pf.BoolVar(&f.dayFirst, "day-first", false, "read ambiguous numeric dates as day/month")
	pf.BoolVar(&f.noWorkbook, "no-workbook", false, "skip the summary workbook")

	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", config.AppName, config.AppVersion)
		},
	}
}

// applyFlags overlays the flags the user actually set onto cfg.
func applyFlags(cfg *config.Config, f *flags, changed func(string) bool) {
	if changed("input") {
		cfg.Paths.InputFile = f.input
	}
	if changed("output") {
		cfg.Paths.OutputDir = f.output
	}
	if changed("sheet") {
		cfg.Paths.SheetName = f.sheet
	}
	if changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if changed("strict") {
		cfg.Reports.Strict = f.strict
	}
	if changed("day-first") {
		cfg.Cleaning.DayFirst = f.dayFirst
	}
	if changed("no-workbook") {
		cfg.Reports.SummaryWorkbook = !f.noWorkbook
	}
}
