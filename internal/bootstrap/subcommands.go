package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/chmouel/lazystatus/internal/app"
	"github.com/chmouel/lazystatus/internal/config"
	"github.com/chmouel/lazystatus/internal/git"
	"github.com/chmouel/lazystatus/internal/log"
	"github.com/chmouel/lazystatus/internal/status"
	urfavecli "github.com/urfave/cli/v3"
	"golang.org/x/term"
)

var stdin io.Reader = os.Stdin

func listCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:   "list",
		Usage:  "Print the repository status once",
		Action: runList,
	}
}

func parseCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "parse",
		Usage:     "Parse porcelain status text from a file or stdin",
		ArgsUsage: "[file|-]",
		Action:    runParse,
	}
}

func sampleCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:   "sample",
		Usage:  "Print the built-in sample status",
		Action: runSample,
	}
}

func runList(ctx context.Context, cmd *urfavecli.Command) error {
	cfg, err := prepareConfig(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	svc, err := newStatusService(cfg)
	if err != nil {
		return err
	}
	snap, err := svc.Collect(ctx)
	if err != nil {
		return err
	}
	reportSkipped(cmd, snap.Skipped)
	return printChanges(cmd, cfg, snap.Changes)
}

func runParse(_ context.Context, cmd *urfavecli.Command) error {
	cfg, err := prepareConfig(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	var r io.Reader = stdin
	if name := cmd.Args().First(); name != "" && name != "-" {
		path, err := config.ExpandPath(name)
		if err != nil {
			return err
		}
		// #nosec G304 -- the user names the file to parse
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open status file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	changes, skipped, err := parseInput(r, cfg.SkipUnknown)
	if err != nil {
		return err
	}
	reportSkipped(cmd, skipped)
	return printChanges(cmd, cfg, changes)
}

func runSample(_ context.Context, cmd *urfavecli.Command) error {
	cfg, err := prepareConfig(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	changes, err := status.Parse(git.SampleStatus)
	if err != nil {
		return err
	}
	return printChanges(cmd, cfg, changes)
}

// prepareConfig opens the debug log and resolves the configuration.
func prepareConfig(cmd *urfavecli.Command) (*config.AppConfig, error) {
	if debugLog := cmd.String("debug-log"); debugLog != "" {
		setupDebugLog(debugLog)
	}
	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cmd.String("debug-log") == "" {
		setupDebugLog(cfg.DebugLog)
	}
	return cfg, nil
}

func parseInput(r io.Reader, skipUnknown bool) ([]status.FileChange, []*status.LineError, error) {
	if skipUnknown {
		return status.ParseLenient(r)
	}
	changes, err := status.ParseReader(r)
	return changes, nil, err
}

func reportSkipped(cmd *urfavecli.Command, skipped []*status.LineError) {
	w := cmd.Root().ErrWriter
	if w == nil {
		w = os.Stderr
	}
	for _, lerr := range skipped {
		fmt.Fprintf(w, "skipped: %v\n", lerr)
	}
}

// printChanges writes rows to the command writer, styled only on a terminal.
func printChanges(cmd *urfavecli.Command, cfg *config.AppConfig, changes []status.FileChange) error {
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	thm, err := cfg.ResolveTheme()
	if err != nil {
		return err
	}

	opts := app.RowOptions{Plain: true}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		opts = app.RowOptions{Icons: cfg.ShowIcons}
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			opts.Width = width
		}
	}

	out := app.RenderRows(changes, thm, opts)
	if out == "" {
		return nil
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
