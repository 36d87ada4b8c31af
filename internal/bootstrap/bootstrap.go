package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystatus/internal/app"
	"github.com/chmouel/lazystatus/internal/buildinfo"
	"github.com/chmouel/lazystatus/internal/config"
	"github.com/chmouel/lazystatus/internal/git"
	"github.com/chmouel/lazystatus/internal/log"
	"github.com/chmouel/lazystatus/internal/theme"
	urfavecli "github.com/urfave/cli/v3"
)

var runProgram = func(model tea.Model) error {
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// NewCommand builds the root command.
func NewCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:    "lazystatus",
		Usage:   "Show git working tree changes as colored rows",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*urfavecli.Command{
			listCommand(),
			parseCommand(),
			sampleCommand(),
		},
		Action: runTUI,
	}
}

// Run executes the command line.
func Run(ctx context.Context, args []string) error {
	return NewCommand().Run(ctx, args)
}

// runTUI is the default action that launches the TUI when no subcommand is given.
func runTUI(ctx context.Context, cmd *urfavecli.Command) error {
	cfg, err := prepareConfig(cmd)
	if err != nil {
		_ = log.Close()
		return err
	}

	thm, err := cfg.ResolveTheme()
	if err != nil {
		_ = log.Close()
		return err
	}
	svc, err := newStatusService(cfg)
	if err != nil {
		_ = log.Close()
		return err
	}
	log.Printf("starting TUI: source=%s repo=%q refresh=%s", cfg.Source, cfg.Repo, cfg.RefreshDuration())

	model := app.NewModel(cfg, thm, svc)
	err = runProgram(model)
	model.Close()
	if err != nil {
		_ = log.Close()
		return fmt.Errorf("error running app: %w", err)
	}

	if err := log.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing debug log: %v\n", err)
	}
	return nil
}

// setupDebugLog points the debug log at path; an empty path discards
// whatever was buffered so far.
func setupDebugLog(path string) {
	if path == "" {
		_ = log.SetFile("")
		return
	}
	if expanded, err := config.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := log.SetFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", path, err)
	}
}

// loadCLIConfig merges config file, flags and --config overrides, in that order.
func loadCLIConfig(cmd *urfavecli.Command) (*config.AppConfig, error) {
	cfg, err := config.LoadConfig(cmd.String("config-file"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if cmd.IsSet("repo") {
		repo, err := config.ExpandPath(cmd.String("repo"))
		if err != nil {
			return nil, fmt.Errorf("error expanding repo path: %w", err)
		}
		cfg.Repo = repo
	}
	if cmd.IsSet("source") {
		cfg.Source = cmd.String("source")
	}
	if cmd.IsSet("theme") {
		name := config.NormalizeThemeName(cmd.String("theme"))
		if name == "" {
			return nil, fmt.Errorf("unknown theme %q (available: %s)", cmd.String("theme"), strings.Join(theme.AvailableThemes(), ", "))
		}
		cfg.Theme = name
	}
	if cmd.IsSet("skip-unknown") {
		cfg.SkipUnknown = cmd.Bool("skip-unknown")
	}
	if cmd.IsSet("refresh-interval") {
		cfg.RefreshInterval = int(cmd.Int("refresh-interval"))
	}
	if cmd.Bool("no-icons") {
		cfg.ShowIcons = false
	}
	if debugLog := cmd.String("debug-log"); debugLog != "" {
		cfg.DebugLog = debugLog
	}

	if overrides := cmd.StringSlice("config"); len(overrides) > 0 {
		if err := cfg.ApplyCLIOverrides(overrides); err != nil {
			return nil, fmt.Errorf("error applying config overrides: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newStatusService builds the status service for the configured source.
func newStatusService(cfg *config.AppConfig) (*git.Service, error) {
	src, err := git.NewSource(cfg.Source, cfg.Repo)
	if err != nil {
		return nil, err
	}
	svc := git.NewService(src)
	svc.SetSkipUnknown(cfg.SkipUnknown)
	svc.SetTimeout(cfg.StatusTimeoutDuration())
	return svc, nil
}
