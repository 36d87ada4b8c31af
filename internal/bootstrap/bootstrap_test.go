package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystatus/internal/app"
	"github.com/chmouel/lazystatus/internal/git"
	"github.com/chmouel/lazystatus/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	urfavecli "github.com/urfave/cli/v3"
)

// writeConfig writes a config file that pins theme and source so tests do
// not probe the terminal or run git.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewCommand()
	cmd.Writer = &stdout
	cmd.ErrWriter = &stderr
	err := cmd.Run(context.Background(), append([]string{"lazystatus"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestGlobalFlags(t *testing.T) {
	names := map[string]bool{}
	for _, f := range globalFlags() {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	for _, want := range []string{"repo", "r", "source", "theme", "t", "config-file", "config", "C", "debug-log", "skip-unknown", "refresh-interval", "no-icons"} {
		assert.True(t, names[want], "missing flag %q", want)
	}
}

func TestSampleCommand(t *testing.T) {
	cfgPath := writeConfig(t, "theme: classic\nsource: sample\n")

	out, _, err := runCLI(t, "--config-file", cfgPath, "sample")
	require.NoError(t, err)
	assert.Equal(t, git.SampleStatus, out)
}

func TestListCommandSampleSource(t *testing.T) {
	cfgPath := writeConfig(t, "theme: classic\nsource: exec\n")

	out, _, err := runCLI(t, "--config-file", cfgPath, "--source", "sample", "list")
	require.NoError(t, err)
	assert.Equal(t, git.SampleStatus, out)
}

func TestParseCommandFromFile(t *testing.T) {
	cfgPath := writeConfig(t, "theme: classic\nsource: sample\n")
	input := filepath.Join(t.TempDir(), "status.txt")
	require.NoError(t, os.WriteFile(input, []byte("?? src/awesome.rs\n D LICENSE\n"), 0o600))

	out, _, err := runCLI(t, "--config-file", cfgPath, "parse", input)
	require.NoError(t, err)
	assert.Equal(t, "?? src/awesome.rs\n D LICENSE\n", out)
}

func TestParseCommandFromStdin(t *testing.T) {
	cfgPath := writeConfig(t, "theme: classic\nsource: sample\n")
	orig := stdin
	stdin = strings.NewReader("MM both.go\n")
	t.Cleanup(func() { stdin = orig })

	out, _, err := runCLI(t, "--config-file", cfgPath, "parse", "-")
	require.NoError(t, err)
	assert.Equal(t, "MM both.go\n", out)
}

func TestParseCommandRejectsUnknownCode(t *testing.T) {
	cfgPath := writeConfig(t, "theme: classic\nsource: sample\n")
	orig := stdin
	stdin = strings.NewReader(" M ok.go\nR  a -> b\n")
	t.Cleanup(func() { stdin = orig })

	out, _, err := runCLI(t, "--config-file", cfgPath, "parse")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrMalformedStatusLine))
	assert.Empty(t, out)
}

func TestParseCommandSkipUnknown(t *testing.T) {
	cfgPath := writeConfig(t, "theme: classic\nsource: sample\n")
	orig := stdin
	stdin = strings.NewReader(" M ok.go\nR  a -> b\n")
	t.Cleanup(func() { stdin = orig })

	out, errOut, err := runCLI(t, "--config-file", cfgPath, "--skip-unknown", "parse")
	require.NoError(t, err)
	assert.Equal(t, " M ok.go\n", out)
	assert.Contains(t, errOut, "skipped:")
	assert.Contains(t, errOut, `unknown code "R "`)
}

func TestParseCommandMissingFile(t *testing.T) {
	cfgPath := writeConfig(t, "theme: classic\nsource: sample\n")

	_, _, err := runCLI(t, "--config-file", cfgPath, "parse", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open status file")
}

func TestUnknownThemeFlag(t *testing.T) {
	cfgPath := writeConfig(t, "theme: classic\nsource: sample\n")

	_, _, err := runCLI(t, "--config-file", cfgPath, "--theme", "solarized", "sample")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown theme "solarized"`)
}

func TestConfigOverrideValidation(t *testing.T) {
	cfgPath := writeConfig(t, "theme: classic\nsource: sample\n")

	_, _, err := runCLI(t, "--config-file", cfgPath, "-C", "ls.source=svn", "sample")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")

	_, _, err = runCLI(t, "--config-file", cfgPath, "-C", "source=svn", "sample")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error applying config overrides")
}

func TestLoadCLIConfigPrecedence(t *testing.T) {
	cfgPath := writeConfig(t, "theme: nord\nsource: exec\nrefresh_interval: 9\nshow_icons: true\n")

	var captured *urfavecli.Command
	cmd := NewCommand()
	cmd.Action = func(_ context.Context, c *urfavecli.Command) error {
		captured = c
		return nil
	}
	err := cmd.Run(context.Background(), []string{
		"lazystatus", "--config-file", cfgPath,
		"--source", "go-git", "--refresh-interval", "2", "--no-icons",
		"-C", "ls.source=sample",
	})
	require.NoError(t, err)
	require.NotNil(t, captured)

	cfg, err := loadCLIConfig(captured)
	require.NoError(t, err)
	assert.Equal(t, "nord", cfg.Theme)
	assert.Equal(t, "sample", cfg.Source)
	assert.Equal(t, 2, cfg.RefreshInterval)
	assert.False(t, cfg.ShowIcons)
}

func TestRunTUIUsesConfiguredService(t *testing.T) {
	cfgPath := writeConfig(t, "theme: classic\nsource: sample\nrefresh_interval: 0\n")

	var got tea.Model
	orig := runProgram
	runProgram = func(model tea.Model) error {
		got = model
		return nil
	}
	t.Cleanup(func() { runProgram = orig })

	_, _, err := runCLI(t, "--config-file", cfgPath)
	require.NoError(t, err)
	_, ok := got.(*app.Model)
	assert.True(t, ok)
}

func TestRunTUIPropagatesProgramError(t *testing.T) {
	cfgPath := writeConfig(t, "theme: classic\nsource: sample\n")

	orig := runProgram
	runProgram = func(tea.Model) error { return errors.New("no tty") }
	t.Cleanup(func() { runProgram = orig })

	_, _, err := runCLI(t, "--config-file", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error running app: no tty")
}

func TestDebugLogFlagWritesFile(t *testing.T) {
	cfgPath := writeConfig(t, "theme: classic\nsource: sample\n")
	logPath := filepath.Join(t.TempDir(), "debug.log")

	orig := runProgram
	runProgram = func(tea.Model) error { return nil }
	t.Cleanup(func() { runProgram = orig })

	_, _, err := runCLI(t, "--config-file", cfgPath, "--debug-log", logPath)
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "starting TUI: source=sample")
}
