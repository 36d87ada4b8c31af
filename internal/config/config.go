// Package config loads application configuration from YAML, git config and
// command line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazystatus/internal/status"
	"github.com/chmouel/lazystatus/internal/theme"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Status sources.
const (
	SourceExec   = "exec"
	SourceGoGit  = "go-git"
	SourceSample = "sample"
)

// DefaultRefreshInterval is the refresh period in seconds.
const DefaultRefreshInterval = 5

// AppConfig defines the global lazystatus configuration options.
type AppConfig struct {
	Theme           string            `validate:"omitempty,oneof=dracula dracula-light nord gruvbox-dark classic"`
	Source          string            `validate:"oneof=exec go-git sample"`
	Repo            string            // Repository path; empty means the current directory
	RefreshInterval int               `validate:"gte=0"` // Seconds between refreshes, 0 disables the timer
	AutoRefresh     bool              // Refresh when files under the repository change
	ShowIcons       bool              // Render Nerd Font icons next to paths (default: true)
	SkipUnknown     bool              // Skip status lines with unrecognized codes instead of failing
	DebugLog        string
	StatusTimeout   int               `validate:"gt=0"` // Seconds before a status invocation is abandoned
	Colors          map[string]string `validate:"dive,keys,required,endkeys,hexcolor"`
}

var validate = validator.New()

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Theme:           "",
		Source:          SourceExec,
		RefreshInterval: DefaultRefreshInterval,
		AutoRefresh:     false,
		ShowIcons:       true,
		SkipUnknown:     false,
		StatusTimeout:   10,
		Colors:          map[string]string{},
	}
}

// RefreshDuration returns the refresh interval, clamped to at least a second.
// Zero disables periodic refresh.
func (c *AppConfig) RefreshDuration() time.Duration {
	if c.RefreshInterval <= 0 {
		return 0
	}
	return time.Duration(c.RefreshInterval) * time.Second
}

// StatusTimeoutDuration returns the per-invocation timeout.
func (c *AppConfig) StatusTimeoutDuration() time.Duration {
	if c.StatusTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.StatusTimeout) * time.Second
}

// Validate checks field constraints and color keys.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: invalid value %q (%s)", fe.Namespace(), fmt.Sprint(fe.Value()), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.KindColorOverrides(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// KindColorOverrides resolves the colors map into change kinds.
func (c *AppConfig) KindColorOverrides() (map[status.ChangeKind]string, error) {
	if len(c.Colors) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(c.Colors))
	for name := range c.Colors {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[status.ChangeKind]string, len(c.Colors))
	for _, name := range names {
		kind, ok := status.KindForName(name)
		if !ok {
			return nil, fmt.Errorf("unknown change kind %q in colors", name)
		}
		out[kind] = c.Colors[name]
	}
	return out, nil
}

// ResolveTheme returns the configured theme with color overrides applied.
func (c *AppConfig) ResolveTheme() (*theme.Theme, error) {
	overrides, err := c.KindColorOverrides()
	if err != nil {
		return nil, err
	}
	return theme.GetTheme(c.Theme).WithOverrides(overrides)
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return defaultVal
	case int:
		return v
	case float64:
		return int(v)
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return defaultVal
		}
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
		if d, err := time.ParseDuration(text); err == nil {
			return int(d / time.Second)
		}
	}
	return defaultVal
}

func coerceString(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func parseColors(value any) map[string]string {
	out := map[string]string{}
	switch v := value.(type) {
	case map[string]any:
		for key, raw := range v {
			if s, ok := coerceString(raw); ok {
				out[strings.TrimSpace(key)] = s
			}
		}
	case map[string]string:
		for key, raw := range v {
			if s := strings.TrimSpace(raw); s != "" {
				out[strings.TrimSpace(key)] = s
			}
		}
	}
	return out
}

// applyValues layers the keys present in data onto cfg.
func applyValues(cfg *AppConfig, data map[string]any) {
	if cfg.Colors == nil {
		cfg.Colors = map[string]string{}
	}
	if name, ok := coerceString(data["theme"]); ok {
		cfg.Theme = NormalizeThemeName(name)
		if cfg.Theme == "" {
			cfg.Theme = name // rejected by Validate
		}
	}
	if source, ok := coerceString(data["source"]); ok {
		cfg.Source = strings.ToLower(source)
	}
	if repo, ok := coerceString(data["repo"]); ok {
		cfg.Repo = repo
	}
	if debugLog, ok := coerceString(data["debug_log"]); ok {
		cfg.DebugLog = debugLog
	}
	if _, ok := data["refresh_interval"]; ok {
		cfg.RefreshInterval = coerceInt(data["refresh_interval"], cfg.RefreshInterval)
	}
	if _, ok := data["status_timeout"]; ok {
		cfg.StatusTimeout = coerceInt(data["status_timeout"], cfg.StatusTimeout)
	}
	cfg.AutoRefresh = coerceBool(data["auto_refresh"], cfg.AutoRefresh)
	cfg.ShowIcons = coerceBool(data["show_icons"], cfg.ShowIcons)
	cfg.SkipUnknown = coerceBool(data["skip_unknown"], cfg.SkipUnknown)

	if raw, ok := data["colors"]; ok {
		for k, v := range parseColors(raw) {
			cfg.Colors[k] = v
		}
	}
	// flattened form used by git config and CLI overrides: colors.deleted=#ff0000
	for key, raw := range data {
		name, found := strings.CutPrefix(key, "colors.")
		if !found {
			continue
		}
		if s, ok := coerceString(raw); ok {
			cfg.Colors[name] = s
		}
	}
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()
	applyValues(cfg, data)
	return cfg
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// detectDarkBackground is replaced in tests to avoid querying the terminal.
var detectDarkBackground = lipgloss.HasDarkBackground

// LoadConfig reads the YAML configuration, then layers global and
// repository git config (lazystatus.* keys) on top.
func LoadConfig(configPath string) (*AppConfig, error) {
	configBase := filepath.Clean(filepath.Join(getConfigDir(), "lazystatus"))

	var paths []string
	if configPath != "" {
		expanded, err := ExpandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		paths = []string{expanded}
	} else {
		paths = []string{
			filepath.Join(configBase, "config.yaml"),
			filepath.Join(configBase, "config.yml"),
		}
	}

	cfg := DefaultConfig()
	for _, path := range paths {
		// #nosec G304 -- path comes from the user's own flag or config dir
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) && configPath == "" {
				continue
			}
			return DefaultConfig(), fmt.Errorf("read config %s: %w", path, err)
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
		}
		applyValues(cfg, yamlData)
		break
	}

	if global, err := loadGitConfig(true, ""); err == nil {
		applyValues(cfg, global)
	}
	if repoPath := determineRepoPath(cfg.Repo); repoPath != "" {
		if local, err := loadGitConfig(false, repoPath); err == nil {
			applyValues(cfg, local)
		}
	}

	if cfg.Theme == "" {
		if detectDarkBackground() {
			cfg.Theme = theme.DraculaName
		} else {
			cfg.Theme = theme.DraculaLightName
		}
	}

	return cfg, nil
}

// ApplyCLIOverrides applies --config=ls.key=value overrides.
func (c *AppConfig) ApplyCLIOverrides(overrides []string) error {
	data, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}
	applyValues(c, data)
	return nil
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}

// NormalizeThemeName returns the canonical theme name if it is supported.
func NormalizeThemeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, known := range theme.AvailableThemes() {
		if name == known {
			return name
		}
	}
	return ""
}
