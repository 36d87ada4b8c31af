package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const gitConfigPrefix = "lazystatus."

// gitConfigMock allows tests to mock git config output.
var gitConfigMock func(args []string, repoPath string) (string, error)

// runGitConfig executes git config command and returns raw output.
func runGitConfig(args []string, repoPath string) (string, error) {
	if gitConfigMock != nil {
		return gitConfigMock(args, repoPath)
	}

	cmd := exec.Command("git", args...)
	if repoPath != "" {
		cmd.Dir = repoPath
	}

	output, err := cmd.Output()
	if err != nil {
		// git config returns exit code 1 when key not found (not an error)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return string(output), nil
}

// parseGitConfigOutput parses "lazystatus.key value" lines. Later values for
// the same key win.
func parseGitConfigOutput(output string) map[string]any {
	result := make(map[string]any)
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}
		// values may contain spaces
		key, value, ok := strings.Cut(line, " ")
		if !ok {
			// boolean keys set without a value
			key, value = line, "true"
		}
		// git forbids "_" in variable names, so skip-unknown means skip_unknown
		key = strings.ReplaceAll(strings.TrimPrefix(key, gitConfigPrefix), "-", "_")
		result[key] = value
	}
	return result
}

// loadGitConfig reads git config values and returns a map for applyValues.
func loadGitConfig(globalOnly bool, repoPath string) (map[string]any, error) {
	args := []string{"config", "--get-regexp", `^lazystatus\.`}
	if globalOnly {
		args = append(args, "--global")
	} else {
		args = append(args, "--local")
	}

	output, err := runGitConfig(args, repoPath)
	if err != nil {
		return nil, err
	}
	return parseGitConfigOutput(output), nil
}

// isInGitRepo checks if path is in a git repository.
func isInGitRepo(path string) bool {
	if path == "" {
		return false
	}
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = path
	return cmd.Run() == nil
}

// determineRepoPath returns repo path for local git config lookup.
func determineRepoPath(repo string) string {
	if repo != "" && isInGitRepo(repo) {
		return repo
	}
	if wd, err := os.Getwd(); err == nil && isInGitRepo(wd) {
		return wd
	}
	return ""
}

// parseCLIConfigOverrides parses --config=ls.key=value format.
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	result := make(map[string]any)
	for _, override := range overrides {
		fullKey, value, ok := strings.Cut(override, "=")
		if !ok {
			return nil, fmt.Errorf("invalid config override: %q, expected format: ls.key=value (note: use = not space)", override)
		}
		if !strings.HasPrefix(fullKey, "ls.") {
			return nil, fmt.Errorf("config override key must start with 'ls.': %q", fullKey)
		}
		key := strings.TrimPrefix(fullKey, "ls.")
		if key == "" {
			return nil, fmt.Errorf("empty config key in override: %q", override)
		}
		result[key] = value
	}
	return result, nil
}
