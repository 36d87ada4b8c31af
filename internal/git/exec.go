package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/chmouel/lazystatus/internal/log"
)

// LookupPath is used to find executables in PATH. It's exposed as a package variable
// so tests can mock it and avoid depending on system binaries being installed.
var LookupPath = exec.LookPath

// ExecSource runs the git binary in the repository directory.
type ExecSource struct {
	dir string
}

// NewExecSource returns a source running git in dir (current directory when empty).
func NewExecSource(dir string) *ExecSource {
	return &ExecSource{dir: dir}
}

// Name implements Source.
func (s *ExecSource) Name() string { return "exec" }

// Status implements Source. Paths git quoted are decoded so both sources
// report the same path for a file.
func (s *ExecSource) Status(ctx context.Context) (string, error) {
	out, err := s.run(ctx, "status", "--porcelain=v1", "--untracked-files=normal")
	if err != nil {
		return "", err
	}
	return unquoteStatusPaths(out), nil
}

// unquoteStatusPaths decodes C-style quoted paths in `XY PATH` lines,
// including both sides of a rename. Lines that do not decode are kept as is.
func unquoteStatusPaths(out string) string {
	if !strings.Contains(out, `"`) {
		return out
	}
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if len(line) < 4 || !strings.Contains(line[3:], `"`) {
			continue
		}
		parts := strings.Split(line[3:], " -> ")
		for j, part := range parts {
			parts[j] = unquotePath(part)
		}
		lines[i] = line[:3] + strings.Join(parts, " -> ")
	}
	return strings.Join(lines, "\n")
}

func unquotePath(path string) string {
	if len(path) < 2 || !strings.HasPrefix(path, `"`) || !strings.HasSuffix(path, `"`) {
		return path
	}
	decoded, err := strconv.Unquote(path)
	if err != nil || strings.ContainsAny(decoded, "\n\r") {
		return path
	}
	return decoded
}

// Branch implements Source.
func (s *ExecSource) Branch(ctx context.Context) string {
	// rev-parse fails before the first commit, symbolic-ref does not
	for _, args := range [][]string{
		{"rev-parse", "--abbrev-ref", "HEAD"},
		{"symbolic-ref", "--short", "HEAD"},
	} {
		if out, err := s.run(ctx, args...); err == nil {
			if branch := strings.TrimSpace(out); branch != "" {
				return branch
			}
		}
	}
	return ""
}

// WatchPaths returns the worktree root and the git dir.
func (s *ExecSource) WatchPaths(ctx context.Context) ([]string, error) {
	top, err := s.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, err
	}
	gitDir, err := s.run(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return nil, err
	}
	return []string{filepath.Clean(strings.TrimSpace(top)), filepath.Clean(strings.TrimSpace(gitDir))}, nil
}

func (s *ExecSource) run(ctx context.Context, args ...string) (string, error) {
	command := "git " + strings.Join(args, " ")
	log.Printf("run: %s (cwd=%s)", command, s.dir)

	if _, err := LookupPath("git"); err != nil {
		log.Printf("error: command not found: git")
		return "", fmt.Errorf("%w: git not found: %w", ErrStatusCommand, err)
	}

	// #nosec G204 -- arguments for git command come from internal logic and are not shell interpolated
	cmd := exec.CommandContext(ctx, "git", args...)
	if s.dir != "" {
		cmd.Dir = s.dir
	}

	output, err := cmd.Output()
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			suffix := fmt.Sprintf(" (exit %d)", exitError.ExitCode())
			if stderr := strings.TrimSpace(string(exitError.Stderr)); stderr != "" {
				suffix = ": " + stderr
			}
			log.Printf("error: %s%s", command, suffix)
			return "", fmt.Errorf("%w: %s%s", ErrStatusCommand, command, suffix)
		}
		log.Printf("error: %s: %v", command, err)
		return "", fmt.Errorf("%w: %s: %w", ErrStatusCommand, command, err)
	}

	log.Printf("ok: %s", command)
	return string(output), nil
}
