package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/chmouel/lazystatus/internal/log"
	gogit "github.com/go-git/go-git/v6"
)

// GoGitSource reads status through go-git instead of the git binary.
type GoGitSource struct {
	dir string
}

// NewGoGitSource returns a source for the repository containing dir.
func NewGoGitSource(dir string) *GoGitSource {
	if dir == "" {
		dir = "."
	}
	return &GoGitSource{dir: dir}
}

// Name implements Source.
func (s *GoGitSource) Name() string { return "go-git" }

func (s *GoGitSource) open() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(s.dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStatusCommand, s.dir, err)
	}
	return repo, nil
}

// Status implements Source. Entries are rendered as porcelain v1 lines
// sorted by path, matching `git status --porcelain` ordering.
func (s *GoGitSource) Status(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	log.Printf("go-git: status (dir=%s)", s.dir)

	repo, err := s.open()
	if err != nil {
		log.Printf("error: %v", err)
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("%w: worktree: %w", ErrStatusCommand, err)
	}
	st, err := wt.Status()
	if err != nil {
		log.Printf("error: go-git status: %v", err)
		return "", fmt.Errorf("%w: status: %w", ErrStatusCommand, err)
	}
	return formatStatus(st), nil
}

func formatStatus(st gogit.Status) string {
	paths := make([]string, 0, len(st))
	for path := range st {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, path := range paths {
		fs := st[path]
		if fs.Staging == gogit.Unmodified && fs.Worktree == gogit.Unmodified {
			continue
		}
		name := path
		if fs.Staging == gogit.Renamed && fs.Extra != "" {
			name = fs.Extra + " -> " + path
		}
		b.WriteByte(byte(fs.Staging))
		b.WriteByte(byte(fs.Worktree))
		b.WriteByte(' ')
		b.WriteString(name)
		b.WriteByte('\n')
	}
	return b.String()
}

// Branch implements Source.
func (s *GoGitSource) Branch(context.Context) string {
	repo, err := s.open()
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	return head.Name().Short()
}

// WatchPaths returns the worktree root and its .git directory.
func (s *GoGitSource) WatchPaths(context.Context) ([]string, error) {
	repo, err := s.open()
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: worktree: %w", ErrStatusCommand, err)
	}
	root := wt.Filesystem.Root()
	paths := []string{root}
	gitDir := filepath.Join(root, ".git")
	if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
		paths = append(paths, gitDir)
	}
	return paths, nil
}
