// Package git collects porcelain status text from a repository and turns it
// into file changes.
package git

import (
	"context"
	"errors"
	"fmt"
)

// ErrStatusCommand is returned when a source cannot produce status output.
var ErrStatusCommand = errors.New("status command failed")

// SampleStatus is the fixed report shown by the sample source.
const SampleStatus = " D lorem\n A ipsum\n M dolor\n?? sit\n?? amet\nAM consecteur\nMM adipiscing\n"

// Source produces porcelain v1 status text for one repository.
type Source interface {
	// Name identifies the source in logs and the UI.
	Name() string
	// Status returns the raw `XY PATH` lines.
	Status(ctx context.Context) (string, error)
	// Branch returns the current branch, or "" when unknown.
	Branch(ctx context.Context) string
}

var (
	_ Source = (*ExecSource)(nil)
	_ Source = (*GoGitSource)(nil)
	_ Source = SampleSource{}
)

// SampleSource serves SampleStatus without touching the filesystem.
type SampleSource struct{}

// Name implements Source.
func (SampleSource) Name() string { return "sample" }

// Status implements Source.
func (SampleSource) Status(context.Context) (string, error) { return SampleStatus, nil }

// Branch implements Source.
func (SampleSource) Branch(context.Context) string { return "sample" }

// NewSource builds the source named by kind ("exec", "go-git" or "sample").
func NewSource(kind, repo string) (Source, error) {
	switch kind {
	case "", "exec":
		return NewExecSource(repo), nil
	case "go-git":
		return NewGoGitSource(repo), nil
	case "sample":
		return SampleSource{}, nil
	default:
		return nil, fmt.Errorf("unknown status source %q", kind)
	}
}
