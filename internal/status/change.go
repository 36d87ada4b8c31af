package status

import "fmt"

// FileChange is one parsed status entry. It is immutable once constructed.
type FileChange struct {
	kind ChangeKind
	path string
}

// NewFileChange builds a FileChange, rejecting invalid kinds and empty paths.
func NewFileChange(kind ChangeKind, path string) (FileChange, error) {
	if !kind.Valid() {
		return FileChange{}, fmt.Errorf("invalid change kind %d", int(kind))
	}
	if path == "" {
		return FileChange{}, fmt.Errorf("empty path for %s change", kind)
	}
	return FileChange{kind: kind, path: path}, nil
}

// Kind returns the change kind.
func (c FileChange) Kind() ChangeKind { return c.kind }

// Path returns the path exactly as it appeared after the separator.
func (c FileChange) Path() string { return c.path }

// String renders the change back into its porcelain line form.
func (c FileChange) String() string {
	return c.kind.Code() + " " + c.path
}
