package app

import "github.com/chmouel/lazystatus/internal/git"

type (
	errMsg    struct{ err error }
	statusMsg struct {
		snap *git.Snapshot
		err  error
	}
	refreshTickMsg struct{ gen int }
	fsChangedMsg   struct{}
)
