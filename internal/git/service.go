package git

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/chmouel/lazystatus/internal/log"
	"github.com/chmouel/lazystatus/internal/status"
)

const defaultTimeout = 10 * time.Second

// Snapshot is one collected status report.
type Snapshot struct {
	Source  string
	Branch  string
	Changes []status.FileChange
	Skipped []*status.LineError
	TakenAt time.Time
}

// Service collects and parses status from a Source.
type Service struct {
	source      Source
	skipUnknown bool
	timeout     time.Duration
	now         func() time.Time
}

// NewService constructs a Service for source.
func NewService(source Source) *Service {
	return &Service{
		source:  source,
		timeout: defaultTimeout,
		now:     time.Now,
	}
}

// SetSkipUnknown makes Collect skip unrecognized lines instead of failing.
func (s *Service) SetSkipUnknown(skip bool) {
	s.skipUnknown = skip
}

// SetTimeout bounds each Collect call. Non-positive values restore the default.
func (s *Service) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = defaultTimeout
	}
	s.timeout = d
}

// Source returns the underlying source.
func (s *Service) Source() Source {
	return s.source
}

// Collect runs the source once and parses its output.
func (s *Service) Collect(ctx context.Context) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.source.Status(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Source:  s.source.Name(),
		TakenAt: s.now(),
	}
	if s.skipUnknown {
		changes, skipped, err := status.ParseLenient(strings.NewReader(raw))
		if err != nil {
			return nil, err
		}
		for _, le := range skipped {
			log.Printf("skipped: %v", le)
		}
		snap.Changes, snap.Skipped = changes, skipped
	} else {
		changes, err := status.Parse(raw)
		if err != nil {
			log.Printf("error: %s: %v", s.source.Name(), err)
			return nil, fmt.Errorf("parse %s status: %w", s.source.Name(), err)
		}
		snap.Changes = changes
	}
	snap.Branch = s.source.Branch(ctx)
	log.Printf("collected %d changes from %s", len(snap.Changes), snap.Source)
	return snap, nil
}
