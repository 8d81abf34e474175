// Package uuidsrc provides the injectable UUID and timestamp sources the
// renderer uses for MessageRefId and DocRefId (spec §9's "injectable so
// tests can pin output byte-for-byte"), the same seam smallbiznis-valora's
// auth service takes for its token IDs.
package uuidsrc

import (
	"time"

	"github.com/google/uuid"
)

// Source produces the identifiers and timestamps a rendering run needs.
// The default Source wraps google/uuid and time.Now; tests substitute a
// Fixed to get byte-for-byte reproducible output.
type Source interface {
	NewUUID() string
	Now() time.Time
}

// Default is the production Source: random v4 UUIDs, wall-clock time.
type Default struct{}

// NewUUID returns a new random UUID v4 string.
func (Default) NewUUID() string { return uuid.NewString() }

// Now returns the current time.
func (Default) Now() time.Time { return time.Now() }

// Fixed is a deterministic Source for tests: it replays a fixed UUID
// sequence (cycling if exhausted) and a fixed clock.
type Fixed struct {
	UUIDs []string
	Clock time.Time
	next  int
}

// NewUUID returns the next UUID in the fixed sequence, cycling once
// exhausted so a test fixture need not list one per call site.
func (f *Fixed) NewUUID() string {
	if len(f.UUIDs) == 0 {
		return "00000000-0000-4000-8000-000000000000"
	}
	u := f.UUIDs[f.next%len(f.UUIDs)]
	f.next++
	return u
}

// Now returns the fixed clock value.
func (f *Fixed) Now() time.Time { return f.Clock }
