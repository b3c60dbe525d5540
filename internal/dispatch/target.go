package dispatch

import (
	"strings"
	"sync"
)

// Target holds the ordered candidate base addresses for one logical remote
// operation family, plus the last base that produced a response. The
// preferred pointer is an advisory cache: a stale or racing update only
// costs one extra failover attempt on a later call.
type Target struct {
	mu         sync.Mutex
	candidates []string
	preferred  string
}

// NewTarget builds a Target from candidate base addresses in priority order.
// Trailing slashes are stripped and duplicates removed; empty entries are
// skipped so optional relay addresses can be passed through unconditionally.
func NewTarget(candidates ...string) *Target {
	t := &Target{}
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		c = strings.TrimRight(c, "/")
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		t.candidates = append(t.candidates, c)
	}
	return t
}

// Candidates returns the bases to try, preferred base first.
func (t *Target) Candidates() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.preferred == "" {
		out := make([]string, len(t.candidates))
		copy(out, t.candidates)
		return out
	}

	out := make([]string, 0, len(t.candidates))
	out = append(out, t.preferred)
	for _, c := range t.candidates {
		if c != t.preferred {
			out = append(out, c)
		}
	}
	return out
}

// MarkGood records the base that last produced a response so subsequent
// calls try it first.
func (t *Target) MarkGood(base string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.preferred = base
}

// Preferred returns the current sticky base, or "" if none succeeded yet.
func (t *Target) Preferred() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.preferred
}
