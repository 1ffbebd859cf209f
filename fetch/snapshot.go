package fetch

import (
	"github.com/qarqun/NuvioStreaming/stream"
)

// Snapshot is a point-in-time copy of the aggregate result map, safe to
// read without coordination. Readers never observe a partially merged batch.
type Snapshot struct {
	// Generation identifies the request this snapshot belongs to.
	Generation uint64 `json:"generation"`
	// Started is false until the first Fetch on the session.
	Started bool `json:"started"`
	// Loading is the aggregate UI flag, distinct from per-provider states.
	Loading bool `json:"loading"`
	// Providers maps provider id to its current result.
	Providers map[string]stream.ProviderResult `json:"providers"`
}

// Snapshot returns a copy of the current aggregate state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Generation: s.generation,
		Started:    s.fetched,
		Loading:    s.loading,
		Providers:  make(map[string]stream.ProviderResult, len(s.results)),
	}
	for id, result := range s.results {
		snap.Providers[id] = result.Clone()
	}
	return snap
}

// Empty reports whether no provider has delivered a single stream.
func (s Snapshot) Empty() bool {
	for _, result := range s.Providers {
		if len(result.Records) > 0 {
			return false
		}
	}
	return true
}

// StreamCount totals the records across all providers.
func (s Snapshot) StreamCount() int {
	count := 0
	for _, result := range s.Providers {
		count += len(result.Records)
	}
	return count
}

// Errored lists the ids of providers that failed during this request.
func (s Snapshot) Errored() []string {
	var ids []string
	for id, result := range s.Providers {
		if result.State == stream.Errored {
			ids = append(ids, id)
		}
	}
	return ids
}
