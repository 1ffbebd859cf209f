// Package provider defines the source adapter contract shared by installed
// network addons and local Lua plugins.
package provider

import (
	"context"

	"github.com/qarqun/NuvioStreaming/meta"
	"github.com/qarqun/NuvioStreaming/stream"
)

// Kind distinguishes the two provider families.
type Kind string

const (
	KindAddon  Kind = "addon"
	KindPlugin Kind = "plugin"
)

// Info describes one provider known to an adapter before any fetch happens.
type Info struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

func (i Info) String() string {
	return i.Name
}

// Batch is one incremental delivery from an adapter for a single provider.
// Records are the provider's full current result set, not a delta: a later
// batch for the same provider replaces the earlier one.
// A non-nil Err marks the provider errored; records delivered earlier stay.
type Batch struct {
	ProviderID   string
	ProviderName string
	Records      []stream.Record
	Err          error
}

// EmitFunc receives incremental batches. Implementations must be safe to
// call from multiple adapter goroutines.
type EmitFunc func(Batch)

// Adapter fetches streams from one provider family and reports results
// incrementally through emit. A returned error means the adapter itself
// could not run; per-provider failures travel inside batches instead and
// never fail the adapter.
type Adapter interface {
	// Name identifies the adapter family (for logs and diagnostics).
	Name() string

	// Providers lists the providers this adapter will query, so the
	// orchestrator can seed pending entries at fan-out start.
	Providers() []Info

	// Fetch queries every provider of the family for the given content.
	// It blocks until all providers answered, failed, or ctx was cancelled.
	Fetch(ctx context.Context, content meta.Content, emit EmitFunc) error
}
