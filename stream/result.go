// Package stream defines the domain models for playable stream candidates and per-provider results.
package stream

// State tracks the lifecycle of one provider within a single aggregation request.
type State int

const (
	// Pending - created at fan-out start, nothing delivered yet.
	Pending State = iota
	// Partial - at least one batch delivered, the adapter call has not returned.
	Partial
	// Done - the adapter call returned; the record list is final for this request.
	Done
	// Errored - the provider call failed. Previously delivered records stay visible.
	Errored
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Partial:
		return "partial"
	case Done:
		return "done"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// MarshalText serializes the state as its lowercase name for JSON output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ProviderResult is the accumulated output of one provider for one request.
// The record list is the latest complete set the provider reported: each
// batch replaces the prior one, it is never appended to.
type ProviderResult struct {
	ProviderID   string   `json:"providerId"`
	ProviderName string   `json:"providerName"`
	Records      []Record `json:"streams"`
	State        State    `json:"state"`
	Err          error    `json:"-"`
}

// Clone returns a copy whose record slice is detached from the original.
func (r ProviderResult) Clone() ProviderResult {
	out := r
	out.Records = make([]Record, len(r.Records))
	copy(out.Records, r.Records)
	return out
}
