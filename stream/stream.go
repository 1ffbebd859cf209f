// Package stream defines the domain models for playable stream candidates and per-provider results.
package stream

// Record represents one playable stream candidate delivered by a provider.
// A Record is immutable once produced; ranking and filtering operate on
// copies of slices, never on the records themselves.
type Record struct {
	// Direct URL to the stream. Unique key within a provider.
	URL string `json:"url"`
	// Display name (e.g. "Torrentio 1080p").
	Name string `json:"name"`
	// Raw provider title line, used for quality parsing and exclusion filtering.
	Title string `json:"title,omitempty"`
	// File size in bytes, when the provider reports it.
	SizeBytes int64 `json:"sizeBytes,omitempty"`
	// Debrid/pre-cached indicator. Cached streams always rank first.
	Cached bool `json:"cached"`
	// HTTP headers required to play the stream.
	Headers map[string]string `json:"headers,omitempty"`

	ProviderID   string `json:"providerId"`
	ProviderName string `json:"providerName"`
}

// String returns the display name or the URL for anonymous streams.
func (r Record) String() string {
	if r.Name != "" {
		return r.Name
	}
	return r.URL
}
