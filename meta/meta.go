// Package meta defines the content identity contract consumed from the external metadata/episode resolver.
package meta

import (
	"fmt"
	"strconv"
	"strings"
)

// Type identifies the media kind of a piece of content.
type Type string

const (
	Movie  Type = "movie"
	Series Type = "series"
)

// ParseType validates a raw media type string.
func ParseType(raw string) (Type, error) {
	switch Type(strings.ToLower(raw)) {
	case Movie:
		return Movie, nil
	case Series:
		return Series, nil
	default:
		return "", fmt.Errorf("unknown media type %q", raw)
	}
}

// Content describes one aggregation target: a movie, or one specific episode of a series.
// For series the resolver encodes episodes as "contentId:season:episode".
type Content struct {
	ID      string `json:"id"`
	Type    Type   `json:"type"`
	Season  int    `json:"season,omitempty"`
	Episode int    `json:"episode,omitempty"`
}

// Parse decodes a content identifier. A bare id is treated as the given
// fallback type; an id with ":season:episode" suffix always denotes a series episode.
func Parse(raw string, fallback Type) (Content, error) {
	parts := strings.Split(raw, ":")

	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return Content{}, fmt.Errorf("empty content id")
		}
		return Content{ID: parts[0], Type: fallback}, nil
	case 3:
		season, err := strconv.Atoi(parts[1])
		if err != nil {
			return Content{}, fmt.Errorf("invalid season in %q: %w", raw, err)
		}
		episode, err := strconv.Atoi(parts[2])
		if err != nil {
			return Content{}, fmt.Errorf("invalid episode in %q: %w", raw, err)
		}
		return Content{ID: parts[0], Type: Series, Season: season, Episode: episode}, nil
	default:
		return Content{}, fmt.Errorf("unsupported content id format %q", raw)
	}
}

// String returns the canonical identifier, including season and episode for series.
func (c Content) String() string {
	if c.Type == Series && (c.Season != 0 || c.Episode != 0) {
		return fmt.Sprintf("%s:%d:%d", c.ID, c.Season, c.Episode)
	}
	return c.ID
}

// IsEpisode reports whether the content addresses a single episode rather than a movie.
func (c Content) IsEpisode() bool {
	return c.Type == Series
}
