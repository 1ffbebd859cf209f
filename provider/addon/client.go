package addon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/qarqun/NuvioStreaming/meta"
	"github.com/qarqun/NuvioStreaming/network"
	"github.com/qarqun/NuvioStreaming/stream"
)

// streamsResponse is the wire shape of a stream endpoint reply.
type streamsResponse struct {
	Streams []streamItem `json:"streams"`
}

type streamItem struct {
	URL           string        `json:"url"`
	ExternalURL   string        `json:"externalUrl"`
	Name          string        `json:"name"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	BehaviorHints behaviorHints `json:"behaviorHints"`
}

type behaviorHints struct {
	VideoSize    int64  `json:"videoSize"`
	Filename     string `json:"filename"`
	NotWebReady  bool   `json:"notWebReady"`
	ProxyHeaders struct {
		Request map[string]string `json:"request"`
	} `json:"proxyHeaders"`
}

// fetchStreams calls one addon's stream endpoint for the given content and
// normalizes the reply into stream records.
func fetchStreams(ctx context.Context, m Manifest, content meta.Content, cachedMarkers []string) ([]stream.Record, error) {
	endpoint := fmt.Sprintf("%s/stream/%s/%s.json", m.BaseURL(), content.Type, url.PathEscape(content.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := network.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", m.Name, resp.StatusCode)
	}

	var response streamsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("%s: %w", m.Name, err)
	}

	records := make([]stream.Record, 0, len(response.Streams))
	for _, item := range response.Streams {
		playable := item.URL
		if playable == "" {
			playable = item.ExternalURL
		}
		if playable == "" {
			continue
		}

		title := item.Title
		if title == "" {
			title = item.Description
		}
		name := item.Name
		if name == "" {
			name = m.Name
		}

		records = append(records, stream.Record{
			URL:          playable,
			Name:         name,
			Title:        title,
			SizeBytes:    item.BehaviorHints.VideoSize,
			Cached:       isCached(name, title, cachedMarkers),
			Headers:      item.BehaviorHints.ProxyHeaders.Request,
			ProviderID:   m.ID,
			ProviderName: m.Name,
		})
	}
	return records, nil
}

// isCached detects debrid/pre-cached streams by marker substrings, since most
// addons only signal it through decorated names.
func isCached(name, title string, markers []string) bool {
	haystack := strings.ToLower(name + " " + title)
	for _, marker := range markers {
		if marker != "" && strings.Contains(haystack, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}
