// Package addon implements the source adapter for installed registry addons.
// Each addon advertises itself through a manifest and serves stream lists
// over plain JSON endpoints derived from the manifest location.
package addon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/qarqun/NuvioStreaming/filesystem"
	"github.com/qarqun/NuvioStreaming/log"
	"github.com/qarqun/NuvioStreaming/meta"
	"github.com/qarqun/NuvioStreaming/network"
	"github.com/qarqun/NuvioStreaming/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Resource is one capability advertised by a manifest. The wire format
// allows both a bare string ("stream") and an object with per-resource types.
type Resource struct {
	Name  string   `json:"name"`
	Types []string `json:"types"`
}

func (r *Resource) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		r.Name = name
		return nil
	}

	type plain Resource
	return json.Unmarshal(data, (*plain)(r))
}

// Manifest describes one installed addon.
type Manifest struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	Description string     `json:"description"`
	Resources   []Resource `json:"resources"`
	Types       []string   `json:"types"`

	// URL is where the manifest was fetched from, not part of the wire format.
	URL string `json:"-"`
}

// HasStream reports whether the addon serves streams for the given media
// type. A resource without its own type list falls back to the manifest-wide one.
func (m Manifest) HasStream(t meta.Type) bool {
	for _, r := range m.Resources {
		if r.Name != "stream" {
			continue
		}
		types := r.Types
		if len(types) == 0 {
			types = m.Types
		}
		if lo.Contains(types, string(t)) {
			return true
		}
	}
	return false
}

// BaseURL strips the manifest filename; resource endpoints hang off it.
func (m Manifest) BaseURL() string {
	return strings.TrimSuffix(m.URL, "/manifest.json")
}

func (m Manifest) String() string {
	return fmt.Sprintf("%s %s", m.Name, m.Version)
}

// cacheData defines the structured format for persisting fetched manifests to disk.
type cacheData[K comparable, T any] struct {
	Manifests map[K]T `json:"manifests"`
}

// cacher provides a generic, thread-safe wrapper for high-level caching operations.
type cacher[K comparable, T any] struct {
	internal   *gache.Cache[*cacheData[K, T]]
	keyWrapper func(K) K
	mu         sync.RWMutex
}

// Get retrieves a value from the cache associated with the specified key.
func (c *cacher[K, T]) Get(key K) mo.Option[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[T]()
	}

	manifest, ok := data.Manifests[c.keyWrapper(key)]
	if ok {
		return mo.Some(manifest)
	}

	return mo.None[T]()
}

// Set persists a key-value pair to the cache.
func (c *cacher[K, T]) Set(key K, t T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if !expired && data != nil {
		data.Manifests[c.keyWrapper(key)] = t
		return c.internal.Set(data)
	}

	internal := &cacheData[K, T]{Manifests: make(map[K]T)}
	internal.Manifests[c.keyWrapper(key)] = t
	return c.internal.Set(internal)
}

// manifestCacher persists resolved manifests so startup does not hit every
// addon registry on every invocation.
var manifestCacher = &cacher[string, *Manifest]{
	internal: gache.New[*cacheData[string, *Manifest]](
		&gache.Options{
			Path:       where.Manifests(),
			Lifetime:   time.Hour * 24,
			FileSystem: &filesystem.GacheFs{},
		},
	),
	keyWrapper: strings.TrimSpace,
}

// FetchManifest resolves one manifest URL, consulting the on-disk cache first.
func FetchManifest(ctx context.Context, url string) (*Manifest, error) {
	if cached := manifestCacher.Get(url); cached.IsPresent() {
		return cached.MustGet(), nil
	}

	log.Infof("fetching addon manifest from %s", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := network.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manifest %s: unexpected status %d", url, resp.StatusCode)
	}

	var manifest Manifest
	if err := json.NewDecoder(resp.Body).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", url, err)
	}
	if manifest.ID == "" {
		return nil, fmt.Errorf("manifest %s: missing id", url)
	}
	manifest.URL = url

	if err := manifestCacher.Set(url, &manifest); err != nil {
		log.Warnf("failed to cache manifest %s: %s", url, err)
	}
	return &manifest, nil
}
