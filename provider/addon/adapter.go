package addon

import (
	"context"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/qarqun/NuvioStreaming/key"
	"github.com/qarqun/NuvioStreaming/log"
	"github.com/qarqun/NuvioStreaming/meta"
	"github.com/qarqun/NuvioStreaming/provider"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// streamPool bounds concurrent addon calls across all requests.
var streamPool = pond.NewPool(20)

// Adapter queries every installed addon concurrently and emits one batch
// per addon. It satisfies provider.Adapter.
type Adapter struct {
	addons        []*Manifest
	timeout       time.Duration
	cachedMarkers []string
}

// New resolves the manifests of all configured addons. Addons whose manifest
// cannot be resolved are skipped with a log line; they reappear once their
// registry is reachable again. The returned adapter may know zero providers.
func New(ctx context.Context) *Adapter {
	urls := viper.GetStringSlice(key.AddonsInstalled)

	manifests := make([]*Manifest, len(urls))
	group := streamPool.NewGroup()
	for i, manifestURL := range urls {
		group.Submit(func() {
			manifest, err := FetchManifest(ctx, manifestURL)
			if err != nil {
				log.Warnf("skipping addon %s: %s", manifestURL, err)
				return
			}
			manifests[i] = manifest
		})
	}
	_ = group.Wait()

	resolved := lo.Filter(manifests, func(m *Manifest, _ int) bool {
		return m != nil
	})
	log.Infof("resolved %d of %d addon manifests", len(resolved), len(urls))

	return &Adapter{
		addons:        resolved,
		timeout:       time.Duration(viper.GetInt(key.AddonsTimeout)) * time.Second,
		cachedMarkers: viper.GetStringSlice(key.StreamsCachedMarkers),
	}
}

func (a *Adapter) Name() string {
	return "addons"
}

// Providers lists one provider per resolved addon, in install order.
func (a *Adapter) Providers() []provider.Info {
	return lo.Map(a.addons, func(m *Manifest, _ int) provider.Info {
		return provider.Info{ID: m.ID, Name: m.Name, Kind: provider.KindAddon}
	})
}

// InstallOrder returns the addon ids in configuration order. It feeds the
// ranking policy's provider priority.
func (a *Adapter) InstallOrder() []string {
	return lo.Map(a.addons, func(m *Manifest, _ int) string {
		return m.ID
	})
}

// Manifests exposes the resolved manifests for listing commands.
func (a *Adapter) Manifests() []*Manifest {
	return a.addons
}

// Fetch fans out to every addon that serves the content's media type. Each
// addon gets its own call budget; a failing addon yields an errored batch
// and never disturbs the others.
func (a *Adapter) Fetch(ctx context.Context, content meta.Content, emit provider.EmitFunc) error {
	group := streamPool.NewGroup()
	for _, manifest := range a.addons {
		if !manifest.HasStream(content.Type) {
			log.Debugf("addon %s does not serve %s, skipping", manifest.Name, content.Type)
			continue
		}

		group.Submit(func() {
			callCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			records, err := fetchStreams(callCtx, *manifest, content, a.cachedMarkers)
			if err != nil {
				emit(provider.Batch{ProviderID: manifest.ID, ProviderName: manifest.Name, Err: err})
				return
			}
			emit(provider.Batch{ProviderID: manifest.ID, ProviderName: manifest.Name, Records: records})
		})
	}
	return group.Wait()
}
