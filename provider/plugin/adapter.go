package plugin

import (
	"context"
	"errors"

	"github.com/alitto/pond/v2"
	"github.com/qarqun/NuvioStreaming/log"
	"github.com/qarqun/NuvioStreaming/meta"
	"github.com/qarqun/NuvioStreaming/provider"
	"github.com/qarqun/NuvioStreaming/stream"
	"github.com/samber/lo"
)

// scriptPool bounds concurrent plugin execution; Lua scrapers are CPU and
// network heavy compared to addon calls.
var scriptPool = pond.NewPool(8)

// Adapter runs every discovered local plugin and emits one batch per
// logical plugin. It satisfies provider.Adapter.
type Adapter struct {
	plugins []*Plugin
}

// New discovers plugins on disk. A missing or empty plugins directory yields
// an adapter with zero providers, not an error.
func New() *Adapter {
	plugins, err := Discover()
	if err != nil {
		log.Warnf("plugin discovery failed: %s", err)
	}
	log.Infof("discovered %d local plugins", len(plugins))
	return &Adapter{plugins: plugins}
}

func (a *Adapter) Name() string {
	return "plugins"
}

// Providers lists one provider per logical plugin.
func (a *Adapter) Providers() []provider.Info {
	return lo.Map(a.plugins, func(p *Plugin, _ int) provider.Info {
		return provider.Info{ID: p.ID, Name: p.Name, Kind: provider.KindPlugin}
	})
}

// Plugins exposes the discovered plugins for listing commands.
func (a *Adapter) Plugins() []*Plugin {
	return a.plugins
}

// Fetch runs each logical plugin's scripts and emits their combined records
// as one batch. A plugin whose scripts all fail yields an errored batch;
// partial script failures are logged and the rest of the records go through.
func (a *Adapter) Fetch(ctx context.Context, content meta.Content, emit provider.EmitFunc) error {
	group := scriptPool.NewGroup()
	for _, p := range a.plugins {
		group.Submit(func() {
			if ctx.Err() != nil {
				return
			}

			var records []stream.Record
			var errs []error
			for _, script := range p.Scripts {
				found, err := script.Streams(content)
				if err != nil {
					log.Warnf("plugin script %s failed: %s", script.Path(), err)
					errs = append(errs, err)
					continue
				}
				records = append(records, found...)
			}

			if len(records) == 0 && len(errs) > 0 {
				emit(provider.Batch{ProviderID: p.ID, ProviderName: p.Name, Err: errors.Join(errs...)})
				return
			}
			emit(provider.Batch{ProviderID: p.ID, ProviderName: p.Name, Records: records})
		})
	}
	return group.Wait()
}
