// Package section turns an aggregate result map into display sections:
// one per provider, or two collapsed buckets for installed addons and
// local plugins.
package section

import (
	"slices"
	"strings"

	"github.com/qarqun/NuvioStreaming/fetch"
	"github.com/qarqun/NuvioStreaming/rank"
	"github.com/qarqun/NuvioStreaming/stream"
	"github.com/samber/lo"
)

// Mode selects how providers are collapsed into sections.
type Mode int

const (
	// Flat renders one section per provider.
	Flat Mode = iota
	// Grouped renders two buckets: installed addons and plugins.
	Grouped
)

// ParseMode decodes a configuration value; unrecognized values fall back to Flat.
func ParseMode(raw string) Mode {
	if raw == "grouped" {
		return Grouped
	}
	return Flat
}

func (m Mode) String() string {
	if m == Grouped {
		return "grouped"
	}
	return "flat"
}

// Provider filter meta-ids. Any other non-empty filter value is treated as a
// concrete provider id.
const (
	FilterAll      = "all"
	GroupedAddons  = "grouped-addons"
	GroupedPlugins = "grouped-plugins"
)

// Section is one user-facing block of streams.
type Section struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Records []stream.Record `json:"streams"`
}

// Build derives sections from a snapshot under the given policy. Quality
// exclusion runs before anything else, so excluded records never show up in
// section counts. Providers with no surviving records get no section.
func Build(snap fetch.Snapshot, policy rank.Policy, mode Mode, filter string) []Section {
	filtered := make(map[string][]stream.Record, len(snap.Providers))
	for id, result := range snap.Providers {
		if records := rank.Exclude(result.Records, policy.ExcludedQualities); len(records) > 0 {
			filtered[id] = records
		}
	}

	switch filter {
	case "", FilterAll:
	case GroupedAddons, GroupedPlugins:
		return buckets(snap, filtered, policy, filter)
	default:
		records, ok := filtered[filter]
		if !ok {
			return nil
		}
		return []Section{{
			ID:      filter,
			Title:   providerTitle(snap, filter),
			Records: rank.Sort(records, policy),
		}}
	}

	if mode == Grouped {
		return buckets(snap, filtered, policy, "")
	}
	return flat(snap, filtered, policy)
}

// flat orders sections by install order first, then alphabetically by title
// for providers outside it (plugins, uninstalled leftovers).
func flat(snap fetch.Snapshot, filtered map[string][]stream.Record, policy rank.Policy) []Section {
	var ordered []string
	for _, id := range policy.InstallOrder {
		if _, ok := filtered[id]; ok {
			ordered = append(ordered, id)
		}
	}

	rest := lo.Filter(lo.Keys(filtered), func(id string, _ int) bool {
		return !slices.Contains(policy.InstallOrder, id)
	})
	slices.SortFunc(rest, func(a, b string) int {
		return strings.Compare(providerTitle(snap, a), providerTitle(snap, b))
	})
	ordered = append(ordered, rest...)

	return lo.Map(ordered, func(id string, _ int) Section {
		return Section{
			ID:      id,
			Title:   providerTitle(snap, id),
			Records: rank.Sort(filtered[id], policy),
		}
	})
}

// buckets splits providers into the installed bucket and the plugin bucket,
// concatenates each bucket's records and re-sorts them as a single list.
// keep narrows the output to one bucket; empty keeps both.
func buckets(snap fetch.Snapshot, filtered map[string][]stream.Record, policy rank.Policy, keep string) []Section {
	var installed, plugins []stream.Record
	for _, id := range sortedKeys(snap, filtered) {
		if slices.Contains(policy.InstallOrder, id) {
			installed = append(installed, filtered[id]...)
		} else {
			plugins = append(plugins, filtered[id]...)
		}
	}

	var sections []Section
	if len(installed) > 0 && (keep == "" || keep == GroupedAddons) {
		sections = append(sections, Section{
			ID:      GroupedAddons,
			Title:   "Installed Addons",
			Records: rank.Sort(installed, policy),
		})
	}
	if len(plugins) > 0 && (keep == "" || keep == GroupedPlugins) {
		sections = append(sections, Section{
			ID:      GroupedPlugins,
			Title:   "Plugins",
			Records: rank.Sort(plugins, policy),
		})
	}
	return sections
}

// sortedKeys makes bucket concatenation deterministic before the re-sort,
// which matters only for records that tie under every ranking key.
func sortedKeys(snap fetch.Snapshot, filtered map[string][]stream.Record) []string {
	keys := lo.Keys(filtered)
	slices.SortFunc(keys, func(a, b string) int {
		return strings.Compare(providerTitle(snap, a), providerTitle(snap, b))
	})
	return keys
}

func providerTitle(snap fetch.Snapshot, id string) string {
	if result, ok := snap.Providers[id]; ok && result.ProviderName != "" {
		return result.ProviderName
	}
	return id
}

// StreamCount totals the records across sections, after exclusion.
func StreamCount(sections []Section) int {
	return lo.SumBy(sections, func(s Section) int {
		return len(s.Records)
	})
}
