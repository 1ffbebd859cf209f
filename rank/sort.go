package rank

import (
	"slices"

	"github.com/qarqun/NuvioStreaming/stream"
	"github.com/samber/mo"
)

// recordTitle is what quality extraction sees: the raw provider title line,
// or the display name for providers that only set a name.
func recordTitle(r stream.Record) string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// compare orders two records under the given policy. Cached streams always
// come first regardless of sort mode. Ties report equal so that a stable
// sort preserves arrival order.
func compare(a, b stream.Record, p Policy) int {
	if a.Cached != b.Cached {
		if a.Cached {
			return -1
		}
		return 1
	}

	qualityCmp := Quality(recordTitle(b)) - Quality(recordTitle(a))
	priorityCmp := Priority(b.ProviderID, p.InstallOrder) - Priority(a.ProviderID, p.InstallOrder)

	if p.SortMode == QualityFirst {
		if qualityCmp != 0 {
			return qualityCmp
		}
		return priorityCmp
	}

	if priorityCmp != 0 {
		return priorityCmp
	}
	return qualityCmp
}

// Sort returns a copy of records ordered under the policy. The sort is stable:
// records equal under every key keep their arrival order.
func Sort(records []stream.Record, p Policy) []stream.Record {
	out := make([]stream.Record, len(records))
	copy(out, records)

	slices.SortStableFunc(out, func(a, b stream.Record) int {
		return compare(a, b, p)
	})
	return out
}

// Best selects the single autoplay candidate from an aggregate result map.
// The exclusion filter is applied first; the surviving records are ranked
// cached > quality > provider priority regardless of the display sort mode,
// since autoplay optimizes for the best single asset, not browsing order.
func Best(results map[string]stream.ProviderResult, p Policy) mo.Option[stream.Record] {
	fixed := p
	fixed.SortMode = QualityFirst

	var flattened []stream.Record
	for _, id := range sortedKeys(results) {
		flattened = append(flattened, Exclude(results[id].Records, p.ExcludedQualities)...)
	}

	if len(flattened) == 0 {
		return mo.None[stream.Record]()
	}

	return mo.Some(Sort(flattened, fixed)[0])
}

// sortedKeys flattens deterministically; across providers the aggregate has
// no arrival-order guarantee anyway.
func sortedKeys(results map[string]stream.ProviderResult) []string {
	keys := make([]string, 0, len(results))
	for id := range results {
		keys = append(keys, id)
	}
	slices.Sort(keys)
	return keys
}
