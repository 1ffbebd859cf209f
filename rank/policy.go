package rank

import (
	"slices"

	"github.com/qarqun/NuvioStreaming/key"
	"github.com/spf13/viper"
)

// SortMode selects which secondary key dominates after the cached flag.
type SortMode int

const (
	// ProviderFirst ranks by provider install order, then by quality.
	ProviderFirst SortMode = iota
	// QualityFirst ranks by quality, then by provider install order.
	QualityFirst
)

// ParseSortMode decodes a configuration value; unrecognized values fall back to ProviderFirst.
func ParseSortMode(raw string) SortMode {
	if raw == "quality-first" {
		return QualityFirst
	}
	return ProviderFirst
}

func (m SortMode) String() string {
	if m == QualityFirst {
		return "quality-first"
	}
	return "provider-first"
}

// Policy is the user-configured ranking and filtering policy for one request.
type Policy struct {
	SortMode          SortMode
	ExcludedQualities []string
	// InstallOrder lists provider ids, earliest = highest priority.
	InstallOrder []string
}

// PolicyFromConfig assembles a Policy from the settings store and the resolved
// provider install order.
func PolicyFromConfig(installOrder []string) Policy {
	return Policy{
		SortMode:          ParseSortMode(viper.GetString(key.StreamsSortMode)),
		ExcludedQualities: viper.GetStringSlice(key.StreamsExcludedQualities),
		InstallOrder:      installOrder,
	}
}

// Priority scores a provider by its position in the install order.
// Earlier installs score higher; unknown providers score 0, never negative.
func Priority(providerID string, installOrder []string) int {
	idx := slices.Index(installOrder, providerID)
	if idx < 0 {
		return 0
	}
	if score := 50 - idx; score > 0 {
		return score
	}
	return 0
}
