// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Addon Registry - these keys manage the list of installed stream addons and their transport budgets.
const (
	AddonsInstalled = "addons.installed"
	AddonsTimeout   = "addons.timeout"
)

// Stream Aggregation Policy - these keys govern ranking, filtering and presentation of fetched streams.
const (
	StreamsSortMode          = "streams.sort_mode"
	StreamsExcludedQualities = "streams.excluded_qualities"
	StreamsDisplayMode       = "streams.display_mode"
	StreamsTimeout           = "streams.timeout"
	StreamsAutoplay          = "streams.autoplay"
	StreamsCachedMarkers     = "streams.cached_markers"
)

// Media Playback - these keys maintain the configuration for the external video player.
const (
	PlayerApp = "player.app"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Command Line Interface - these keys define global CLI behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)
