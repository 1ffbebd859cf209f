// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

// Plugin Function Identifiers - these constants define the required global symbols for Lua plugin modules.
const (
	// PluginStreamsFn is the global Lua function every plugin must define.
	// It receives a content table and returns a table of stream tables.
	PluginStreamsFn = "Streams"

	// PluginNameGlobal is the optional global string holding the plugin's display name.
	// Only its first line is used as the provider grouping key.
	PluginNameGlobal = "Name"
)

// PluginTemplate is a Go text/template for scaffolding new Lua plugin files.
const PluginTemplate = `{{ $divider := repeat "-" (plus (max (len .URL) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @url     {{ .URL }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}

{{ .NameGlobal }} = "{{ .Name }}"

---@alias content { id: string, type: string, season: number, episode: number }
---@alias stream { url: string, name: string, title: string|nil, size: number|nil, cached: boolean|nil, headers: table|nil }

--- Finds playable streams for the given content.
-- @param content content Content descriptor
-- @return stream[] Table of streams
function {{ .StreamsFn }}(content)
	return {}
end

-- ex: ts=4 sw=4 et filetype=lua
`
