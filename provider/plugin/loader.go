// Package plugin provides a bridge between the Go core and Lua-based stream
// plugin scripts dropped into the plugins directory.
package plugin

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/qarqun/NuvioStreaming/constant"
	"github.com/qarqun/NuvioStreaming/filesystem"
	"github.com/qarqun/NuvioStreaming/internal/scraper"
	"github.com/qarqun/NuvioStreaming/log"
	"github.com/qarqun/NuvioStreaming/util"
	"github.com/qarqun/NuvioStreaming/where"
	libs "github.com/metafates/mangal-lua-libs"
	lua "github.com/yuin/gopher-lua"
)

// fallbackName labels scripts that declare no display name at all.
const fallbackName = "Unknown Plugin"

// IDfromName generates a canonical provider identifier for a plugin display name.
func IDfromName(name string) string {
	return name + " plugin"
}

// LoadScript initializes one Lua script by executing and validating it.
func LoadScript(path string) (*Script, error) {
	state := lua.NewState()
	libs.Preload(state)
	registerTLSClient(state) // Injected from wrapper_tls.go

	// Load and compile the Lua script (using cache if available).
	if err := scraper.PreCompileAndLoad(state, path); err != nil {
		state.Close()
		return nil, err
	}

	if state.GetGlobal(constant.PluginStreamsFn).Type() != lua.LTFunction {
		state.Close()
		return nil, fmt.Errorf("function %s is required but not defined in %s", constant.PluginStreamsFn, util.FileStem(path))
	}

	return &Script{
		name:  scriptName(state),
		path:  path,
		state: state,
	}, nil
}

// scriptName resolves the display name a script declares through its Name
// global. Multi-line values keep only the first line; scripts without one
// fall into the shared fallback bucket.
func scriptName(state *lua.LState) string {
	global := state.GetGlobal(constant.PluginNameGlobal)
	if global.Type() != lua.LTString {
		return fallbackName
	}
	if name := util.FirstLine(global.String()); name != "" {
		return name
	}
	return fallbackName
}

// Discover loads every script in the plugins directory and groups scripts
// sharing a display name into one logical plugin. Broken scripts are skipped
// with a log line so one bad file never disables the rest.
func Discover() ([]*Plugin, error) {
	dir := where.Plugins()
	files, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, err
	}

	byName := make(map[string][]*Script)
	for _, f := range files {
		if filepath.Ext(f.Name()) != ".lua" {
			continue
		}

		if f.Name() == "common.lua" {
			continue
		}

		path := filepath.Join(dir, f.Name())
		script, err := LoadScript(path)
		if err != nil {
			log.Warnf("skipping plugin script %s: %s", f.Name(), err)
			continue
		}
		byName[script.name] = append(byName[script.name], script)
	}

	plugins := make([]*Plugin, 0, len(byName))
	for name, scripts := range byName {
		plugins = append(plugins, &Plugin{
			ID:      IDfromName(name),
			Name:    name,
			Scripts: scripts,
		})
	}
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Name < plugins[j].Name
	})
	return plugins, nil
}
