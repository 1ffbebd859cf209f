package plugin

import (
	"fmt"

	"github.com/qarqun/NuvioStreaming/stream"
	lua "github.com/yuin/gopher-lua"
)

func recordFromTable(table *lua.LTable, pluginName string) (stream.Record, error) {
	url := getString(table, "url")
	if url == "" {
		return stream.Record{}, fmt.Errorf("stream must have url")
	}

	name := getString(table, "name")
	if name == "" {
		name = pluginName
	}

	record := stream.Record{
		URL:          url,
		Name:         name,
		Title:        getString(table, "title"),
		SizeBytes:    getInt64(table, "size"),
		Cached:       getBool(table, "cached"),
		ProviderID:   IDfromName(pluginName),
		ProviderName: pluginName,
	}

	// Headers
	headersTbl := table.RawGetString("headers")
	if headersTbl.Type() == lua.LTTable {
		record.Headers = make(map[string]string)
		headersTbl.(*lua.LTable).ForEach(func(k, v lua.LValue) {
			record.Headers[k.String()] = v.String()
		})
	}

	return record, nil
}
