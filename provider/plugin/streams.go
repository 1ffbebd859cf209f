package plugin

import (
	"strconv"

	"github.com/qarqun/NuvioStreaming/constant"
	"github.com/qarqun/NuvioStreaming/meta"
	"github.com/qarqun/NuvioStreaming/stream"
	lua "github.com/yuin/gopher-lua"
)

// Streams asks one script for stream candidates. Invalid entries in the
// returned table are skipped; the first conversion error surfaces only when
// nothing usable came back.
func (s *Script) Streams(content meta.Content) ([]stream.Record, error) {
	val, err := s.call(constant.PluginStreamsFn, lua.LTTable, contentToTable(s.state, content))
	if err != nil {
		return nil, err
	}

	table := val.(*lua.LTable)
	var records []stream.Record
	var errs []error

	table.ForEach(func(k, v lua.LValue) {
		if k.Type() != lua.LTNumber || v.Type() != lua.LTTable {
			return // Skip invalid entries
		}

		record, err := recordFromTable(v.(*lua.LTable), s.name)
		if err != nil {
			errs = append(errs, err)
			return
		}

		records = append(records, record)
	})

	if len(records) == 0 && len(errs) > 0 {
		return nil, errs[0]
	}

	return records, nil
}

// contentToTable exposes the aggregation target to the script. Season and
// episode are present only for series content.
func contentToTable(L *lua.LState, content meta.Content) *lua.LTable {
	table := L.NewTable()
	table.RawSetString("id", lua.LString(content.ID))
	table.RawSetString("type", lua.LString(string(content.Type)))
	if content.IsEpisode() {
		table.RawSetString("season", lua.LNumber(content.Season))
		table.RawSetString("episode", lua.LNumber(content.Episode))
	}
	table.RawSetString("full_id", lua.LString(content.String()))
	return table
}

// Helper to get string from table with default
func getString(table *lua.LTable, key string) string {
	val := table.RawGetString(key)
	if val.Type() == lua.LTString {
		return val.String()
	}
	return ""
}

func getInt64(table *lua.LTable, key string) int64 {
	val := table.RawGetString(key)
	switch val.Type() {
	case lua.LTNumber:
		return int64(val.(lua.LNumber))
	case lua.LTString:
		if parsed, err := strconv.ParseInt(val.String(), 10, 64); err == nil {
			return parsed
		}
	}
	return 0
}

func getBool(table *lua.LTable, key string) bool {
	val := table.RawGetString(key)
	if val.Type() == lua.LTBool {
		return bool(val.(lua.LBool))
	}
	return false
}
