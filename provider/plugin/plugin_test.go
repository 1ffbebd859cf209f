package plugin

import (
	"testing"

	"github.com/qarqun/NuvioStreaming/meta"
	. "github.com/smartystreets/goconvey/convey"
	lua "github.com/yuin/gopher-lua"
)

func TestRecordFromTable(t *testing.T) {
	Convey("recordFromTable", t, func() {
		L := lua.NewState()
		defer L.Close()

		Convey("Should extract a record from a valid Lua table", func() {
			tbl := L.NewTable()
			tbl.RawSetString("url", lua.LString("https://example.com/movie.mkv"))
			tbl.RawSetString("title", lua.LString("Movie.1080p.WEB-DL"))
			tbl.RawSetString("size", lua.LNumber(2147483648))
			tbl.RawSetString("cached", lua.LTrue)

			headers := L.NewTable()
			headers.RawSetString("Referer", lua.LString("https://example.com"))
			tbl.RawSetString("headers", headers)

			record, err := recordFromTable(tbl, "MyScraper")
			So(err, ShouldBeNil)
			So(record.URL, ShouldEqual, "https://example.com/movie.mkv")
			So(record.Title, ShouldEqual, "Movie.1080p.WEB-DL")
			So(record.SizeBytes, ShouldEqual, int64(2147483648))
			So(record.Cached, ShouldBeTrue)
			So(record.Headers["Referer"], ShouldEqual, "https://example.com")
			So(record.ProviderID, ShouldEqual, "MyScraper plugin")
			So(record.ProviderName, ShouldEqual, "MyScraper")
		})

		Convey("Should fall back to the plugin name when no name is given", func() {
			tbl := L.NewTable()
			tbl.RawSetString("url", lua.LString("https://example.com/a.mkv"))

			record, err := recordFromTable(tbl, "MyScraper")
			So(err, ShouldBeNil)
			So(record.Name, ShouldEqual, "MyScraper")
		})

		Convey("Should fail when required field 'url' is missing", func() {
			tbl := L.NewTable()
			tbl.RawSetString("title", lua.LString("Movie"))

			_, err := recordFromTable(tbl, "MyScraper")
			So(err, ShouldNotBeNil)
		})

		Convey("Should accept a numeric size given as string", func() {
			tbl := L.NewTable()
			tbl.RawSetString("url", lua.LString("https://example.com/a.mkv"))
			tbl.RawSetString("size", lua.LString("1024"))

			record, err := recordFromTable(tbl, "MyScraper")
			So(err, ShouldBeNil)
			So(record.SizeBytes, ShouldEqual, int64(1024))
		})
	})
}

func TestScriptName(t *testing.T) {
	Convey("scriptName", t, func() {
		Convey("Should take the first line of the Name global", func() {
			L := lua.NewState()
			defer L.Close()
			L.SetGlobal("Name", lua.LString("MyScraper\nsome trailing junk"))

			So(scriptName(L), ShouldEqual, "MyScraper")
		})

		Convey("Should fall back when the Name global is missing or empty", func() {
			L := lua.NewState()
			defer L.Close()
			So(scriptName(L), ShouldEqual, "Unknown Plugin")

			L.SetGlobal("Name", lua.LString(""))
			So(scriptName(L), ShouldEqual, "Unknown Plugin")
		})
	})
}

func TestStreams(t *testing.T) {
	Convey("Streams", t, func() {
		L := lua.NewState()
		defer L.Close()

		script := &Script{name: "MyScraper", state: L}

		Convey("Should convert the returned table and skip invalid entries", func() {
			err := L.DoString(`
				function Streams(content)
					return {
						{ url = "https://example.com/" .. content.id .. ".mkv", title = "Movie 1080p" },
						{ title = "no url, skipped" },
						"not even a table",
					}
				end
			`)
			So(err, ShouldBeNil)

			records, err := script.Streams(meta.Content{ID: "tt1", Type: meta.Movie})
			So(err, ShouldBeNil)
			So(len(records), ShouldEqual, 1)
			So(records[0].URL, ShouldEqual, "https://example.com/tt1.mkv")
		})

		Convey("Should expose season and episode for series content", func() {
			err := L.DoString(`
				function Streams(content)
					return {
						{ url = content.full_id .. "/" .. content.season .. "/" .. content.episode },
					}
				end
			`)
			So(err, ShouldBeNil)

			records, err := script.Streams(meta.Content{ID: "tt2", Type: meta.Series, Season: 1, Episode: 5})
			So(err, ShouldBeNil)
			So(records[0].URL, ShouldEqual, "tt2:1:5/1/5")
		})

		Convey("Should fail when the function is missing", func() {
			empty := &Script{name: "Empty", state: lua.NewState()}
			_, err := empty.Streams(meta.Content{ID: "tt1", Type: meta.Movie})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestIDfromName(t *testing.T) {
	Convey("Plugin ids derive from the display name", t, func() {
		So(IDfromName("MyScraper"), ShouldEqual, "MyScraper plugin")
	})
}
