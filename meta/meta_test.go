package meta

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Parse", t, func() {
		Convey("Bare id takes the fallback type", func() {
			c, err := Parse("tt0111161", Movie)
			So(err, ShouldBeNil)
			So(c.ID, ShouldEqual, "tt0111161")
			So(c.Type, ShouldEqual, Movie)
			So(c.IsEpisode(), ShouldBeFalse)
		})

		Convey("Episode id resolves season and episode", func() {
			c, err := Parse("tt0944947:1:2", Movie)
			So(err, ShouldBeNil)
			So(c.Type, ShouldEqual, Series)
			So(c.Season, ShouldEqual, 1)
			So(c.Episode, ShouldEqual, 2)
			So(c.String(), ShouldEqual, "tt0944947:1:2")
		})

		Convey("Malformed ids are rejected", func() {
			_, err := Parse("", Movie)
			So(err, ShouldNotBeNil)

			_, err = Parse("tt1:x:2", Movie)
			So(err, ShouldNotBeNil)

			_, err = Parse("tt1:2", Movie)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestParseType(t *testing.T) {
	Convey("ParseType", t, func() {
		typ, err := ParseType("Series")
		So(err, ShouldBeNil)
		So(typ, ShouldEqual, Series)

		_, err = ParseType("music")
		So(err, ShouldNotBeNil)
	})
}
