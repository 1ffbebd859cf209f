package player

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		Convey("Should accept http(s) urls", func() {
			for _, u := range []string{
				"http://example.com/video.mp4",
				"https://cdn.example.com/path/movie.mkv?token=abc",
			} {
				got, err := sanitizeMediaTarget(u)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, u)
			}
		})

		Convey("Should reject flag-looking and malformed targets", func() {
			for _, u := range []string{
				"",
				"  ",
				"--script=evil.lua",
				"-o output",
				"http://example.com/a\nb",
				"ftp://example.com/file",
				"javascript://alert(1)",
			} {
				_, err := sanitizeMediaTarget(u)
				So(err, ShouldNotBeNil)
			}
		})

		Convey("Should clean local file paths", func() {
			got, err := sanitizeMediaTarget("movies/./show/../movie.mkv")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "movies/movie.mkv")
		})
	})
}

func TestSanitizeTitle(t *testing.T) {
	Convey("sanitizeTitle flattens control characters", t, func() {
		So(sanitizeTitle("Movie\nName\t2024\x00"), ShouldEqual, "Movie Name 2024")
		So(sanitizeTitle("  padded  "), ShouldEqual, "padded")
	})
}

func TestForName(t *testing.T) {
	Convey("Backend selection falls back to mpv", t, func() {
		_, isMPV := ForName("mpv").(*MPV)
		So(isMPV, ShouldBeTrue)

		_, isMPV = ForName("something-else").(*MPV)
		So(isMPV, ShouldBeTrue)

		_, isIINA := ForName("IINA").(*IINA)
		So(isIINA, ShouldBeTrue)
	})
}
