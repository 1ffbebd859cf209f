package stream

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRecord(t *testing.T) {
	Convey("Record", t, func() {
		r := Record{
			URL:  "http://example.com/video.mkv",
			Name: "Movie 1080p",
		}

		Convey("String representation", func() {
			So(r.String(), ShouldEqual, "Movie 1080p")
			r.Name = ""
			So(r.String(), ShouldEqual, "http://example.com/video.mkv")
		})
	})
}

func TestState(t *testing.T) {
	Convey("State names", t, func() {
		So(Pending.String(), ShouldEqual, "pending")
		So(Partial.String(), ShouldEqual, "partial")
		So(Done.String(), ShouldEqual, "done")
		So(Errored.String(), ShouldEqual, "errored")
	})
}

func TestProviderResultClone(t *testing.T) {
	Convey("Clone detaches the record slice", t, func() {
		original := ProviderResult{
			ProviderID: "p1",
			Records:    []Record{{URL: "u1"}, {URL: "u2"}},
			State:      Partial,
		}

		clone := original.Clone()
		clone.Records[0].URL = "mutated"

		So(original.Records[0].URL, ShouldEqual, "u1")
		So(clone.State, ShouldEqual, Partial)
	})
}
