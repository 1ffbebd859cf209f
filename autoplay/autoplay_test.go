package autoplay

import (
	"testing"

	"github.com/qarqun/NuvioStreaming/fetch"
	"github.com/qarqun/NuvioStreaming/rank"
	"github.com/qarqun/NuvioStreaming/stream"
	. "github.com/smartystreets/goconvey/convey"
)

func snapWith(gen uint64, records ...stream.Record) fetch.Snapshot {
	snap := fetch.Snapshot{
		Generation: gen,
		Started:    true,
		Providers:  map[string]stream.ProviderResult{},
	}
	if len(records) > 0 {
		snap.Providers["p1"] = stream.ProviderResult{
			ProviderID: "p1",
			State:      stream.Partial,
			Records:    records,
		}
	}
	return snap
}

func TestController(t *testing.T) {
	Convey("A disabled controller never leaves idle", t, func() {
		var plays int
		c := New(false, rank.Policy{}, func(stream.Record) { plays++ })

		c.Begin(1)
		c.Observe(snapWith(1, stream.Record{URL: "u1", Title: "1080p"}))

		So(c.State(), ShouldEqual, Idle)
		So(plays, ShouldEqual, 0)
	})

	Convey("An enabled controller triggers once a candidate surfaces", t, func() {
		var played []stream.Record
		c := New(true, rank.Policy{}, func(r stream.Record) { played = append(played, r) })

		c.Begin(1)
		So(c.State(), ShouldEqual, Waiting)

		Convey("An empty snapshot keeps it waiting", func() {
			c.Observe(snapWith(1))
			So(c.State(), ShouldEqual, Waiting)
			So(played, ShouldBeEmpty)
		})

		Convey("The first candidate flips it to triggered", func() {
			c.Observe(snapWith(1, stream.Record{URL: "u1", Title: "720p"}))
			So(c.State(), ShouldEqual, Triggered)
			So(len(played), ShouldEqual, 1)
			So(played[0].URL, ShouldEqual, "u1")

			Convey("Later updates never trigger a second playback", func() {
				c.Observe(snapWith(1, stream.Record{URL: "u2", Title: "2160p"}))
				So(len(played), ShouldEqual, 1)
			})
		})
	})

	Convey("Snapshots from a stale generation are ignored", t, func() {
		var plays int
		c := New(true, rank.Policy{}, func(stream.Record) { plays++ })

		c.Begin(2)
		c.Observe(snapWith(1, stream.Record{URL: "old", Title: "1080p"}))

		So(c.State(), ShouldEqual, Waiting)
		So(plays, ShouldEqual, 0)
	})

	Convey("Supersession cancels a waiting request", t, func() {
		var plays int
		c := New(true, rank.Policy{}, func(stream.Record) { plays++ })

		c.Begin(1)
		c.Cancel()
		So(c.State(), ShouldEqual, Cancelled)

		c.Observe(snapWith(1, stream.Record{URL: "u1", Title: "1080p"}))
		So(plays, ShouldEqual, 0)

		Convey("A new request re-arms it", func() {
			c.Begin(2)
			So(c.State(), ShouldEqual, Waiting)
			c.Observe(snapWith(2, stream.Record{URL: "u2", Title: "1080p"}))
			So(c.State(), ShouldEqual, Triggered)
			So(plays, ShouldEqual, 1)
		})
	})

	Convey("The exclusion policy holds for autoplay candidacy", t, func() {
		var plays int
		c := New(true, rank.Policy{ExcludedQualities: []string{"480p"}}, func(stream.Record) { plays++ })

		c.Begin(1)
		c.Observe(snapWith(1, stream.Record{URL: "u1", Title: "480p"}))

		So(c.State(), ShouldEqual, Waiting)
		So(plays, ShouldEqual, 0)
	})
}
