package section

import (
	"testing"

	"github.com/qarqun/NuvioStreaming/fetch"
	"github.com/qarqun/NuvioStreaming/rank"
	"github.com/qarqun/NuvioStreaming/stream"
	. "github.com/smartystreets/goconvey/convey"
)

func snapshot() fetch.Snapshot {
	return fetch.Snapshot{
		Generation: 1,
		Started:    true,
		Providers: map[string]stream.ProviderResult{
			"torrentio": {
				ProviderID:   "torrentio",
				ProviderName: "Torrentio",
				State:        stream.Done,
				Records: []stream.Record{
					{URL: "t1", Title: "Movie 1080p", ProviderID: "torrentio"},
					{URL: "t2", Title: "Movie 480p", ProviderID: "torrentio"},
				},
			},
			"cinemeta": {
				ProviderID:   "cinemeta",
				ProviderName: "Cinemeta",
				State:        stream.Done,
				Records: []stream.Record{
					{URL: "c1", Title: "Movie 720p", ProviderID: "cinemeta"},
				},
			},
			"myscraper": {
				ProviderID:   "myscraper",
				ProviderName: "MyScraper",
				State:        stream.Done,
				Records: []stream.Record{
					{URL: "p1", Title: "Movie 2160p", ProviderID: "myscraper"},
				},
			},
		},
	}
}

func TestBuildFlat(t *testing.T) {
	Convey("Flat mode gives one section per provider", t, func() {
		policy := rank.Policy{InstallOrder: []string{"torrentio", "cinemeta"}}
		sections := Build(snapshot(), policy, Flat, FilterAll)

		So(len(sections), ShouldEqual, 3)

		Convey("Installed providers come first in install order, plugins after", func() {
			So(sections[0].ID, ShouldEqual, "torrentio")
			So(sections[1].ID, ShouldEqual, "cinemeta")
			So(sections[2].ID, ShouldEqual, "myscraper")
			So(sections[2].Title, ShouldEqual, "MyScraper")
		})

		Convey("Records inside a section are sorted", func() {
			So(sections[0].Records[0].URL, ShouldEqual, "t1")
			So(sections[0].Records[1].URL, ShouldEqual, "t2")
		})
	})

	Convey("Providers with no surviving records get no section", t, func() {
		snap := snapshot()
		snap.Providers["empty"] = stream.ProviderResult{ProviderID: "empty", State: stream.Done}

		sections := Build(snap, rank.Policy{}, Flat, FilterAll)
		So(len(sections), ShouldEqual, 3)
	})
}

func TestBuildGrouped(t *testing.T) {
	Convey("Grouped mode collapses providers into two buckets", t, func() {
		policy := rank.Policy{
			SortMode:     rank.QualityFirst,
			InstallOrder: []string{"torrentio", "cinemeta"},
		}
		sections := Build(snapshot(), policy, Grouped, FilterAll)

		So(len(sections), ShouldEqual, 2)
		So(sections[0].ID, ShouldEqual, GroupedAddons)
		So(sections[1].ID, ShouldEqual, GroupedPlugins)

		Convey("The installed bucket is re-sorted as one list", func() {
			So(len(sections[0].Records), ShouldEqual, 3)
			So(sections[0].Records[0].URL, ShouldEqual, "t1") // 1080p
			So(sections[0].Records[1].URL, ShouldEqual, "c1") // 720p
			So(sections[0].Records[2].URL, ShouldEqual, "t2") // 480p
		})
	})
}

func TestProviderFilter(t *testing.T) {
	policy := rank.Policy{InstallOrder: []string{"torrentio", "cinemeta"}}

	Convey("A concrete provider id restricts output to that provider", t, func() {
		sections := Build(snapshot(), policy, Flat, "cinemeta")
		So(len(sections), ShouldEqual, 1)
		So(sections[0].Title, ShouldEqual, "Cinemeta")
		So(len(sections[0].Records), ShouldEqual, 1)
	})

	Convey("An unknown provider id yields nothing", t, func() {
		So(Build(snapshot(), policy, Flat, "nope"), ShouldBeEmpty)
	})

	Convey("The plugin meta-id restricts to the plugin bucket", t, func() {
		sections := Build(snapshot(), policy, Flat, GroupedPlugins)
		So(len(sections), ShouldEqual, 1)
		So(sections[0].ID, ShouldEqual, GroupedPlugins)
		So(sections[0].Records[0].URL, ShouldEqual, "p1")
	})
}

func TestExclusionBeforeCounts(t *testing.T) {
	Convey("Excluded qualities never appear in any section or count", t, func() {
		policy := rank.Policy{
			InstallOrder:      []string{"torrentio", "cinemeta"},
			ExcludedQualities: []string{"480p"},
		}
		sections := Build(snapshot(), policy, Flat, FilterAll)

		So(StreamCount(sections), ShouldEqual, 3)
		for _, s := range sections {
			for _, r := range s.Records {
				So(r.URL, ShouldNotEqual, "t2")
			}
		}

		Convey("A fully excluded provider loses its section entirely", func() {
			policy.ExcludedQualities = []string{"720p"}
			sections := Build(snapshot(), policy, Flat, FilterAll)
			So(len(sections), ShouldEqual, 2)
		})
	})
}

func TestParseMode(t *testing.T) {
	Convey("Display mode parsing falls back to flat", t, func() {
		So(ParseMode("grouped"), ShouldEqual, Grouped)
		So(ParseMode("flat"), ShouldEqual, Flat)
		So(ParseMode("whatever"), ShouldEqual, Flat)
		So(Grouped.String(), ShouldEqual, "grouped")
	})
}
