package rank

import (
	"testing"

	"github.com/qarqun/NuvioStreaming/stream"
	. "github.com/smartystreets/goconvey/convey"
)

func TestQuality(t *testing.T) {
	Convey("Quality extraction", t, func() {
		Convey("Number followed by p", func() {
			So(Quality("Movie.1080p.BluRay"), ShouldEqual, 1080)
			So(Quality("something 720p x264"), ShouldEqual, 720)
		})

		Convey("Explicit 4K token", func() {
			So(Quality("Movie 4K HDR"), ShouldEqual, 2160)
			So(Quality("movie.4k.hdr"), ShouldEqual, 2160)
		})

		Convey("Bare in-range number", func() {
			So(Quality("720"), ShouldEqual, 720)
			So(Quality("Movie 2160 Remux"), ShouldEqual, 2160)
		})

		Convey("Out-of-range bare number is unknown", func() {
			So(Quality("9999"), ShouldEqual, 0)
			So(Quality("Movie.x265.2019"), ShouldEqual, 0)
		})

		Convey("No pattern yields zero", func() {
			So(Quality("Movie"), ShouldEqual, 0)
			So(Quality(""), ShouldEqual, 0)
		})
	})
}

func TestQualityLabel(t *testing.T) {
	Convey("QualityLabel", t, func() {
		So(QualityLabel(1080), ShouldEqual, "1080p")
		So(QualityLabel(2160), ShouldEqual, "4K")
		So(QualityLabel(0), ShouldEqual, "?")
	})
}

func TestPriority(t *testing.T) {
	Convey("Provider priority", t, func() {
		order := []string{"A", "B"}

		Convey("Earlier installs score higher", func() {
			So(Priority("A", order), ShouldBeGreaterThan, Priority("B", order))
		})

		Convey("Unknown providers score zero, never negative", func() {
			So(Priority("C", order), ShouldEqual, 0)
			So(Priority("A", order), ShouldEqual, 50)
			So(Priority("B", order), ShouldEqual, 49)
		})
	})
}

func TestExclude(t *testing.T) {
	Convey("Quality exclusion", t, func() {
		records := []stream.Record{
			{URL: "u1", Title: "Movie 1080p"},
			{URL: "u2", Title: "Movie 720p"},
			{URL: "u3", Title: "Movie 480p"},
		}

		Convey("Removes every matching record", func() {
			filtered := Exclude(records, []string{"480p"})
			So(len(filtered), ShouldEqual, 2)
			for _, r := range filtered {
				So(r.Title, ShouldNotContainSubstring, "480p")
			}
		})

		Convey("Matching is case-insensitive", func() {
			filtered := Exclude(records, []string{"1080P"})
			So(len(filtered), ShouldEqual, 2)
		})

		Convey("Invalid regex falls back to substring matching", func() {
			filtered := Exclude([]stream.Record{{URL: "u", Title: "CAM[rip"}}, []string{"CAM["})
			So(filtered, ShouldBeEmpty)
		})

		Convey("No patterns leaves the input untouched", func() {
			So(Exclude(records, nil), ShouldResemble, records)
		})
	})
}

func TestSort(t *testing.T) {
	Convey("Sort", t, func() {
		policy := Policy{InstallOrder: []string{"A", "B"}}

		Convey("Cached always wins regardless of sort mode", func() {
			records := []stream.Record{
				{URL: "u1", Title: "2160p", ProviderID: "A"},
				{URL: "u2", Title: "480p", ProviderID: "B", Cached: true},
			}

			for _, mode := range []SortMode{ProviderFirst, QualityFirst} {
				policy.SortMode = mode
				sorted := Sort(records, policy)
				So(sorted[0].URL, ShouldEqual, "u2")
			}
		})

		Convey("Quality-first prefers quality then provider", func() {
			policy.SortMode = QualityFirst
			records := []stream.Record{
				{URL: "u1", Title: "720p", ProviderID: "A"},
				{URL: "u2", Title: "1080p", ProviderID: "B"},
			}
			sorted := Sort(records, policy)
			So(sorted[0].URL, ShouldEqual, "u2")
		})

		Convey("Provider-first prefers install order then quality", func() {
			policy.SortMode = ProviderFirst
			records := []stream.Record{
				{URL: "u1", Title: "720p", ProviderID: "B"},
				{URL: "u2", Title: "1080p", ProviderID: "A"},
				{URL: "u3", Title: "480p", ProviderID: "A"},
			}
			sorted := Sort(records, policy)
			So(sorted[0].URL, ShouldEqual, "u2")
			So(sorted[1].URL, ShouldEqual, "u3")
			So(sorted[2].URL, ShouldEqual, "u1")
		})

		Convey("Sorting is idempotent", func() {
			policy.SortMode = QualityFirst
			records := []stream.Record{
				{URL: "u1", Title: "720p", ProviderID: "B"},
				{URL: "u2", Title: "1080p", ProviderID: "A", Cached: true},
				{URL: "u3", Title: "Movie", ProviderID: "C"},
			}
			once := Sort(records, policy)
			twice := Sort(once, policy)
			So(twice, ShouldResemble, once)
		})

		Convey("Ties keep arrival order", func() {
			records := []stream.Record{
				{URL: "first", Title: "1080p", ProviderID: "A"},
				{URL: "second", Title: "1080p", ProviderID: "A"},
			}
			sorted := Sort(records, policy)
			So(sorted[0].URL, ShouldEqual, "first")
			So(sorted[1].URL, ShouldEqual, "second")
		})

		Convey("Does not mutate its input", func() {
			records := []stream.Record{
				{URL: "u1", Title: "480p"},
				{URL: "u2", Title: "1080p"},
			}
			_ = Sort(records, policy)
			So(records[0].URL, ShouldEqual, "u1")
		})
	})
}

func TestBest(t *testing.T) {
	Convey("Best", t, func() {
		policy := Policy{InstallOrder: []string{"p1", "p2"}}

		Convey("Cached beats quality and provider priority", func() {
			results := map[string]stream.ProviderResult{
				"p1": {ProviderID: "p1", Records: []stream.Record{
					{URL: "u1", Title: "720p", ProviderID: "p1"},
				}},
				"p2": {ProviderID: "p2", Records: []stream.Record{
					{URL: "u2", Title: "480p", ProviderID: "p2", Cached: true},
				}},
			}

			best := Best(results, policy)
			So(best.IsPresent(), ShouldBeTrue)
			So(best.MustGet().URL, ShouldEqual, "u2")
		})

		Convey("Exclusion filter applies before selection", func() {
			policy := policy
			policy.ExcludedQualities = []string{"480p"}
			results := map[string]stream.ProviderResult{
				"p1": {ProviderID: "p1", Records: []stream.Record{
					{URL: "u1", Title: "480p", ProviderID: "p1", Cached: true},
					{URL: "u2", Title: "720p", ProviderID: "p1"},
				}},
			}

			best := Best(results, policy)
			So(best.MustGet().URL, ShouldEqual, "u2")
		})

		Convey("Empty filtered set yields no candidate", func() {
			policy := policy
			policy.ExcludedQualities = []string{"1080p"}
			results := map[string]stream.ProviderResult{
				"p1": {ProviderID: "p1", Records: []stream.Record{
					{URL: "u1", Title: "1080p", ProviderID: "p1"},
				}},
			}

			So(Best(results, policy).IsAbsent(), ShouldBeTrue)
			So(Best(nil, policy).IsAbsent(), ShouldBeTrue)
		})

		Convey("Display sort mode does not affect the choice", func() {
			results := map[string]stream.ProviderResult{
				"p1": {ProviderID: "p1", Records: []stream.Record{
					{URL: "low", Title: "480p", ProviderID: "p1"},
				}},
				"px": {ProviderID: "px", Records: []stream.Record{
					{URL: "high", Title: "1080p", ProviderID: "px"},
				}},
			}

			for _, mode := range []SortMode{ProviderFirst, QualityFirst} {
				policy := policy
				policy.SortMode = mode
				So(Best(results, policy).MustGet().URL, ShouldEqual, "high")
			}
		})
	})
}

func TestParseSortMode(t *testing.T) {
	Convey("ParseSortMode", t, func() {
		So(ParseSortMode("quality-first"), ShouldEqual, QualityFirst)
		So(ParseSortMode("provider-first"), ShouldEqual, ProviderFirst)
		So(ParseSortMode("bogus"), ShouldEqual, ProviderFirst)
	})
}
