package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/qarqun/NuvioStreaming/meta"
	"github.com/qarqun/NuvioStreaming/provider"
	"github.com/qarqun/NuvioStreaming/rank"
	"github.com/qarqun/NuvioStreaming/stream"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeAdapter emits pre-programmed batches after per-batch delays.
type fakeAdapter struct {
	name    string
	infos   []provider.Info
	batches []timedBatch
	err     error
}

type timedBatch struct {
	after time.Duration
	batch provider.Batch
}

func (f *fakeAdapter) Name() string               { return f.name }
func (f *fakeAdapter) Providers() []provider.Info { return f.infos }

func (f *fakeAdapter) Fetch(ctx context.Context, _ meta.Content, emit provider.EmitFunc) error {
	for _, tb := range f.batches {
		select {
		case <-time.After(tb.after):
			emit(tb.batch)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

// funcAdapter delegates Fetch to a closure, for tests that need
// content-dependent behavior.
type funcAdapter struct {
	name  string
	infos []provider.Info
	fn    func(ctx context.Context, content meta.Content, emit provider.EmitFunc) error
}

func (f *funcAdapter) Name() string               { return f.name }
func (f *funcAdapter) Providers() []provider.Info { return f.infos }

func (f *funcAdapter) Fetch(ctx context.Context, content meta.Content, emit provider.EmitFunc) error {
	return f.fn(ctx, content, emit)
}

func movie(id string) meta.Content {
	return meta.Content{ID: id, Type: meta.Movie}
}

func TestFetchAggregation(t *testing.T) {
	Convey("Two adapters delivering out of order", t, func() {
		fast := &fakeAdapter{
			name:  "fast",
			infos: []provider.Info{{ID: "p1", Name: "Provider One", Kind: provider.KindAddon}},
			batches: []timedBatch{{
				after: 20 * time.Millisecond,
				batch: provider.Batch{
					ProviderID:   "p1",
					ProviderName: "Provider One",
					Records: []stream.Record{
						{URL: "u1", Title: "720p", ProviderID: "p1"},
					},
				},
			}},
		}
		slow := &fakeAdapter{
			name:  "slow",
			infos: []provider.Info{{ID: "p2", Name: "Provider Two", Kind: provider.KindPlugin}},
			batches: []timedBatch{{
				after: 50 * time.Millisecond,
				batch: provider.Batch{
					ProviderID:   "p2",
					ProviderName: "Provider Two",
					Records: []stream.Record{
						{URL: "u2", Title: "480p", ProviderID: "p2", Cached: true},
					},
				},
			}},
		}

		session := New(Options{Adapters: []provider.Adapter{fast, slow}})
		So(session.Fetch(context.Background(), movie("tt1")), ShouldBeNil)

		snap := session.Wait(context.Background())

		Convey("Both providers are present and done", func() {
			So(len(snap.Providers), ShouldEqual, 2)
			So(snap.Providers["p1"].State, ShouldEqual, stream.Done)
			So(snap.Providers["p2"].State, ShouldEqual, stream.Done)
			So(snap.Loading, ShouldBeFalse)
			So(snap.StreamCount(), ShouldEqual, 2)
		})

		Convey("The cached stream wins autoplay selection over higher quality", func() {
			best := rank.Best(snap.Providers, rank.Policy{InstallOrder: []string{"p1", "p2"}})
			So(best.IsPresent(), ShouldBeTrue)
			So(best.MustGet().URL, ShouldEqual, "u2")
		})
	})
}

func TestFetchSnapshotReplacesBatches(t *testing.T) {
	Convey("A provider updating twice keeps only the latest batch", t, func() {
		adapter := &fakeAdapter{
			name:  "addons",
			infos: []provider.Info{{ID: "p1", Name: "One", Kind: provider.KindAddon}},
			batches: []timedBatch{
				{
					after: 5 * time.Millisecond,
					batch: provider.Batch{ProviderID: "p1", Records: []stream.Record{
						{URL: "a1", ProviderID: "p1"},
						{URL: "a2", ProviderID: "p1"},
					}},
				},
				{
					after: 5 * time.Millisecond,
					batch: provider.Batch{ProviderID: "p1", Records: []stream.Record{
						{URL: "b1", ProviderID: "p1"},
					}},
				},
			},
		}

		session := New(Options{Adapters: []provider.Adapter{adapter}})
		So(session.Fetch(context.Background(), movie("tt1")), ShouldBeNil)
		snap := session.Wait(context.Background())

		So(len(snap.Providers["p1"].Records), ShouldEqual, 1)
		So(snap.Providers["p1"].Records[0].URL, ShouldEqual, "b1")
	})
}

func TestFetchSupersession(t *testing.T) {
	Convey("A superseded request never leaks into the new aggregate", t, func() {
		// Deliberately ignores cancellation so the stale batch really
		// reaches the merge path.
		slow := &funcAdapter{
			name:  "slow",
			infos: []provider.Info{{ID: "p1", Name: "One", Kind: provider.KindAddon}},
			fn: func(_ context.Context, content meta.Content, emit provider.EmitFunc) error {
				time.Sleep(80 * time.Millisecond)
				emit(provider.Batch{ProviderID: "p1", Records: []stream.Record{
					{URL: "res-" + content.ID, ProviderID: "p1"},
				}})
				return nil
			},
		}

		session := New(Options{Adapters: []provider.Adapter{slow}})
		So(session.Fetch(context.Background(), movie("ttX")), ShouldBeNil)

		// Supersede before the first response arrives.
		time.Sleep(10 * time.Millisecond)
		So(session.Fetch(context.Background(), movie("ttY")), ShouldBeNil)

		snap := session.Wait(context.Background())
		So(snap.Generation, ShouldEqual, uint64(2))
		So(snap.Providers["p1"].Records[0].URL, ShouldEqual, "res-ttY")
	})
}

func TestFetchTimeout(t *testing.T) {
	Convey("The soft deadline flips the loading flag without dropping results", t, func() {
		fast := &fakeAdapter{
			name:  "fast",
			infos: []provider.Info{{ID: "p1", Name: "One", Kind: provider.KindAddon}},
			batches: []timedBatch{{
				after: 5 * time.Millisecond,
				batch: provider.Batch{ProviderID: "p1", Records: []stream.Record{
					{URL: "u1", ProviderID: "p1"},
				}},
			}},
		}
		hung := &fakeAdapter{
			name:    "hung",
			infos:   []provider.Info{{ID: "p2", Name: "Two", Kind: provider.KindAddon}},
			batches: []timedBatch{{after: 10 * time.Second, batch: provider.Batch{ProviderID: "p2"}}},
		}

		session := New(Options{
			Adapters: []provider.Adapter{fast, hung},
			Timeout:  60 * time.Millisecond,
		})
		So(session.Fetch(context.Background(), movie("tt1")), ShouldBeNil)

		snap := session.Wait(context.Background())
		So(snap.Loading, ShouldBeFalse)
		So(len(snap.Providers["p1"].Records), ShouldEqual, 1)
		So(snap.Providers["p2"].State, ShouldEqual, stream.Pending)
	})
}

func TestFetchProviderErrorIsolation(t *testing.T) {
	Convey("A failing provider never fails the overall request", t, func() {
		mixed := &fakeAdapter{
			name: "addons",
			infos: []provider.Info{
				{ID: "ok", Name: "Fine", Kind: provider.KindAddon},
				{ID: "broken", Name: "Broken", Kind: provider.KindAddon},
			},
			batches: []timedBatch{
				{
					after: 5 * time.Millisecond,
					batch: provider.Batch{ProviderID: "ok", Records: []stream.Record{
						{URL: "u1", ProviderID: "ok"},
					}},
				},
				{
					after: 5 * time.Millisecond,
					batch: provider.Batch{ProviderID: "broken", Err: errors.New("upstream 500")},
				},
			},
		}

		session := New(Options{Adapters: []provider.Adapter{mixed}})
		So(session.Fetch(context.Background(), movie("tt1")), ShouldBeNil)
		snap := session.Wait(context.Background())

		So(snap.Providers["ok"].State, ShouldEqual, stream.Done)
		So(snap.Providers["broken"].State, ShouldEqual, stream.Errored)
		So(snap.Errored(), ShouldResemble, []string{"broken"})
		So(snap.Empty(), ShouldBeFalse)
	})

	Convey("An errored provider keeps previously delivered records", t, func() {
		adapter := &fakeAdapter{
			name:  "addons",
			infos: []provider.Info{{ID: "p1", Name: "One", Kind: provider.KindAddon}},
			batches: []timedBatch{
				{
					after: 5 * time.Millisecond,
					batch: provider.Batch{ProviderID: "p1", Records: []stream.Record{
						{URL: "kept", ProviderID: "p1"},
					}},
				},
				{
					after: 5 * time.Millisecond,
					batch: provider.Batch{ProviderID: "p1", Err: errors.New("second page failed")},
				},
			},
		}

		session := New(Options{Adapters: []provider.Adapter{adapter}})
		So(session.Fetch(context.Background(), movie("tt1")), ShouldBeNil)
		snap := session.Wait(context.Background())

		So(snap.Providers["p1"].State, ShouldEqual, stream.Errored)
		So(len(snap.Providers["p1"].Records), ShouldEqual, 1)
		So(snap.Providers["p1"].Records[0].URL, ShouldEqual, "kept")
	})
}

func TestFetchNoProviders(t *testing.T) {
	Convey("No configured sources is a distinct terminal condition", t, func() {
		session := New(Options{})
		err := session.Fetch(context.Background(), movie("tt1"))
		So(errors.Is(err, ErrNoProviders), ShouldBeTrue)

		empty := &fakeAdapter{name: "addons"}
		session = New(Options{Adapters: []provider.Adapter{empty}})
		So(errors.Is(session.Fetch(context.Background(), movie("tt1")), ErrNoProviders), ShouldBeTrue)
	})
}

func TestFetchOnUpdate(t *testing.T) {
	Convey("Observers see every merge for the live generation", t, func() {
		updates := make(chan Snapshot, 16)
		adapter := &fakeAdapter{
			name:  "addons",
			infos: []provider.Info{{ID: "p1", Name: "One", Kind: provider.KindAddon}},
			batches: []timedBatch{{
				after: 5 * time.Millisecond,
				batch: provider.Batch{ProviderID: "p1", Records: []stream.Record{
					{URL: "u1", ProviderID: "p1"},
				}},
			}},
		}

		session := New(Options{
			Adapters: []provider.Adapter{adapter},
			OnUpdate: func(s Snapshot) { updates <- s },
		})
		So(session.Fetch(context.Background(), movie("tt1")), ShouldBeNil)
		session.Wait(context.Background())

		var sawRecords bool
		for {
			select {
			case snap := <-updates:
				if snap.StreamCount() > 0 {
					sawRecords = true
				}
			default:
				So(sawRecords, ShouldBeTrue)
				return
			}
		}
	})
}
