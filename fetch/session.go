// Package fetch implements the aggregation orchestrator: it fans out to all
// source adapters concurrently, merges their incremental batches into a
// single per-provider result map, and exposes live loading state.
package fetch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/qarqun/NuvioStreaming/log"
	"github.com/qarqun/NuvioStreaming/meta"
	"github.com/qarqun/NuvioStreaming/provider"
	"github.com/qarqun/NuvioStreaming/stream"
)

// DefaultTimeout is the soft deadline for the aggregate loading flag.
// It does not cancel adapter tasks; late results still merge.
const DefaultTimeout = 15 * time.Second

// ErrNoProviders reports that no stream sources are configured at all,
// as opposed to configured sources that returned nothing.
var ErrNoProviders = errors.New("no stream sources configured")

// Options configures a Session.
type Options struct {
	Adapters []provider.Adapter
	// Timeout is the soft deadline for the loading flag. Zero means DefaultTimeout.
	Timeout time.Duration
	// OnUpdate, when set, observes a snapshot after every merge and state
	// change. It is invoked outside the session lock, sequentially.
	OnUpdate func(Snapshot)
}

// Session owns the aggregate result map for at most one in-flight request.
// Starting a new request supersedes the previous one: its tasks are
// cancelled and any batch they still deliver is discarded by generation.
type Session struct {
	opts Options

	mu         sync.Mutex
	generation uint64
	results    map[string]*stream.ProviderResult
	loading    bool
	fetched    bool
	pending    int
	owned      map[string][]string // adapter name -> provider ids it reported or declared
	done       chan struct{}
	cancel     context.CancelFunc
	timer      *time.Timer
}

// New creates an idle session. A session is reusable across requests for the
// same screen context; each Fetch replaces the aggregate wholesale.
func New(opts Options) *Session {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	closed := make(chan struct{})
	close(closed)
	return &Session{
		opts: opts,
		done: closed,
	}
}

// Fetch starts a new aggregation request, superseding any previous one.
// It returns ErrNoProviders when no adapter knows a single provider;
// otherwise it returns immediately and the fetch proceeds asynchronously.
func (s *Session) Fetch(ctx context.Context, content meta.Content) error {
	total := 0
	for _, a := range s.opts.Adapters {
		total += len(a.Providers())
	}
	if total == 0 {
		return ErrNoProviders
	}

	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.generation++
	gen := s.generation
	s.cancel = cancel
	s.results = make(map[string]*stream.ProviderResult, total)
	s.owned = make(map[string][]string, len(s.opts.Adapters))
	s.loading = true
	s.fetched = true
	s.pending = len(s.opts.Adapters)
	s.done = make(chan struct{})

	// Seed every known provider as pending so the empty aggregate is
	// distinguishable from a not-yet-started one.
	for _, a := range s.opts.Adapters {
		for _, info := range a.Providers() {
			s.results[info.ID] = &stream.ProviderResult{
				ProviderID:   info.ID,
				ProviderName: info.Name,
				State:        stream.Pending,
			}
			s.owned[a.Name()] = append(s.owned[a.Name()], info.ID)
		}
	}

	// Soft deadline: flips the loading flag only, adapters keep running.
	s.timer = time.AfterFunc(s.opts.Timeout, func() {
		s.expire(gen)
	})
	s.mu.Unlock()

	log.Infof("fetching streams for %s from %d providers", content, total)
	s.notify()

	for _, adapter := range s.opts.Adapters {
		go s.run(ctx, gen, adapter, content)
	}

	return nil
}

// run drives a single adapter task for one request generation.
func (s *Session) run(ctx context.Context, gen uint64, adapter provider.Adapter, content meta.Content) {
	err := adapter.Fetch(ctx, content, func(batch provider.Batch) {
		s.merge(gen, adapter.Name(), batch)
	})
	s.finish(gen, adapter.Name(), err)
}

// merge folds one batch into the aggregate. Batches from superseded
// generations are dropped wholesale; within a generation, the batch
// replaces the provider's prior record list.
func (s *Session) merge(gen uint64, adapterName string, batch provider.Batch) {
	if batch.ProviderID == "" {
		return
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		log.Debugf("dropping stale batch from %s for provider %s", adapterName, batch.ProviderID)
		return
	}

	entry, ok := s.results[batch.ProviderID]
	if !ok {
		entry = &stream.ProviderResult{ProviderID: batch.ProviderID}
		s.results[batch.ProviderID] = entry
		s.owned[adapterName] = append(s.owned[adapterName], batch.ProviderID)
	}
	if batch.ProviderName != "" {
		entry.ProviderName = batch.ProviderName
	}

	if batch.Err != nil {
		// An errored provider keeps the records it already delivered.
		entry.State = stream.Errored
		entry.Err = batch.Err
	} else {
		entry.Records = batch.Records
		entry.State = stream.Partial
	}
	s.mu.Unlock()

	if batch.Err != nil {
		log.Warnf("provider %s failed: %s", batch.ProviderID, batch.Err)
	} else {
		log.Debugf("provider %s delivered %d streams", batch.ProviderID, len(batch.Records))
	}
	s.notify()
}

// finish settles an adapter's providers once its Fetch call returns.
func (s *Session) finish(gen uint64, adapterName string, err error) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}

	for _, id := range s.owned[adapterName] {
		entry := s.results[id]
		if entry == nil || entry.State == stream.Errored {
			continue
		}
		if err != nil {
			entry.State = stream.Errored
			entry.Err = err
		} else {
			entry.State = stream.Done
		}
	}

	s.pending--
	completed := s.pending == 0
	if completed && s.loading {
		s.loading = false
		s.timer.Stop()
		close(s.done)
	}
	s.mu.Unlock()

	if err != nil {
		log.Errorf("adapter %s failed: %s", adapterName, err)
	}
	if completed {
		log.Infof("all adapters settled")
	}
	s.notify()
}

// expire enforces the soft deadline for one generation.
func (s *Session) expire(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || !s.loading {
		s.mu.Unlock()
		return
	}
	s.loading = false
	close(s.done)
	s.mu.Unlock()

	log.Warnf("stream search deadline reached, showing partial results")
	s.notify()
}

// notify hands a snapshot to the observer outside the lock.
func (s *Session) notify() {
	if s.opts.OnUpdate != nil {
		s.opts.OnUpdate(s.Snapshot())
	}
}

// Loading reports whether the aggregate is still considered loading.
// Partial data is authoritative for display well before this flips false.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Wait blocks until the current request is no longer loading (all adapters
// settled or the soft deadline passed) or ctx is cancelled, then returns
// the latest snapshot.
func (s *Session) Wait(ctx context.Context) Snapshot {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
	}
	return s.Snapshot()
}
