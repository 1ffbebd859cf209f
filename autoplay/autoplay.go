// Package autoplay watches the aggregate result map and hands the best
// stream to the player exactly once per request.
package autoplay

import (
	"sync"

	"github.com/qarqun/NuvioStreaming/fetch"
	"github.com/qarqun/NuvioStreaming/log"
	"github.com/qarqun/NuvioStreaming/rank"
	"github.com/qarqun/NuvioStreaming/stream"
)

// State of the controller for the current request.
type State int

const (
	// Idle means autoplay is disabled or no request has started.
	Idle State = iota
	// Waiting means a request is live and no candidate has surfaced yet.
	Waiting
	// Triggered means playback was started; terminal for the request.
	Triggered
	// Cancelled means the request was superseded before a candidate surfaced.
	Cancelled
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Triggered:
		return "triggered"
	case Cancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// PlayFunc starts playback of the selected record. It is invoked at most
// once per request, outside the controller lock.
type PlayFunc func(stream.Record)

// Controller is the autoplay state machine. Wire its Observe method as the
// fetch session's OnUpdate observer and call Begin when a request starts.
type Controller struct {
	mu         sync.Mutex
	enabled    bool
	state      State
	generation uint64
	policy     rank.Policy
	play       PlayFunc
}

// New creates a controller. A disabled controller stays Idle forever and
// never evaluates candidates.
func New(enabled bool, policy rank.Policy, play PlayFunc) *Controller {
	return &Controller{
		enabled: enabled,
		policy:  policy,
		play:    play,
	}
}

// Begin arms the controller for a new request generation. An earlier request
// still waiting is implicitly superseded.
func (c *Controller) Begin(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return
	}
	c.state = Waiting
	c.generation = generation
}

// Cancel marks a still-waiting request as superseded.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Waiting {
		c.state = Cancelled
	}
}

// Observe re-evaluates the autoplay candidate against a fresh snapshot.
// Snapshots from other generations are ignored; once a candidate surfaces
// the state flips to Triggered under the lock, so playback starts once even
// when updates race.
func (c *Controller) Observe(snap fetch.Snapshot) {
	c.mu.Lock()
	if !c.enabled || c.state != Waiting || snap.Generation != c.generation {
		c.mu.Unlock()
		return
	}

	best, ok := rank.Best(snap.Providers, c.policy).Get()
	if !ok {
		c.mu.Unlock()
		return
	}
	c.state = Triggered
	c.mu.Unlock()

	log.Infof("autoplaying %s from %s", best.Title, best.ProviderName)
	c.play(best)
}

// State reports the controller's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
