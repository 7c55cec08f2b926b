// Package engine provides a software playback clock for the transport controller.
package engine

import (
	"errors"
	"sort"
	"time"

	"github.com/verte-zerg/tuicast/internal/transport"
)

// ErrNotLoaded is returned by Play before media metadata is known.
var ErrNotLoaded = errors.New("media not loaded")

type handler struct {
	event transport.Event
	fn    func()
}

// Clock advances a playback position with wall time. It produces no audio.
type Clock struct {
	position float64
	duration float64
	playing  bool
	lastTick time.Time
	dirty    bool

	nextID   int
	handlers map[int]handler
}

// NewClock returns an empty clock.
func NewClock() *Clock {
	return &Clock{handlers: map[int]handler{}}
}

type subscription struct {
	clock *Clock
	id    int
}

func (s *subscription) Close() {
	if s.clock == nil {
		return
	}
	delete(s.clock.handlers, s.id)
	s.clock = nil
}

// Subscribe implements transport.Engine.
func (c *Clock) Subscribe(event transport.Event, fn func()) transport.Subscription {
	c.nextID++
	c.handlers[c.nextID] = handler{event: event, fn: fn}
	return &subscription{clock: c, id: c.nextID}
}

// Subscribers returns the number of live subscriptions.
func (c *Clock) Subscribers() int {
	return len(c.handlers)
}

// Load sets the media duration, rewinds, and emits loadeddata.
func (c *Clock) Load(duration float64) {
	if duration < 0 {
		duration = 0
	}
	c.duration = duration
	c.position = 0
	c.playing = false
	c.dirty = false
	c.emit(transport.EventLoadedData)
}

// CurrentTime implements transport.Engine.
func (c *Clock) CurrentTime() float64 {
	return c.position
}

// SetCurrentTime implements transport.Engine. The change is reported on the next Advance.
func (c *Clock) SetCurrentTime(t float64) {
	c.position = transport.Clamp(t, c.duration)
	c.dirty = true
}

// Duration implements transport.Engine.
func (c *Clock) Duration() float64 {
	return c.duration
}

// Playing reports whether the clock is running.
func (c *Clock) Playing() bool {
	return c.playing
}

// Play implements transport.Engine.
func (c *Clock) Play() error {
	if c.duration <= 0 {
		return ErrNotLoaded
	}
	if c.position >= c.duration {
		c.position = 0
		c.dirty = true
	}
	c.playing = true
	c.lastTick = time.Time{}
	return nil
}

// Pause implements transport.Engine.
func (c *Clock) Pause() {
	c.playing = false
	c.lastTick = time.Time{}
}

// Advance moves the position by the wall time since the previous Advance while playing.
// It emits timeupdate when the position changed and ended when the media finished.
func (c *Clock) Advance(now time.Time) {
	if c.playing {
		if !c.lastTick.IsZero() && now.After(c.lastTick) {
			c.position += now.Sub(c.lastTick).Seconds()
			c.dirty = true
		}
		c.lastTick = now
	}
	ended := false
	if c.playing && c.position >= c.duration {
		c.position = c.duration
		c.playing = false
		c.lastTick = time.Time{}
		ended = true
	}
	if c.dirty {
		c.dirty = false
		c.emit(transport.EventTimeUpdate)
	}
	if ended {
		c.emit(transport.EventEnded)
	}
}

func (c *Clock) emit(event transport.Event) {
	ids := make([]int, 0, len(c.handlers))
	for id, h := range c.handlers {
		if h.event == event {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	for _, id := range ids {
		// A callback may close other subscriptions.
		if h, ok := c.handlers[id]; ok {
			h.fn()
		}
	}
}
