package transport

import (
	"errors"
	"fmt"
	"math"

	"github.com/verte-zerg/tuicast/internal/model"
)

// DefaultSkip is the skip step in seconds.
const DefaultSkip = 10

// ErrPlayRejected is returned when the engine refuses to start playback.
var ErrPlayRejected = errors.New("play rejected")

// PlayStatus tracks reconciliation of the local play flag with the engine.
type PlayStatus int

const (
	// StatusConfirmed means the flag matches the engine.
	StatusConfirmed PlayStatus = iota
	// StatusRequested means the flag was flipped and the engine has not answered yet.
	// With a synchronous Engine.Play it is only held for the duration of the call.
	StatusRequested
	// StatusReverted means the engine rejected the request and the flag was restored.
	StatusReverted
)

func (s PlayStatus) String() string {
	switch s {
	case StatusRequested:
		return "requested"
	case StatusReverted:
		return "reverted"
	default:
		return "confirmed"
	}
}

// Controller owns playback state and drives the engine.
type Controller struct {
	engine Engine
	state  model.PlaybackState
	status PlayStatus

	subs    []Subscription
	onTime  []func(model.PlaybackState)
	onEnded []func()
}

// NewController wraps an engine. Call Attach to start receiving notifications.
func NewController(engine Engine) *Controller {
	return &Controller{engine: engine}
}

// Attach subscribes to engine notifications. Calling it twice is a no-op.
func (c *Controller) Attach() {
	if len(c.subs) > 0 {
		return
	}
	c.subs = []Subscription{
		c.engine.Subscribe(EventTimeUpdate, c.handleTimeUpdate),
		c.engine.Subscribe(EventLoadedData, c.handleLoadedData),
		c.engine.Subscribe(EventEnded, c.handleEnded),
	}
}

// Close releases every engine subscription.
func (c *Controller) Close() {
	for _, sub := range c.subs {
		sub.Close()
	}
	c.subs = nil
}

// OnTimeUpdate registers a listener for position changes.
func (c *Controller) OnTimeUpdate(fn func(model.PlaybackState)) {
	c.onTime = append(c.onTime, fn)
}

// OnEnded registers a listener for end-of-media.
func (c *Controller) OnEnded(fn func()) {
	c.onEnded = append(c.onEnded, fn)
}

// State returns a snapshot of the playback state.
func (c *Controller) State() model.PlaybackState {
	return c.state
}

// Status returns the reconciliation status of the play flag.
func (c *Controller) Status() PlayStatus {
	return c.status
}

// TogglePlayPause flips between playing and paused. A rejected play restores the previous flag.
func (c *Controller) TogglePlayPause() error {
	prev := c.state.IsPlaying
	c.state.IsPlaying = !prev
	c.status = StatusRequested
	if prev {
		c.engine.Pause()
		c.status = StatusConfirmed
		return nil
	}
	if err := c.engine.Play(); err != nil {
		c.state.IsPlaying = prev
		c.status = StatusReverted
		return fmt.Errorf("%w: %w", ErrPlayRejected, err)
	}
	c.status = StatusConfirmed
	return nil
}

// Seek forwards a clamped target to the engine and returns it.
// The local position follows on the next time update.
func (c *Controller) Seek(target float64) float64 {
	clamped := Clamp(target, c.state.Duration)
	c.engine.SetCurrentTime(clamped)
	return clamped
}

// SkipForward seeks delta seconds ahead of the engine position.
func (c *Controller) SkipForward(delta float64) float64 {
	return c.Seek(c.engine.CurrentTime() + delta)
}

// SkipBackward seeks delta seconds behind the engine position.
func (c *Controller) SkipBackward(delta float64) float64 {
	return c.Seek(c.engine.CurrentTime() - delta)
}

func (c *Controller) handleTimeUpdate() {
	c.state.CurrentTime = c.engine.CurrentTime()
	for _, fn := range c.onTime {
		fn(c.state)
	}
}

func (c *Controller) handleLoadedData() {
	c.state.Duration = c.engine.Duration()
	c.state.CurrentTime = c.engine.CurrentTime()
	for _, fn := range c.onTime {
		fn(c.state)
	}
}

func (c *Controller) handleEnded() {
	c.state.IsPlaying = false
	c.state.CurrentTime = c.engine.CurrentTime()
	c.status = StatusConfirmed
	for _, fn := range c.onEnded {
		fn()
	}
}

// Clamp limits t to [0, duration]. NaN maps to 0.
func Clamp(t, duration float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if duration < 0 || math.IsNaN(duration) {
		duration = 0
	}
	if t > duration {
		return duration
	}
	return t
}

// FormatTime renders seconds as m:ss, flooring partial seconds.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := int64(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
