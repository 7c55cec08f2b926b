package transport

import (
	"errors"
	"testing"

	"github.com/verte-zerg/tuicast/internal/model"
)

type fakeSub struct {
	engine *fakeEngine
	id     int
}

func (s fakeSub) Close() {
	delete(s.engine.handlers, s.id)
}

type fakeHandler struct {
	event Event
	fn    func()
}

type fakeEngine struct {
	current  float64
	duration float64
	playErr  error
	plays    int
	pauses   int
	seeks    []float64
	nextID   int
	handlers map[int]fakeHandler
}

func newFakeEngine(duration float64) *fakeEngine {
	return &fakeEngine{duration: duration, handlers: map[int]fakeHandler{}}
}

func (f *fakeEngine) CurrentTime() float64 { return f.current }

func (f *fakeEngine) SetCurrentTime(t float64) {
	f.seeks = append(f.seeks, t)
	f.current = t
}

func (f *fakeEngine) Duration() float64 { return f.duration }

func (f *fakeEngine) Play() error {
	f.plays++
	return f.playErr
}

func (f *fakeEngine) Pause() { f.pauses++ }

func (f *fakeEngine) Subscribe(event Event, fn func()) Subscription {
	f.nextID++
	f.handlers[f.nextID] = fakeHandler{event: event, fn: fn}
	return fakeSub{engine: f, id: f.nextID}
}

func (f *fakeEngine) emit(event Event) {
	for _, h := range f.handlers {
		if h.event == event {
			h.fn()
		}
	}
}

func loadedController(t *testing.T, duration, current float64) (*Controller, *fakeEngine) {
	t.Helper()
	eng := newFakeEngine(duration)
	c := NewController(eng)
	c.Attach()
	eng.emit(EventLoadedData)
	eng.current = current
	eng.emit(EventTimeUpdate)
	return c, eng
}

func TestToggleTransitions(t *testing.T) {
	c, eng := loadedController(t, 100, 0)
	if err := c.TogglePlayPause(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !c.State().IsPlaying || c.Status() != StatusConfirmed || eng.plays != 1 {
		t.Fatalf("expected playing and confirmed, got %+v %v", c.State(), c.Status())
	}
	if err := c.TogglePlayPause(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if c.State().IsPlaying || eng.pauses != 1 {
		t.Fatalf("expected paused, got %+v", c.State())
	}
}

func TestToggleRevertsOnRejectedPlay(t *testing.T) {
	c, eng := loadedController(t, 100, 0)
	eng.playErr = errors.New("autoplay blocked")
	err := c.TogglePlayPause()
	if !errors.Is(err, ErrPlayRejected) {
		t.Fatalf("expected ErrPlayRejected, got %v", err)
	}
	if c.State().IsPlaying {
		t.Fatalf("expected flag reverted to paused")
	}
	if c.Status() != StatusReverted {
		t.Fatalf("expected reverted status, got %v", c.Status())
	}

	eng.playErr = nil
	if err := c.TogglePlayPause(); err != nil {
		t.Fatalf("toggle after revert: %v", err)
	}
	if !c.State().IsPlaying || c.Status() != StatusConfirmed {
		t.Fatalf("expected playing after retry, got %+v %v", c.State(), c.Status())
	}
}

func TestSkipClampsToDuration(t *testing.T) {
	c, eng := loadedController(t, 100, 95)
	if got := c.SkipForward(DefaultSkip); got != 100 {
		t.Fatalf("expected seek target 100, got %v", got)
	}
	if eng.seeks[len(eng.seeks)-1] != 100 {
		t.Fatalf("engine received %v", eng.seeks)
	}
	if c.State().CurrentTime != 95 {
		t.Fatalf("expected local time to wait for the next update, got %v", c.State().CurrentTime)
	}
}

func TestSkipsBetweenUpdatesAccumulate(t *testing.T) {
	c, eng := loadedController(t, 100, 30)
	c.SkipForward(DefaultSkip)
	if got := c.SkipForward(DefaultSkip); got != 50 {
		t.Fatalf("expected second skip to reach 50, got %v", got)
	}
	if got := c.SkipBackward(5); got != 45 {
		t.Fatalf("expected skip back to 45, got %v", got)
	}
	if c.State().CurrentTime != 30 {
		t.Fatalf("expected local time unchanged before update, got %v", c.State().CurrentTime)
	}
	eng.emit(EventTimeUpdate)
	if c.State().CurrentTime != 45 {
		t.Fatalf("expected local time 45 after update, got %v", c.State().CurrentTime)
	}
}

func TestLoadedDataNotifiesDuration(t *testing.T) {
	eng := newFakeEngine(0)
	c := NewController(eng)
	c.Attach()
	var seen []model.PlaybackState
	c.OnTimeUpdate(func(s model.PlaybackState) { seen = append(seen, s) })
	eng.duration = 75
	eng.emit(EventLoadedData)
	if len(seen) != 1 || seen[0].Duration != 75 {
		t.Fatalf("expected duration notification, got %+v", seen)
	}
}

func TestSkipBackwardClampsToZero(t *testing.T) {
	c, _ := loadedController(t, 100, 4)
	if got := c.SkipBackward(DefaultSkip); got != 0 {
		t.Fatalf("expected seek target 0, got %v", got)
	}
	if got := c.Seek(42.5); got != 42.5 {
		t.Fatalf("expected in-range seek untouched, got %v", got)
	}
}

func TestEndedPausesAndNotifies(t *testing.T) {
	c, eng := loadedController(t, 100, 0)
	ended := 0
	c.OnEnded(func() { ended++ })
	if err := c.TogglePlayPause(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	eng.current = 100
	eng.emit(EventEnded)
	if ended != 1 {
		t.Fatalf("expected one ended signal, got %d", ended)
	}
	if c.State().IsPlaying || c.State().CurrentTime != 100 {
		t.Fatalf("expected paused at the end, got %+v", c.State())
	}
}

func TestTimeUpdateNotifiesListeners(t *testing.T) {
	c, eng := loadedController(t, 60, 0)
	var seen []model.PlaybackState
	c.OnTimeUpdate(func(s model.PlaybackState) { seen = append(seen, s) })
	eng.current = 12.5
	eng.emit(EventTimeUpdate)
	if len(seen) != 1 || seen[0].CurrentTime != 12.5 || seen[0].Duration != 60 {
		t.Fatalf("unexpected notifications: %+v", seen)
	}
}

func TestCloseReleasesSubscriptions(t *testing.T) {
	c, eng := loadedController(t, 60, 0)
	c.Attach()
	if len(eng.handlers) != 3 {
		t.Fatalf("expected 3 subscriptions, got %d", len(eng.handlers))
	}
	calls := 0
	c.OnTimeUpdate(func(model.PlaybackState) { calls++ })
	c.Close()
	if len(eng.handlers) != 0 {
		t.Fatalf("expected all subscriptions released, got %d", len(eng.handlers))
	}
	eng.emit(EventTimeUpdate)
	if calls != 0 {
		t.Fatalf("expected no callbacks after close")
	}
}

func TestFormatTime(t *testing.T) {
	cases := map[float64]string{
		95.9:   "1:35",
		0:      "0:00",
		59.999: "0:59",
		600:    "10:00",
		-3:     "0:00",
	}
	for in, want := range cases {
		if got := FormatTime(in); got != want {
			t.Fatalf("FormatTime(%v) = %q, want %q", in, got, want)
		}
	}
}
