// Package transport owns play/pause/seek state on top of a media engine.
package transport

// Event names a media engine notification.
type Event string

// Engine notifications.
const (
	EventTimeUpdate Event = "timeupdate"
	EventLoadedData Event = "loadeddata"
	EventEnded      Event = "ended"
)

// Subscription is a registered engine callback.
type Subscription interface {
	Close()
}

// Engine is the media playback capability set.
type Engine interface {
	CurrentTime() float64
	SetCurrentTime(t float64)
	Duration() float64
	Play() error
	Pause()
	Subscribe(event Event, fn func()) Subscription
}
