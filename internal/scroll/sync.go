// Package scroll keeps the active transcript word centred in its container.
package scroll

import (
	"math"

	"github.com/verte-zerg/tuicast/internal/model"
	"github.com/verte-zerg/tuicast/internal/transcript"
)

// DefaultDeadband is the smallest correction, in layout units, that is applied.
const DefaultDeadband = 50

// Layout measures the host rendering surface.
type Layout interface {
	// ContainerExtent is the visible height of the scroll container.
	ContainerExtent() float64
	// TargetPosition returns the offset of a word relative to the visible top and its height.
	TargetPosition(index int) (offset, extent float64, ok bool)
	// ScrollBy moves the container content by delta.
	ScrollBy(delta float64)
}

// Result describes what a Sync call did.
type Result struct {
	Index   int
	Delta   float64
	Applied bool
}

// Synchronizer tracks the last centred word.
type Synchronizer struct {
	Deadband float64
	last     int
}

// NewSynchronizer returns a Synchronizer with the given deadband.
// A negative deadband selects DefaultDeadband.
func NewSynchronizer(deadband float64) *Synchronizer {
	if deadband < 0 {
		deadband = DefaultDeadband
	}
	return &Synchronizer{Deadband: deadband, last: -1}
}

// Reset forgets the last centred word so the next Sync recentres.
func (s *Synchronizer) Reset() {
	s.last = -1
}

// Sync scrolls the layout when the active word changed and is far enough from centre.
func (s *Synchronizer) Sync(words []model.Word, layout Layout) Result {
	idx := transcript.ActiveIndex(words)
	if idx < 0 || idx == s.last {
		return Result{Index: idx}
	}
	offset, extent, ok := layout.TargetPosition(idx)
	if !ok {
		return Result{Index: idx}
	}
	s.last = idx
	delta := CenterDelta(layout.ContainerExtent(), offset, extent)
	if math.Abs(delta) <= s.Deadband {
		return Result{Index: idx, Delta: delta}
	}
	layout.ScrollBy(delta)
	return Result{Index: idx, Delta: delta, Applied: true}
}

// CenterDelta is the scroll offset that moves a target's centre to the container's centre.
func CenterDelta(container, offset, extent float64) float64 {
	return offset + extent/2 - container/2
}
