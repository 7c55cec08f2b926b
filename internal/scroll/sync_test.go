package scroll

import (
	"testing"

	"github.com/verte-zerg/tuicast/internal/model"
)

type fakeLayout struct {
	container float64
	rows      []float64
	height    float64
	top       float64
	scrolls   []float64
}

func (f *fakeLayout) ContainerExtent() float64 { return f.container }

func (f *fakeLayout) TargetPosition(index int) (float64, float64, bool) {
	if index < 0 || index >= len(f.rows) {
		return 0, 0, false
	}
	return f.rows[index] - f.top, f.height, true
}

func (f *fakeLayout) ScrollBy(delta float64) {
	f.top += delta
	f.scrolls = append(f.scrolls, delta)
}

func activeAt(n, idx int) []model.Word {
	words := make([]model.Word, n)
	if idx >= 0 {
		words[idx].Active = true
	}
	return words
}

func TestSyncCentersActiveWord(t *testing.T) {
	layout := &fakeLayout{container: 400, rows: []float64{0, 100, 500}, height: 20}
	s := NewSynchronizer(DefaultDeadband)

	res := s.Sync(activeAt(3, 2), layout)
	if !res.Applied {
		t.Fatalf("expected scroll to be applied: %+v", res)
	}
	if len(layout.scrolls) != 1 || layout.scrolls[0] != 310 {
		t.Fatalf("expected a 310 unit scroll, got %v", layout.scrolls)
	}
}

func TestSyncDeadband(t *testing.T) {
	layout := &fakeLayout{container: 400, rows: []float64{0, 220}, height: 20}
	s := NewSynchronizer(DefaultDeadband)

	res := s.Sync(activeAt(2, 1), layout)
	if res.Applied || len(layout.scrolls) != 0 {
		t.Fatalf("expected no scroll inside the deadband: %+v", res)
	}
	if res.Delta != 30 {
		t.Fatalf("expected delta 30, got %v", res.Delta)
	}
}

func TestSyncSameIndexIsNoop(t *testing.T) {
	layout := &fakeLayout{container: 400, rows: []float64{0, 900}, height: 20}
	s := NewSynchronizer(DefaultDeadband)
	s.Sync(activeAt(2, 1), layout)
	layout.top = 0
	s.Sync(activeAt(2, 1), layout)
	if len(layout.scrolls) != 1 {
		t.Fatalf("expected a single scroll for a repeated index, got %v", layout.scrolls)
	}
	s.Reset()
	s.Sync(activeAt(2, 1), layout)
	if len(layout.scrolls) != 2 {
		t.Fatalf("expected reset to allow recentring, got %v", layout.scrolls)
	}
}

func TestSyncNoActiveWordKeepsPosition(t *testing.T) {
	layout := &fakeLayout{container: 400, rows: []float64{0, 900}, height: 20, top: 600}
	s := NewSynchronizer(DefaultDeadband)
	res := s.Sync(activeAt(2, -1), layout)
	if res.Index != -1 || res.Applied || layout.top != 600 {
		t.Fatalf("expected scroll position to stay put: %+v top=%v", res, layout.top)
	}
}

func TestNewSynchronizerNegativeDeadband(t *testing.T) {
	if s := NewSynchronizer(-1); s.Deadband != DefaultDeadband {
		t.Fatalf("expected default deadband, got %v", s.Deadband)
	}
}
