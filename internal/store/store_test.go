package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tuicast/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "tuicast.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func listen(moduleID string, minute int, position float64, completed bool) model.ListenStats {
	start := time.Unix(0, 0).UTC().Add(time.Duration(minute) * time.Minute)
	return model.ListenStats{
		ModuleID:  moduleID,
		Title:     "Episode " + moduleID,
		AudioURL:  "https://cdn.example/" + moduleID + ".mp3",
		StartedAt: start,
		EndedAt:   start.Add(45 * time.Second),
		Position:  position,
		Duration:  120,
		Listened:  40,
		Completed: completed,
	}
}

func TestLastPosition(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := st.LastPosition(ctx, "a"); err != nil || ok {
		t.Fatalf("expected no resume point, got ok=%v err=%v", ok, err)
	}
	if _, err := st.InsertListen(ctx, listen("a", 0, 30, false)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := st.InsertListen(ctx, listen("a", 5, 61.5, false)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	pos, ok, err := st.LastPosition(ctx, "a")
	if err != nil || !ok || pos != 61.5 {
		t.Fatalf("expected resume at 61.5, got %v ok=%v err=%v", pos, ok, err)
	}

	if _, err := st.InsertListen(ctx, listen("a", 10, 120, true)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, ok, _ := st.LastPosition(ctx, "a"); ok {
		t.Fatalf("expected completed listen to clear resume point")
	}
}

func TestListListensFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if _, err := st.InsertListen(ctx, listen("m", i, float64(i*10), i == 3)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	all, err := st.ListListens(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 || all[0].Listened != 40 || !all[3].Completed {
		t.Fatalf("unexpected listens: %+v", all)
	}

	last, err := st.ListListens(ctx, model.HistoryConfig{Last: 2})
	if err != nil {
		t.Fatalf("list last: %v", err)
	}
	if len(last) != 2 || last[0].ListenID != all[2].ListenID {
		t.Fatalf("unexpected last listens: %+v", last)
	}

	since := time.Unix(0, 0).UTC().Add(2 * time.Minute)
	recent, err := st.ListListens(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 listens since %v, got %d", since, len(recent))
	}
}

func TestListListensOrdersByInstant(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 29, 0, 59, 5, 0, time.UTC)
	east := time.FixedZone("UTC+2", 2*60*60)
	ends := []time.Time{
		base.Add(120 * time.Millisecond),
		base.Add(100 * time.Millisecond),
		base.Add(-time.Minute).In(east),
	}
	for i, end := range ends {
		stats := listen("m", 0, float64(i+1)*10, false)
		stats.EndedAt = end
		if _, err := st.InsertListen(ctx, stats); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	all, err := st.ListListens(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []float64{30, 20, 10}
	for i, l := range all {
		if l.Position != want[i] {
			t.Fatalf("listen %d: expected position %v, got %v", i, want[i], l.Position)
		}
	}
	if !all[0].EndedAt.Equal(ends[2]) {
		t.Fatalf("expected ended_at %v, got %v", ends[2], all[0].EndedAt)
	}

	pos, ok, err := st.LastPosition(ctx, "m")
	if err != nil || !ok || pos != 10 {
		t.Fatalf("expected latest listen at position 10, got %v ok=%v err=%v", pos, ok, err)
	}

	since := base.Add(110 * time.Millisecond).In(east)
	recent, err := st.ListListens(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 1 || recent[0].Position != 10 {
		t.Fatalf("expected only the latest listen, got %+v", recent)
	}
}
