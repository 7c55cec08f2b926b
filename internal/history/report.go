// Package history summarizes listening sessions.
package history

import (
	"context"
	"sort"
	"time"

	"github.com/verte-zerg/tuicast/internal/model"
	"github.com/verte-zerg/tuicast/internal/store"
)

// ModuleSummary aggregates listens of one module.
type ModuleSummary struct {
	ModuleID   string
	Title      string
	Sessions   int
	Listened   float64
	Position   float64
	Duration   float64
	Completed  bool
	LastListen time.Time
}

// Progress returns the last position as a fraction of the duration.
func (m ModuleSummary) Progress() float64 {
	state := model.PlaybackState{CurrentTime: m.Position, Duration: m.Duration}
	return state.Progress()
}

// Report contains precomputed data for history rendering.
type Report struct {
	Listens       []model.ListenAggregate
	Modules       []ModuleSummary
	TotalListened float64
	Completed     int
}

// BuildReport loads listens and groups them per module, most recent first.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (Report, error) {
	listens, err := st.ListListens(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	return Summarize(listens), nil
}

// Summarize groups listens, which must be ordered oldest first.
func Summarize(listens []model.ListenAggregate) Report {
	report := Report{Listens: listens}
	byID := map[string]*ModuleSummary{}
	order := []string{}
	for _, l := range listens {
		report.TotalListened += l.Listened
		sum, ok := byID[l.ModuleID]
		if !ok {
			sum = &ModuleSummary{ModuleID: l.ModuleID}
			byID[l.ModuleID] = sum
			order = append(order, l.ModuleID)
		}
		sum.Sessions++
		sum.Listened += l.Listened
		sum.Title = l.Title
		sum.Position = l.Position
		sum.Duration = l.Duration
		sum.Completed = sum.Completed || l.Completed
		sum.LastListen = l.EndedAt
	}
	for _, id := range order {
		sum := byID[id]
		if sum.Completed {
			report.Completed++
		}
		report.Modules = append(report.Modules, *sum)
	}
	sort.SliceStable(report.Modules, func(i, j int) bool {
		return report.Modules[i].LastListen.After(report.Modules[j].LastListen)
	})
	return report
}
