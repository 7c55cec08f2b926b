package transcript

import "github.com/verte-zerg/tuicast/internal/model"

// Highlight returns a copy of words with Active and Passed set for the playback time t.
// A word is active on [Start, End) and passed from End onward, so a boundary instant belongs
// to the following word.
func Highlight(words []model.Word, t float64) []model.Word {
	out := make([]model.Word, len(words))
	for i, w := range words {
		w.Active = t >= w.Start && t < w.End
		w.Passed = t >= w.End
		out[i] = w
	}
	return out
}

// ActiveIndex returns the index of the first active word, or -1.
func ActiveIndex(words []model.Word) int {
	for i, w := range words {
		if w.Active {
			return i
		}
	}
	return -1
}

// PassedCount counts words already spoken.
func PassedCount(words []model.Word) int {
	n := 0
	for _, w := range words {
		if w.Passed {
			n++
		}
	}
	return n
}
