// Package transcript derives word timings and highlight state from caption segments.
package transcript

import (
	"math"
	"strings"

	"github.com/verte-zerg/tuicast/internal/model"
)

// DeriveWords splits each segment on whitespace and spreads its duration evenly across the words.
// Segments without words or with a non-positive duration contribute nothing.
func DeriveWords(segments []model.CaptionSegment) []model.Word {
	words := make([]model.Word, 0, len(segments)*8)
	for _, seg := range segments {
		if !wellFormed(seg) {
			continue
		}
		tokens := strings.Fields(seg.Text)
		if len(tokens) == 0 {
			continue
		}
		per := (seg.EndTime - seg.StartTime) / float64(len(tokens))
		for k, token := range tokens {
			start := seg.StartTime + float64(k)*per
			words = append(words, model.Word{
				Text:  token,
				Start: start,
				End:   start + per,
			})
		}
	}
	return words
}

// MalformedSegments returns the indexes of segments skipped for invalid timing.
func MalformedSegments(segments []model.CaptionSegment) []int {
	var out []int
	for i, seg := range segments {
		if !wellFormed(seg) {
			out = append(out, i)
		}
	}
	return out
}

func wellFormed(seg model.CaptionSegment) bool {
	if math.IsNaN(seg.StartTime) || math.IsNaN(seg.EndTime) {
		return false
	}
	if math.IsInf(seg.StartTime, 0) || math.IsInf(seg.EndTime, 0) {
		return false
	}
	return seg.EndTime > seg.StartTime
}

// LastEnd returns the end time of the last well-formed segment.
func LastEnd(segments []model.CaptionSegment) float64 {
	end := 0.0
	for _, seg := range segments {
		if wellFormed(seg) && seg.EndTime > end {
			end = seg.EndTime
		}
	}
	return end
}
