// Package model defines shared data structures.
package model

import "time"

// CaptionSegment is a time-stamped block of transcript text, in seconds.
type CaptionSegment struct {
	StartTime float64 `json:"startTime" yaml:"startTime"`
	EndTime   float64 `json:"endTime" yaml:"endTime"`
	Text      string  `json:"text" yaml:"text"`
}

// Word is a single transcript word with its interpolated timing and highlight flags.
type Word struct {
	Text   string
	Start  float64
	End    float64
	Active bool
	Passed bool
}

// Lit reports whether the word is displayed fully lit.
func (w Word) Lit() bool {
	return w.Passed || w.Active
}

// Paragraph is a display window [Start, End) into a word list.
type Paragraph struct {
	Start int
	End   int
}

// Len returns the number of words in the paragraph.
func (p Paragraph) Len() int {
	return p.End - p.Start
}

// PlaybackState is owned by the transport controller.
type PlaybackState struct {
	CurrentTime float64
	Duration    float64
	IsPlaying   bool
}

// Progress returns the playback position as a fraction (0-1).
func (s PlaybackState) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	p := s.CurrentTime / s.Duration
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// ModuleContent is the playable part of a module record.
type ModuleContent struct {
	AudioURL        string           `json:"audioUrl" yaml:"audioUrl"`
	DurationSeconds float64          `json:"durationSeconds,omitempty" yaml:"durationSeconds,omitempty"`
	Captions        []CaptionSegment `json:"captions" yaml:"captions"`
}

// ModuleRecord is the record supplied by the content service.
type ModuleRecord struct {
	ID      string        `json:"id" yaml:"id"`
	Title   string        `json:"title" yaml:"title"`
	Content ModuleContent `json:"content" yaml:"content"`
}

// Found reports whether the record carries an audio resource locator.
func (r ModuleRecord) Found() bool {
	return r.Content.AudioURL != ""
}

// PlayerConfig defines player settings.
type PlayerConfig struct {
	Skip          float64
	ParagraphSize int
	Deadband      float64
	Tick          time.Duration
	Autoplay      bool
	Resume        bool
}

// HistoryConfig defines filters for history output.
type HistoryConfig struct {
	Since *time.Time
	Last  int
}

// ListenStats captures one listening session.
type ListenStats struct {
	ModuleID  string
	Title     string
	AudioURL  string
	StartedAt time.Time
	EndedAt   time.Time
	Position  float64
	Duration  float64
	// Listened is media time played, excluding pauses and seeks.
	Listened  float64
	Completed bool
}

// ListenAggregate summarizes a stored listening session.
type ListenAggregate struct {
	ListenID  int64
	ModuleID  string
	Title     string
	EndedAt   time.Time
	Listened  float64
	Position  float64
	Duration  float64
	Completed bool
}
