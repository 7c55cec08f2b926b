// Package tui provides the Bubble Tea transcript player.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuicast/internal/engine"
	"github.com/verte-zerg/tuicast/internal/model"
	"github.com/verte-zerg/tuicast/internal/scroll"
	"github.com/verte-zerg/tuicast/internal/transcript"
	"github.com/verte-zerg/tuicast/internal/transport"
)

const (
	headerHeight = 1
	footerHeight = 2
	contentRatio = 0.70
)

// History persists listening sessions.
type History interface {
	LastPosition(ctx context.Context, moduleID string) (float64, bool, error)
	InsertListen(ctx context.Context, stats model.ListenStats) (int64, error)
}

type tickMsg time.Time

// Model implements the Bubble Tea player UI.
type Model struct {
	config  model.PlayerConfig
	record  model.ModuleRecord
	history History

	clock *engine.Clock
	ctrl  *transport.Controller
	sync  *scroll.Synchronizer

	words      []model.Word
	lit        []model.Word
	paragraphs []model.Paragraph
	layout     wordLayout
	vp         viewport.Model

	width  int
	height int

	notice    string
	listened  float64
	played    bool
	ended     bool
	closed    bool
	startedAt time.Time
}

var (
	spokenStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	pendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	activeWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noticeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// NewModel builds a player for rec. duration is the media length in seconds.
func NewModel(cfg model.PlayerConfig, rec model.ModuleRecord, duration float64, history History) *Model {
	if cfg.Tick <= 0 {
		cfg.Tick = 250 * time.Millisecond
	}
	if cfg.Skip <= 0 {
		cfg.Skip = transport.DefaultSkip
	}
	m := &Model{
		config:    cfg,
		record:    rec,
		history:   history,
		vp:        viewport.New(0, 0),
		startedAt: time.Now(),
	}
	if !rec.Found() {
		return m
	}

	for _, idx := range transcript.MalformedSegments(rec.Content.Captions) {
		seg := rec.Content.Captions[idx]
		logErrf("skipping caption %d with invalid timing %.3f-%.3f\n", idx, seg.StartTime, seg.EndTime)
	}
	m.words = transcript.DeriveWords(rec.Content.Captions)
	m.lit = transcript.Highlight(m.words, 0)
	m.paragraphs = transcript.GroupParagraphs(len(m.words), cfg.ParagraphSize)
	m.sync = scroll.NewSynchronizer(cfg.Deadband)

	m.clock = engine.NewClock()
	m.ctrl = transport.NewController(m.clock)
	m.ctrl.Attach()
	m.ctrl.OnTimeUpdate(m.handleTimeUpdate)
	m.ctrl.OnEnded(m.handleEnded)
	m.clock.Load(duration)

	if cfg.Resume {
		m.resume()
	}
	if cfg.Autoplay {
		m.togglePlay()
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.clock == nil {
		return nil
	}
	return m.tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.relayout()
		return m, nil
	case tickMsg:
		if m.clock == nil || m.closed {
			return m, nil
		}
		m.advance(time.Time(msg))
		if m.ended {
			m.Close()
			return m, tea.Quit
		}
		return m, m.tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := lipgloss.Place(m.width, headerHeight, lipgloss.Center, lipgloss.Top, titleStyle.Render(runewidth.Truncate(m.title(), m.width, "…")))
	bodyHeight := m.bodyHeight()
	var body string
	switch {
	case !m.record.Found():
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, "Content not found.")
	case len(m.words) == 0:
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, "No transcript available.")
	default:
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Top, m.vp.View())
	}
	footer := lipgloss.Place(m.width, footerHeight, lipgloss.Center, lipgloss.Bottom, m.renderFooter())
	return header + "\n" + body + "\n" + footer
}

// Ended reports whether playback reached the end of the media.
func (m *Model) Ended() bool {
	return m.ended
}

// State returns the transport state.
func (m *Model) State() model.PlaybackState {
	if m.ctrl == nil {
		return model.PlaybackState{}
	}
	return m.ctrl.State()
}

// Close records the listen and releases engine subscriptions. It is safe to call twice.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	if m.ctrl == nil {
		return
	}
	m.saveListen()
	m.ctrl.Close()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.Close()
		return m, tea.Quit
	}
	if m.ctrl == nil || m.closed {
		return m, nil
	}
	state := m.ctrl.State()
	switch key := msg.String(); key {
	case " ", "space", "k":
		m.togglePlay()
	case "left", "h":
		m.ctrl.SkipBackward(m.config.Skip)
	case "right", "l":
		m.ctrl.SkipForward(m.config.Skip)
	case "home", "g":
		m.ctrl.Seek(0)
	case "end", "G":
		m.ctrl.Seek(state.Duration)
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.ctrl.Seek(state.Duration * float64(key[0]-'0') / 10)
	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) togglePlay() {
	if err := m.ctrl.TogglePlayPause(); err != nil {
		if errors.Is(err, engine.ErrNotLoaded) {
			m.notice = "Playback unavailable: media not loaded"
		} else {
			m.notice = "Playback blocked: " + err.Error()
		}
		return
	}
	m.notice = ""
	if m.ctrl.State().IsPlaying {
		m.played = true
	}
}

// advance moves the clock and counts media time played since the previous tick.
// Seeks move the clock between ticks and are not counted.
func (m *Model) advance(now time.Time) {
	before := m.clock.CurrentTime()
	wasPlaying := m.clock.Playing()
	m.clock.Advance(now)
	if !wasPlaying {
		return
	}
	if d := m.clock.CurrentTime() - before; d > 0 {
		m.listened += d
	}
}

func (m *Model) handleTimeUpdate(state model.PlaybackState) {
	m.lit = transcript.Highlight(m.words, state.CurrentTime)
	m.refresh()
}

func (m *Model) handleEnded() {
	m.ended = true
}

func (m *Model) resume() {
	if m.history == nil {
		return
	}
	pos, ok, err := m.history.LastPosition(context.Background(), m.moduleID())
	if err != nil {
		logErrf("failed to load resume position: %v\n", err)
		return
	}
	if !ok {
		return
	}
	m.ctrl.Seek(pos)
	m.clock.Advance(time.Now())
}

func (m *Model) saveListen() {
	if m.history == nil || !m.played {
		return
	}
	state := m.ctrl.State()
	stats := model.ListenStats{
		ModuleID:  m.moduleID(),
		Title:     m.record.Title,
		AudioURL:  m.record.Content.AudioURL,
		StartedAt: m.startedAt,
		EndedAt:   time.Now(),
		Position:  state.CurrentTime,
		Duration:  state.Duration,
		Listened:  m.listened,
		Completed: m.ended,
	}
	if _, err := m.history.InsertListen(context.Background(), stats); err != nil {
		logErrf("failed to save listen: %v\n", err)
	}
}

func (m *Model) relayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	contentWidth := int(float64(m.width) * contentRatio)
	if contentWidth < 1 {
		contentWidth = 1
	}
	m.vp.Width = contentWidth
	m.vp.Height = m.bodyHeight()
	m.layout = layoutWords(m.words, m.paragraphs, contentWidth)
	if m.sync != nil {
		m.sync.Reset()
	}
	m.refresh()
}

func (m *Model) refresh() {
	if m.vp.Width <= 0 || len(m.words) == 0 {
		return
	}
	m.vp.SetContent(renderLayout(m.lit, m.layout))
	m.sync.Sync(m.lit, viewportLayout{vp: &m.vp, rows: m.layout.rows})
}

func (m *Model) bodyHeight() int {
	h := m.height - headerHeight - footerHeight
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) renderFooter() string {
	if m.ctrl == nil {
		return footerStyle.Render("q back")
	}
	state := m.ctrl.State()
	icon := "⏸ Paused"
	if state.IsPlaying {
		icon = "▶ Playing"
	}
	segments := []string{
		icon,
		fmt.Sprintf("%s / %s", transport.FormatTime(state.CurrentTime), transport.FormatTime(state.Duration)),
		fmt.Sprintf("%d%%", int(state.Progress()*100)),
	}
	status := footerStyle.Render(strings.Join(segments, "  "))
	if m.notice != "" {
		status += "  " + noticeStyle.Render(m.notice)
	}
	help := footerStyle.Render(fmt.Sprintf("space play/pause  ←/→ %gs  0-9 seek  ↑/↓ scroll  q back", m.config.Skip))
	return status + "\n" + help
}

func (m *Model) title() string {
	if m.record.Title != "" {
		return m.record.Title
	}
	if m.record.ID != "" {
		return m.record.ID
	}
	return "tuicast"
}

func (m *Model) moduleID() string {
	if m.record.ID != "" {
		return m.record.ID
	}
	return m.record.Content.AudioURL
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.config.Tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
