// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuidle/internal/dictionary"
	"github.com/verte-zerg/tuidle/internal/game"
	"github.com/verte-zerg/tuidle/internal/model"
	statsPkg "github.com/verte-zerg/tuidle/internal/stats"
)

// SessionFactory creates a fresh, unstarted session for every game.
type SessionFactory func() (*game.Session, error)

// StatsLoader reads the player's record for the footer.
type StatsLoader interface {
	Load(ctx context.Context, userName string) (model.Statistics, error)
}

// Config wires the model to the engine.
type Config struct {
	Settings   model.Settings
	NewSession SessionFactory
	Stats      StatsLoader
	Logger     *zap.Logger
	// Timeout bounds each Start and Submit; zero means no limit.
	Timeout time.Duration
}

type sessionStartedMsg struct {
	session *game.Session
	err     error
}

type submittedMsg struct {
	session *game.Session
	out     game.Outcome
	err     error
}

type statsLoadedMsg struct {
	stats model.Statistics
	err   error
}

// Model implements the Bubble Tea game UI.
type Model struct {
	cfg    Config
	logger *zap.Logger
	keys   keyMap
	help   help.Model

	width  int
	height int

	session *game.Session
	// pending is set while a Start or Submit command is in flight; input is
	// ignored until its result arrives.
	pending bool
	outcome *game.Outcome

	status    string
	statusErr bool

	stats    *model.Statistics
	hasStats bool
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	wonStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6AAA64")).Bold(true)
	lostStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// NewModel constructs a game TUI model.
func NewModel(cfg Config) *Model {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Model{
		cfg:    cfg,
		logger: logger.With(zap.String("component", "tui")),
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.pending = true
	m.setStatus("Fetching a word...", false)
	cmds := []tea.Cmd{m.startCmd()}
	if m.cfg.Stats != nil {
		cmds = append(cmds, m.loadStatsCmd())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case sessionStartedMsg:
		return m.handleStarted(msg)
	case submittedMsg:
		return m.handleSubmitted(msg)
	case statsLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to load statistics", zap.Error(msg.err))
			return m, nil
		}
		if m.hasStats {
			return m, nil
		}
		stats := msg.stats
		m.stats = &stats
		m.hasStats = true
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NewGame):
		return m.restart()
	}
	if m.pending || m.session == nil {
		return m, nil
	}
	if m.session.State().Terminal() {
		if key.Matches(msg, m.keys.Submit) {
			return m.restart()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		m.pending = true
		return m, m.submitCmd(m.session)
	case key.Matches(msg, m.keys.Delete):
		if err := m.session.Backspace(); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.clearStatus()
		return m, nil
	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			if err := m.session.TypeLetter(r); err != nil {
				m.setStatus(rejectionText(err), true)
				return m, nil
			}
		}
		m.clearStatus()
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) restart() (tea.Model, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	m.session = nil
	m.outcome = nil
	m.pending = true
	m.setStatus("Fetching a word...", false)
	return m, m.startCmd()
}

func (m *Model) handleStarted(msg sessionStartedMsg) (tea.Model, tea.Cmd) {
	m.pending = false
	if msg.err != nil {
		m.logger.Error("failed to start session", zap.Error(msg.err))
		m.setStatus(fmt.Sprintf("failed to start game: %v (ctrl+n to retry)", msg.err), true)
		return m, nil
	}
	m.session = msg.session
	m.clearStatus()
	return m, nil
}

func (m *Model) handleSubmitted(msg submittedMsg) (tea.Model, tea.Cmd) {
	if msg.session != m.session {
		return m, nil
	}
	m.pending = false
	if msg.err != nil {
		m.setStatus(rejectionText(msg.err), true)
		return m, nil
	}
	out := msg.out
	if !out.State.Terminal() {
		m.clearStatus()
		return m, nil
	}

	m.outcome = &out
	if out.Stats != nil {
		stats := out.Stats.Clone()
		m.stats = &stats
		m.hasStats = true
	}
	if out.Warning != nil {
		m.logger.Warn("statistics not saved", zap.Error(out.Warning))
		m.setStatus(fmt.Sprintf("statistics not saved: %v", out.Warning), true)
		return m, nil
	}
	m.clearStatus()
	return m, nil
}

// rejectionText turns a session rejection into a short status line.
func rejectionText(err error) string {
	switch {
	case errors.Is(err, game.ErrIncompleteRow):
		return "Not enough letters"
	case errors.Is(err, dictionary.ErrValidationUncertain):
		return "Could not verify the word, try again"
	case errors.Is(err, game.ErrNotAWord):
		return "Not in word list"
	case errors.Is(err, game.ErrHardModeViolation):
		return "Hard mode: " + strings.TrimPrefix(err.Error(), game.ErrHardModeViolation.Error()+": ")
	case errors.Is(err, game.ErrInvalidLetter):
		return "Letters only"
	case errors.Is(err, context.DeadlineExceeded):
		return "Timed out, try again"
	default:
		return err.Error()
	}
}

func (m *Model) startCmd() tea.Cmd {
	factory := m.cfg.NewSession
	timeout := m.cfg.Timeout
	return func() tea.Msg {
		s, err := factory()
		if err != nil {
			return sessionStartedMsg{err: err}
		}
		ctx, cancel := commandContext(timeout)
		defer cancel()
		if err := s.Start(ctx); err != nil {
			return sessionStartedMsg{err: err}
		}
		return sessionStartedMsg{session: s}
	}
}

func (m *Model) submitCmd(s *game.Session) tea.Cmd {
	timeout := m.cfg.Timeout
	return func() tea.Msg {
		ctx, cancel := commandContext(timeout)
		defer cancel()
		out, err := s.Submit(ctx)
		return submittedMsg{session: s, out: out, err: err}
	}
}

func (m *Model) loadStatsCmd() tea.Cmd {
	loader := m.cfg.Stats
	userName := m.cfg.Settings.Username
	timeout := m.cfg.Timeout
	return func() tea.Msg {
		ctx, cancel := commandContext(timeout)
		defer cancel()
		stats, err := loader.Load(ctx, userName)
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func commandContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderContent()
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderContent() string {
	board := emptyBoard(m.cfg.Settings)
	hints := map[rune]model.HintKind{}
	if m.session != nil {
		board = m.session.Board()
		hints = m.session.KeyboardHints()
	}

	parts := []string{titleStyle.Render("tuidle"), "", renderBoard(board), ""}
	if m.cfg.Settings.KeyboardActive {
		parts = append(parts, renderKeyboard(hints), "")
	}
	if m.outcome != nil {
		parts = append(parts, m.renderResult(), "")
	}
	if m.status != "" {
		style := statusStyle
		if m.statusErr {
			style = errorStyle
		}
		parts = append(parts, style.Render(m.status))
	}
	parts = append(parts, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

func (m *Model) renderResult() string {
	out := m.outcome
	var headline string
	highlight := 0
	if out.State == game.Won {
		headline = wonStyle.Render(fmt.Sprintf("Solved in %d/%d · %s", out.Guesses, m.cfg.Settings.MaxGuesses, statsPkg.FormatDuration(out.Duration)))
		highlight = out.Guesses
	} else {
		headline = lostStyle.Render(fmt.Sprintf("The word was %s", out.Mystery))
	}
	lines := []string{headline}
	if out.Stats != nil {
		s := *out.Stats
		lines = append(lines,
			statusStyle.Render(fmt.Sprintf("Played %d · Win %.0f%% · Streak %d · Max %d", s.GamesPlayed, s.WinRate(), s.CurrentStreak, s.MaxStreak)),
		)
		if s.GamesWon > 0 {
			lines = append(lines, renderDistribution(s, m.cfg.Settings.MaxGuesses, highlight))
		}
	}
	lines = append(lines, statusStyle.Render("enter or ctrl+n for a new game"))
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderFooter() string {
	if !m.hasStats || m.stats == nil {
		return ""
	}
	s := m.stats
	segments := []string{
		statsPkg.PlayerName(s.UserName),
		fmt.Sprintf("Played %d", s.GamesPlayed),
		fmt.Sprintf("Win %.0f%%", s.WinRate()),
		fmt.Sprintf("Streak %d (max %d)", s.CurrentStreak, s.MaxStreak),
	}
	if s.BestTime != nil {
		segments = append(segments, "Best "+statsPkg.FormatBestTime(s.BestTime))
	}
	if m.cfg.Settings.HardMode {
		segments = append(segments, "Hard mode")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
