// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuidle/internal/model"
	"github.com/verte-zerg/tuidle/internal/stats"
)

const (
	tabOverview = iota
	tabPlayers
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Source is the read side of the statistics store.
type Source interface {
	Load(ctx context.Context, userName string) (model.Statistics, error)
	List(ctx context.Context) ([]model.Statistics, error)
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	src        Source
	cfg        model.StatsConfig
	maxGuesses int

	player  model.Statistics
	players []model.Statistics
	errMsg  string

	tabs         []string
	activeTab    int
	overview     viewport.Model
	playersTable table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model. maxGuesses sets how many
// distribution buckets are always shown.
func NewModel(src Source, cfg model.StatsConfig, maxGuesses int) *Model {
	m := &Model{
		src:          src,
		cfg:          cfg,
		maxGuesses:   maxGuesses,
		tabs:         []string{"Overview", "Players"},
		overview:     viewport.New(0, 0),
		playersTable: buildPlayersTable(nil, 0, 1),
	}
	if cfg.All {
		m.activeTab = tabPlayers
		m.playersTable.Focus()
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h", "right", "l", "tab":
			m.toggleTab()
			return m, tea.ClearScreen
		case "r":
			m.refresh()
			return m, nil
		case "g", "home":
			if m.activeTab == tabPlayers {
				m.playersTable.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabPlayers {
				m.playersTable.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if m.activeTab == tabPlayers {
				m.playersTable, cmd = m.playersTable.Update(msg)
				return m, cmd
			}
			m.overview, cmd = m.overview.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) refresh() {
	ctx := context.Background()
	player, err := m.src.Load(ctx, m.cfg.Username)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	players, err := m.src.List(ctx)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.player = player
	m.players = players
	m.playersTable.SetRows(playerRows(players))
	m.renderOverview()
}

func (m *Model) toggleTab() {
	m.activeTab = (m.activeTab + 1) % len(m.tabs)
	if m.activeTab == tabPlayers {
		m.playersTable.Focus()
	} else {
		m.playersTable.Blur()
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.playersTable.SetWidth(m.width)
	m.playersTable.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := fmt.Sprintf("Player: %s  Players stored: %d", stats.PlayerName(m.cfg.Username), len(m.players))
	return tabs + "\n" + padLines(headerStyle.Render(truncateLine(summary, m.width)), m.width)
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Refresh: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.activeTab == tabPlayers {
		if len(m.players) == 0 {
			return "No players found."
		}
		return tableMutedStyle.Render(m.playersTable.View())
	}
	return m.overview.View()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		m.overview.SetContent("Failed to load stats.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.player, m.maxGuesses, width))
}

func renderOverview(s model.Statistics, maxGuesses, width int) string {
	if s.GamesPlayed == 0 {
		return fmt.Sprintf("No games played yet by %s.", stats.PlayerName(s.UserName))
	}
	cards := renderSummaryCards(s, width)
	var buf bytes.Buffer
	opts := stats.DistributionOptions{Buckets: maxGuesses, Width: width, ForceColor: true}
	if err := stats.RenderDistribution(&buf, s, opts); err != nil {
		return fmt.Sprintf("Failed to render distribution: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(s model.Statistics, width int) string {
	cards := []string{
		metricCard("Played", fmt.Sprintf("%d", s.GamesPlayed)),
		metricCard("Win %", fmt.Sprintf("%.0f", s.WinRate())),
		metricCard("Streak", fmt.Sprintf("%d", s.CurrentStreak)),
		metricCard("Max Streak", fmt.Sprintf("%d", s.MaxStreak)),
		metricCard("Avg Guesses", fmt.Sprintf("%.2f", s.AvgGuesses())),
		metricCard("Best Time", stats.FormatBestTime(s.BestTime)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func playerColumns() []table.Column {
	widths := []int{16, 7, 6, 7, 11, 12, 10}
	columns := make([]table.Column, 0, len(stats.PlayerHeaders))
	for i, title := range stats.PlayerHeaders {
		columns = append(columns, table.Column{Title: title, Width: widths[i]})
	}
	return columns
}

func playerRows(all []model.Statistics) []table.Row {
	raw := stats.PlayerRows(all)
	rows := make([]table.Row, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, table.Row(r))
	}
	return rows
}

func buildPlayersTable(all []model.Statistics, width, height int) table.Model {
	t := table.New(
		table.WithColumns(playerColumns()),
		table.WithRows(playerRows(all)),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
