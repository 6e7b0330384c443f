// Package game runs a single word-guessing session.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuidle/internal/hint"
	"github.com/verte-zerg/tuidle/internal/model"
)

// Session-level rejections. None of them changes the session state.
var (
	ErrNotStarted        = errors.New("game not started")
	ErrGameOver          = errors.New("game is over")
	ErrIncompleteRow     = errors.New("not enough letters")
	ErrNotAWord          = errors.New("not in word list")
	ErrBusy              = errors.New("submission already in progress")
	ErrHardModeViolation = errors.New("hard mode")
	ErrInvalidLetter     = errors.New("not a letter")
)

// State is the session lifecycle position.
type State int

// Session states.
const (
	Initializing State = iota
	InProgress
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "initializing"
	}
}

// Terminal reports whether no further guesses are accepted.
func (s State) Terminal() bool {
	return s == Won || s == Lost
}

// WordSource supplies the mystery word.
type WordSource interface {
	MysteryWord(ctx context.Context, length int) (string, error)
}

// Validator decides whether a guess is a real word.
type Validator interface {
	Validate(ctx context.Context, word string) (bool, error)
}

// StatsStore is the part of store.Store a session needs.
type StatsStore interface {
	Load(ctx context.Context, userName string) (model.Statistics, error)
	Save(ctx context.Context, stats model.Statistics) error
}

// Outcome describes an accepted submission.
type Outcome struct {
	Row     []model.LetterHint
	State   State
	Guesses int
	// Set only once the session is terminal.
	Duration time.Duration
	Mystery  string
	Stats    *model.Statistics
	// Warning carries a persistence failure. The result of the game stands.
	Warning error
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// Session owns the board and drives one game from start to finish.
// All methods are safe to call from multiple goroutines; overlapping
// submissions are rejected with ErrBusy.
type Session struct {
	id        string
	settings  model.Settings
	words     WordSource
	validator Validator
	store     StatsStore
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.Mutex
	busy    bool
	state   State
	board   [][]model.LetterHint
	cursor  int
	col     int
	mystery []rune
	started time.Time
	stats   *model.Statistics
}

// New creates a session in the Initializing state.
func New(settings model.Settings, words WordSource, validator Validator, store StatsStore, opts ...Option) (*Session, error) {
	if settings.WordLength <= 0 {
		return nil, fmt.Errorf("word length must be positive, got %d", settings.WordLength)
	}
	if settings.MaxGuesses <= 0 {
		return nil, fmt.Errorf("max guesses must be positive, got %d", settings.MaxGuesses)
	}
	if words == nil || validator == nil || store == nil {
		return nil, errors.New("word source, validator and store are required")
	}
	s := &Session{
		id:        uuid.NewString(),
		settings:  settings,
		words:     words,
		validator: validator,
		store:     store,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("component", "game"), zap.String("session", s.id))
	return s, nil
}

// Start fetches the mystery word and opens the board. A failed Start leaves
// the session in Initializing and may be retried.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Initializing {
		s.mu.Unlock()
		return fmt.Errorf("session already started")
	}
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	s.mu.Unlock()
	defer s.release()

	word, err := s.words.MysteryWord(ctx, s.settings.WordLength)
	if err != nil {
		s.logger.Warn("mystery word unavailable", zap.Error(err))
		return err
	}
	mystery := []rune(strings.ToUpper(word))
	if len(mystery) != s.settings.WordLength {
		return fmt.Errorf("mystery word %q has %d letters, want %d", word, len(mystery), s.settings.WordLength)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mystery = mystery
	s.board = make([][]model.LetterHint, s.settings.MaxGuesses)
	for i := range s.board {
		s.board[i] = make([]model.LetterHint, s.settings.WordLength)
	}
	s.cursor = 0
	s.col = 0
	s.started = s.now()
	s.state = InProgress
	s.logger.Info("session started",
		zap.Int("length", s.settings.WordLength),
		zap.Int("max_guesses", s.settings.MaxGuesses),
		zap.Bool("hard_mode", s.settings.HardMode),
	)
	return nil
}

// TypeLetter writes r into the next free cell of the current row. Typing
// into a full row is a no-op.
func (s *Session) TypeLetter(r rune) error {
	if !unicode.IsLetter(r) {
		return fmt.Errorf("%w: %q", ErrInvalidLetter, r)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	if s.col >= s.settings.WordLength {
		return nil
	}
	s.board[s.cursor][s.col] = model.LetterHint{Letter: unicode.ToUpper(r)}
	s.col++
	return nil
}

// Backspace clears the last typed cell of the current row.
func (s *Session) Backspace() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	if s.col == 0 {
		return nil
	}
	s.col--
	s.board[s.cursor][s.col] = model.LetterHint{}
	return nil
}

// Submit validates and scores the current row. Rejections leave the board
// untouched. When the guess ends the game the statistics are updated and
// saved before Submit returns.
func (s *Session) Submit(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	if err := s.editableLocked(); err != nil {
		s.mu.Unlock()
		return Outcome{}, err
	}
	if s.col < s.settings.WordLength {
		s.mu.Unlock()
		return Outcome{}, ErrIncompleteRow
	}
	guess := s.rowWordLocked(s.cursor)
	if s.settings.HardMode {
		if err := checkHardMode(s.board[:s.cursor], []rune(guess)); err != nil {
			s.mu.Unlock()
			return Outcome{}, err
		}
	}
	s.busy = true
	s.mu.Unlock()
	defer s.release()

	ok, err := s.validator.Validate(ctx, guess)
	if err != nil {
		s.logger.Warn("guess could not be verified", zap.String("guess", guess), zap.Error(err))
		return Outcome{}, fmt.Errorf("%w: %w", ErrNotAWord, err)
	}
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrNotAWord, guess)
	}

	s.mu.Lock()
	hints, err := hint.Score(string(s.mystery), guess)
	if err != nil {
		s.mu.Unlock()
		return Outcome{}, err
	}
	copy(s.board[s.cursor], hints)
	s.cursor++
	s.col = 0
	switch {
	case hint.Solved(hints):
		s.state = Won
	case s.cursor == s.settings.MaxGuesses:
		s.state = Lost
	}
	out := Outcome{
		Row:     append([]model.LetterHint(nil), hints...),
		State:   s.state,
		Guesses: s.cursor,
	}
	if !s.state.Terminal() {
		s.mu.Unlock()
		s.logger.Debug("guess accepted", zap.Int("row", out.Guesses))
		return out, nil
	}
	out.Duration = s.now().Sub(s.started)
	out.Mystery = string(s.mystery)
	s.mu.Unlock()

	stats, warning := s.record(ctx, out)
	out.Stats = &stats
	out.Warning = warning

	s.mu.Lock()
	s.stats = &stats
	s.mu.Unlock()

	s.logger.Info("session finished",
		zap.Stringer("state", out.State),
		zap.Int("guesses", out.Guesses),
		zap.Duration("duration", out.Duration),
	)
	return out, nil
}

// record folds a finished game into the player's statistics. A record that
// cannot be loaded is never overwritten.
func (s *Session) record(ctx context.Context, out Outcome) (model.Statistics, error) {
	won := out.State == Won
	stats, err := s.store.Load(ctx, s.settings.Username)
	if err != nil {
		s.logger.Warn("failed to load statistics", zap.Error(err))
		stats = model.NewStatistics(s.settings.Username)
		stats.RegisterGame(out.Guesses, out.Duration, won)
		return stats, fmt.Errorf("failed to load statistics: %w", err)
	}
	stats.RegisterGame(out.Guesses, out.Duration, won)
	if err := s.store.Save(ctx, stats); err != nil {
		s.logger.Warn("failed to save statistics", zap.Error(err))
		return stats, fmt.Errorf("failed to save statistics: %w", err)
	}
	return stats, nil
}

func (s *Session) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *Session) editableLocked() error {
	if s.busy {
		return ErrBusy
	}
	switch s.state {
	case Initializing:
		return ErrNotStarted
	case Won, Lost:
		return ErrGameOver
	}
	return nil
}

func (s *Session) rowWordLocked(row int) string {
	var b strings.Builder
	for _, cell := range s.board[row] {
		b.WriteRune(cell.Letter)
	}
	return b.String()
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// Settings returns the settings the session was created with.
func (s *Session) Settings() model.Settings {
	return s.settings
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether a Start or Submit is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Board returns a copy of the grid.
func (s *Session) Board() [][]model.LetterHint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]model.LetterHint, len(s.board))
	for i, row := range s.board {
		out[i] = append([]model.LetterHint(nil), row...)
	}
	return out
}

// Cursor returns the index of the row being typed and the next column.
func (s *Session) Cursor() (row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor, s.col
}

// Mystery returns the answer once the game is over.
func (s *Session) Mystery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Terminal() {
		return ""
	}
	return string(s.mystery)
}

// Statistics returns the player's record as updated by this game, or nil
// while the game is running.
func (s *Session) Statistics() *model.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stats == nil {
		return nil
	}
	stats := s.stats.Clone()
	return &stats
}

// Elapsed returns the time since Start.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started.IsZero() {
		return 0
	}
	return s.now().Sub(s.started)
}

// KeyboardHints returns the most revealing kind seen so far for each letter.
func (s *Session) KeyboardHints() map[rune]model.HintKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return keyboardHints(s.board[:s.cursor])
}

func keyboardHints(rows [][]model.LetterHint) map[rune]model.HintKind {
	out := map[rune]model.HintKind{}
	for _, row := range rows {
		for _, cell := range row {
			if cell.Empty() {
				continue
			}
			if cell.Kind.Stronger(out[cell.Letter]) {
				out[cell.Letter] = cell.Kind
			}
		}
	}
	return out
}
