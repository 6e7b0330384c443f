// Package model defines shared data structures.
package model

import "time"

// HintKind is the verdict for one letter of a guess.
type HintKind int

// Hint kinds. None marks an empty board cell and is never produced by scoring.
const (
	None HintKind = iota
	Correct
	Present
	Absent
)

func (k HintKind) String() string {
	switch k {
	case Correct:
		return "correct"
	case Present:
		return "present"
	case Absent:
		return "absent"
	default:
		return "none"
	}
}

// rank orders kinds by how much they reveal about a letter.
func (k HintKind) rank() int {
	switch k {
	case Correct:
		return 3
	case Present:
		return 2
	case Absent:
		return 1
	default:
		return 0
	}
}

// Stronger reports whether k reveals more than other.
func (k HintKind) Stronger(other HintKind) bool {
	return k.rank() > other.rank()
}

// LetterHint is one board cell. A zero Letter means the cell is empty.
type LetterHint struct {
	Letter rune
	Kind   HintKind
}

// Empty reports whether no letter has been typed into the cell.
func (h LetterHint) Empty() bool {
	return h.Letter == 0
}

// Settings defines game settings. A running session never sees them change.
type Settings struct {
	WordLength     int
	MaxGuesses     int
	Username       string
	KeyboardActive bool
	HardMode       bool
	Offline        bool
}

// Default game dimensions.
const (
	DefaultWordLength = 5
	DefaultMaxGuesses = 6
)

// DefaultSettings returns the classic 5x6 board for the anonymous player.
func DefaultSettings() Settings {
	return Settings{
		WordLength:     DefaultWordLength,
		MaxGuesses:     DefaultMaxGuesses,
		Username:       Anonymous,
		KeyboardActive: true,
	}
}

// Anonymous is the identity used when no username is configured. It is a
// regular store key and never matches a named player.
const Anonymous = ""

// Statistics is the per-user aggregate of completed games.
type Statistics struct {
	UserName          string
	GamesPlayed       int
	GamesWon          int
	MaxStreak         int
	CurrentStreak     int
	GuessDistribution map[int]int
	TotalGuesses      int
	BestTime          *time.Duration
	TotalDuration     time.Duration
}

// NewStatistics returns an empty record for userName.
func NewStatistics(userName string) Statistics {
	return Statistics{
		UserName:          userName,
		GuessDistribution: map[int]int{},
	}
}

// RegisterGame records a finished game. It is the only way a record changes.
func (s *Statistics) RegisterGame(guesses int, duration time.Duration, won bool) {
	s.GamesPlayed++
	s.TotalDuration += duration

	if !won {
		s.CurrentStreak = 0
		return
	}

	s.GamesWon++
	s.TotalGuesses += guesses
	s.CurrentStreak++
	if s.CurrentStreak > s.MaxStreak {
		s.MaxStreak = s.CurrentStreak
	}

	if s.GuessDistribution == nil {
		s.GuessDistribution = map[int]int{}
	}
	// Keep buckets dense from 1 up to the highest win.
	for i := 1; i <= guesses; i++ {
		if _, ok := s.GuessDistribution[i]; !ok {
			s.GuessDistribution[i] = 0
		}
	}
	s.GuessDistribution[guesses]++

	if s.BestTime == nil || duration < *s.BestTime {
		best := duration
		s.BestTime = &best
	}
}

// GamesLost is the number of games played but not won.
func (s Statistics) GamesLost() int {
	return s.GamesPlayed - s.GamesWon
}

// WinRate returns the percentage of games won.
func (s Statistics) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.GamesWon) / float64(s.GamesPlayed) * 100
}

// AvgGuesses returns the mean number of guesses per win.
func (s Statistics) AvgGuesses() float64 {
	if s.GamesWon == 0 {
		return 0
	}
	return float64(s.TotalGuesses) / float64(s.GamesWon)
}

// AvgDuration returns the mean duration over all games.
func (s Statistics) AvgDuration() time.Duration {
	if s.GamesPlayed == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.GamesPlayed)
}

// MaxBucket returns the highest populated guess-distribution key.
func (s Statistics) MaxBucket() int {
	highest := 0
	for k := range s.GuessDistribution {
		if k > highest {
			highest = k
		}
	}
	return highest
}

// Clone returns a deep copy so callers cannot alias the distribution or best time.
func (s Statistics) Clone() Statistics {
	out := s
	out.GuessDistribution = make(map[int]int, len(s.GuessDistribution))
	for k, v := range s.GuessDistribution {
		out.GuessDistribution[k] = v
	}
	if s.BestTime != nil {
		best := *s.BestTime
		out.BestTime = &best
	}
	return out
}

// StatsConfig defines options for the stats command.
type StatsConfig struct {
	Username string
	All      bool
	Plain    bool
}
