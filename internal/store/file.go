package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/verte-zerg/tuidle/internal/model"
)

// File stores all records in a single JSON document. Every Save rewrites the
// whole collection under a mutex and replaces the file atomically, so it is
// safe for concurrent sessions within one process.
type File struct {
	path string
	mu   sync.Mutex
}

type fileRecord struct {
	UserName          string      `json:"userName"`
	GamesPlayed       int         `json:"gamesPlayed"`
	GamesWon          int         `json:"gamesWon"`
	MaxStreak         int         `json:"maxStreak"`
	CurrentStreak     int         `json:"currentStreak"`
	GuessDistribution map[int]int `json:"guessDistribution"`
	TotalGuesses      int         `json:"totalGuesses"`
	BestTime          *duration   `json:"bestTime"`
	TotalDuration     duration    `json:"totalDuration"`
}

// NewFile returns a File store at path. The file is created on first Save.
func NewFile(path string) *File {
	return &File{path: path}
}

// Close implements Store.
func (f *File) Close() error {
	return nil
}

// Load returns the record for userName or a fresh one.
func (f *File) Load(_ context.Context, userName string) (model.Statistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.read()
	if err != nil {
		return model.Statistics{}, err
	}
	for _, rec := range records {
		if rec.UserName == userName {
			return rec.toModel(), nil
		}
	}
	return model.NewStatistics(userName), nil
}

// Save replaces the record with the same user name.
func (f *File) Save(_ context.Context, stats model.Statistics) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.read()
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, rec := range records {
		if rec.UserName != stats.UserName {
			kept = append(kept, rec)
		}
	}
	kept = append(kept, recordFromModel(stats))
	return f.write(kept)
}

// List returns all records ordered by user name.
func (f *File) List(_ context.Context) ([]model.Statistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.read()
	if err != nil {
		return nil, err
	}
	result := make([]model.Statistics, 0, len(records))
	for _, rec := range records {
		result = append(result, rec.toModel())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UserName < result[j].UserName
	})
	return result, nil
}

func (f *File) read() ([]fileRecord, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, unavailable("read statistics", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var records []fileRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, unavailable("decode statistics", err)
	}
	return records, nil
}

func (f *File) write(records []fileRecord) error {
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return unavailable("encode statistics", err)
	}
	dir := filepath.Dir(f.path)
	tmpFile, err := os.CreateTemp(dir, "statistics-*.json")
	if err != nil {
		return unavailable("write statistics", fmt.Errorf("failed to create temp file: %w", err))
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(append(raw, '\n')); err != nil {
		return unavailable("write statistics", err)
	}
	if err := tmpFile.Close(); err != nil {
		return unavailable("write statistics", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return unavailable("write statistics", err)
	}
	return nil
}

func recordFromModel(stats model.Statistics) fileRecord {
	dist := make(map[int]int, len(stats.GuessDistribution))
	for k, v := range stats.GuessDistribution {
		dist[k] = v
	}
	rec := fileRecord{
		UserName:          stats.UserName,
		GamesPlayed:       stats.GamesPlayed,
		GamesWon:          stats.GamesWon,
		MaxStreak:         stats.MaxStreak,
		CurrentStreak:     stats.CurrentStreak,
		GuessDistribution: dist,
		TotalGuesses:      stats.TotalGuesses,
		TotalDuration:     duration(stats.TotalDuration),
	}
	if stats.BestTime != nil {
		best := duration(*stats.BestTime)
		rec.BestTime = &best
	}
	return rec
}

func (r fileRecord) toModel() model.Statistics {
	stats := model.Statistics{
		UserName:          r.UserName,
		GamesPlayed:       r.GamesPlayed,
		GamesWon:          r.GamesWon,
		MaxStreak:         r.MaxStreak,
		CurrentStreak:     r.CurrentStreak,
		GuessDistribution: r.GuessDistribution,
		TotalGuesses:      r.TotalGuesses,
		TotalDuration:     time.Duration(r.TotalDuration),
	}
	if stats.GuessDistribution == nil {
		stats.GuessDistribution = map[int]int{}
	}
	if r.BestTime != nil {
		best := time.Duration(*r.BestTime)
		stats.BestTime = &best
	}
	return stats
}
