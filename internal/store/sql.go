package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver.
	_ "modernc.org/sqlite" // SQLite driver.

	"github.com/verte-zerg/tuidle/internal/model"
)

const statisticsTable = "statistics"

var statisticsColumns = []string{
	"user_name",
	"games_played",
	"games_won",
	"max_streak",
	"current_streak",
	"guess_distribution",
	"total_guesses",
	"best_time_ns",
	"total_duration_ns",
	"updated_at",
}

// SQL stores statistics in a SQLite or PostgreSQL table keyed by user name.
// Save is a single upsert, so writers for different users never race.
type SQL struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

type statisticsRow struct {
	UserName          string        `db:"user_name"`
	GamesPlayed       int           `db:"games_played"`
	GamesWon          int           `db:"games_won"`
	MaxStreak         int           `db:"max_streak"`
	CurrentStreak     int           `db:"current_streak"`
	GuessDistribution string        `db:"guess_distribution"`
	TotalGuesses      int           `db:"total_guesses"`
	BestTimeNs        sql.NullInt64 `db:"best_time_ns"`
	TotalDurationNs   int64         `db:"total_duration_ns"`
	UpdatedAt         string        `db:"updated_at"`
}

// OpenSQL opens the database and applies migrations.
func OpenSQL(driver, dsn string) (*SQL, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	s := NewSQL(db, driver)
	if err := s.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return s, nil
}

// NewSQL wraps an open database without migrating it.
func NewSQL(db *sql.DB, driver string) *SQL {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if driver == DriverPostgres {
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return &SQL{
		db:      sqlx.NewDb(db, driver),
		builder: builder,
	}
}

// Close closes the underlying database.
func (s *SQL) Close() error {
	return s.db.Close()
}

func (s *SQL) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS statistics (
			user_name TEXT PRIMARY KEY,
			games_played INTEGER NOT NULL,
			games_won INTEGER NOT NULL,
			max_streak INTEGER NOT NULL,
			current_streak INTEGER NOT NULL,
			guess_distribution TEXT NOT NULL,
			total_guesses INTEGER NOT NULL,
			best_time_ns BIGINT,
			total_duration_ns BIGINT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return unavailable("migrate", err)
		}
	}
	return nil
}

// Load returns the record for userName or a fresh one.
func (s *SQL) Load(ctx context.Context, userName string) (model.Statistics, error) {
	query, args, err := s.builder.
		Select(statisticsColumns...).
		From(statisticsTable).
		Where(sq.Eq{"user_name": userName}).
		ToSql()
	if err != nil {
		return model.Statistics{}, unavailable("build load query", err)
	}

	var row statisticsRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NewStatistics(userName), nil
		}
		return model.Statistics{}, unavailable("load statistics", err)
	}
	stats, err := row.toModel()
	if err != nil {
		return model.Statistics{}, unavailable("load statistics", err)
	}
	return stats, nil
}

// Save upserts the record keyed by its user name.
func (s *SQL) Save(ctx context.Context, stats model.Statistics) error {
	row, err := rowFromModel(stats)
	if err != nil {
		return unavailable("encode statistics", err)
	}

	updates := make([]string, 0, len(statisticsColumns)-1)
	for _, col := range statisticsColumns[1:] {
		updates = append(updates, col+" = excluded."+col)
	}
	query, args, err := s.builder.
		Insert(statisticsTable).
		Columns(statisticsColumns...).
		Values(
			row.UserName,
			row.GamesPlayed,
			row.GamesWon,
			row.MaxStreak,
			row.CurrentStreak,
			row.GuessDistribution,
			row.TotalGuesses,
			row.BestTimeNs,
			row.TotalDurationNs,
			row.UpdatedAt,
		).
		Suffix("ON CONFLICT (user_name) DO UPDATE SET " + strings.Join(updates, ", ")).
		ToSql()
	if err != nil {
		return unavailable("build save query", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return unavailable("save statistics", err)
	}
	return nil
}

// List returns all records ordered by user name.
func (s *SQL) List(ctx context.Context) ([]model.Statistics, error) {
	query, args, err := s.builder.
		Select(statisticsColumns...).
		From(statisticsTable).
		OrderBy("user_name ASC").
		ToSql()
	if err != nil {
		return nil, unavailable("build list query", err)
	}

	var rows []statisticsRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, unavailable("list statistics", err)
	}
	result := make([]model.Statistics, 0, len(rows))
	for _, row := range rows {
		stats, err := row.toModel()
		if err != nil {
			return nil, unavailable("list statistics", err)
		}
		result = append(result, stats)
	}
	return result, nil
}

func rowFromModel(stats model.Statistics) (statisticsRow, error) {
	dist, err := encodeDistribution(stats.GuessDistribution)
	if err != nil {
		return statisticsRow{}, err
	}
	row := statisticsRow{
		UserName:          stats.UserName,
		GamesPlayed:       stats.GamesPlayed,
		GamesWon:          stats.GamesWon,
		MaxStreak:         stats.MaxStreak,
		CurrentStreak:     stats.CurrentStreak,
		GuessDistribution: dist,
		TotalGuesses:      stats.TotalGuesses,
		TotalDurationNs:   int64(stats.TotalDuration),
		UpdatedAt:         time.Now().UTC().Format(time.RFC3339Nano),
	}
	if stats.BestTime != nil {
		row.BestTimeNs = sql.NullInt64{Int64: int64(*stats.BestTime), Valid: true}
	}
	return row, nil
}

func (r statisticsRow) toModel() (model.Statistics, error) {
	dist, err := decodeDistribution(r.GuessDistribution)
	if err != nil {
		return model.Statistics{}, err
	}
	stats := model.Statistics{
		UserName:          r.UserName,
		GamesPlayed:       r.GamesPlayed,
		GamesWon:          r.GamesWon,
		MaxStreak:         r.MaxStreak,
		CurrentStreak:     r.CurrentStreak,
		GuessDistribution: dist,
		TotalGuesses:      r.TotalGuesses,
		TotalDuration:     time.Duration(r.TotalDurationNs),
	}
	if r.BestTimeNs.Valid {
		best := time.Duration(r.BestTimeNs.Int64)
		stats.BestTime = &best
	}
	return stats, nil
}

func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}
