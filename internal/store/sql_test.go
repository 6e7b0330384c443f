package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuidle/internal/model"
)

func newMockStore(t *testing.T, driver string) (*SQL, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return NewSQL(db, driver), mock
}

func TestSQLLoadUsesDialectPlaceholders(t *testing.T) {
	st, mock := newMockStore(t, DriverPostgres)

	rows := sqlmock.NewRows(statisticsColumns).
		AddRow("alice", 2, 1, 1, 0, `{"1":0,"2":1}`, 2, int64(time.Minute), int64(3*time.Minute), "2026-01-01T00:00:00Z")
	mock.ExpectQuery(`SELECT user_name, .* FROM statistics WHERE user_name = \$1`).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := st.Load(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, got.GamesPlayed)
	assert.Equal(t, map[int]int{1: 0, 2: 1}, got.GuessDistribution)
	require.NotNil(t, got.BestTime)
	assert.Equal(t, time.Minute, *got.BestTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLLoadFailure(t *testing.T) {
	st, mock := newMockStore(t, DriverSQLite)
	mock.ExpectQuery(`SELECT .* FROM statistics WHERE user_name = \?`).
		WithArgs("alice").
		WillReturnError(errors.New("disk I/O error"))

	_, err := st.Load(context.Background(), "alice")
	require.ErrorIs(t, err, ErrStorageUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLLoadCorruptDistribution(t *testing.T) {
	st, mock := newMockStore(t, DriverSQLite)
	rows := sqlmock.NewRows(statisticsColumns).
		AddRow("alice", 1, 1, 1, 1, `[1,2]`, 1, nil, int64(time.Second), "2026-01-01T00:00:00Z")
	mock.ExpectQuery(`SELECT .* FROM statistics`).WillReturnRows(rows)

	_, err := st.Load(context.Background(), "alice")
	require.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestSQLSaveUpserts(t *testing.T) {
	st, mock := newMockStore(t, DriverPostgres)
	stats := model.NewStatistics("alice")
	stats.RegisterGame(3, time.Minute, true)

	mock.ExpectExec(`INSERT INTO statistics \(user_name,.*\) VALUES \(\$1,.*\$10\) ON CONFLICT \(user_name\) DO UPDATE SET games_played = excluded.games_played`).
		WithArgs("alice", 1, 1, 1, 1, `{"1":0,"2":0,"3":1}`, 3, sqlmock.AnyArg(), int64(time.Minute), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, st.Save(context.Background(), stats))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSaveFailure(t *testing.T) {
	st, mock := newMockStore(t, DriverSQLite)
	mock.ExpectExec(`INSERT INTO statistics`).WillReturnError(errors.New("database is locked"))

	err := st.Save(context.Background(), model.NewStatistics("alice"))
	require.ErrorIs(t, err, ErrStorageUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLListFailure(t *testing.T) {
	st, mock := newMockStore(t, DriverSQLite)
	mock.ExpectQuery(`SELECT .* FROM statistics ORDER BY user_name ASC`).WillReturnError(errors.New("no such table"))

	_, err := st.List(context.Background())
	require.ErrorIs(t, err, ErrStorageUnavailable)
}
