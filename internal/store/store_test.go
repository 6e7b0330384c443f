package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuidle/internal/model"
)

// openStores returns one instance of every local backend.
func openStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	stores := map[string]Store{}
	for _, tc := range []struct{ driver, file string }{
		{DriverSQLite, "tuidle.db"},
		{DriverJSON, "statistics.json"},
	} {
		st, err := Open(tc.driver, filepath.Join(dir, tc.driver, tc.file))
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = st.Close()
		})
		stores[tc.driver] = st
	}
	return stores
}

func sampleStats(name string) model.Statistics {
	s := model.NewStatistics(name)
	s.RegisterGame(3, 90*time.Second, true)
	s.RegisterGame(6, 4*time.Minute+time.Nanosecond, false)
	s.RegisterGame(5, 75*time.Second+123*time.Millisecond, true)
	return s
}

func TestLoadMissingReturnsFreshRecord(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := st.Load(context.Background(), "nobody")
			require.NoError(t, err)
			assert.Equal(t, model.NewStatistics("nobody"), got)
			assert.Nil(t, got.BestTime)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := sampleStats("alice")
			require.NoError(t, st.Save(ctx, want))

			got, err := st.Load(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestSaveReplacesExistingRecord(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			first := sampleStats("bob")
			require.NoError(t, st.Save(ctx, first))

			second := first.Clone()
			second.RegisterGame(2, time.Second, true)
			require.NoError(t, st.Save(ctx, second))

			all, err := st.List(ctx)
			require.NoError(t, err)
			count := 0
			for _, s := range all {
				if s.UserName == "bob" {
					count++
				}
			}
			assert.Equal(t, 1, count)

			got, err := st.Load(ctx, "bob")
			require.NoError(t, err)
			assert.Equal(t, second, got)
		})
	}
}

func TestUserNamesAreCaseSensitive(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, st.Save(ctx, sampleStats("Carol")))

			got, err := st.Load(ctx, "carol")
			require.NoError(t, err)
			assert.Zero(t, got.GamesPlayed)
		})
	}
}

func TestAnonymousIsSeparateFromNamedPlayers(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			anon := model.NewStatistics(model.Anonymous)
			anon.RegisterGame(4, time.Minute, true)
			require.NoError(t, st.Save(ctx, anon))
			require.NoError(t, st.Save(ctx, sampleStats("dave")))

			got, err := st.Load(ctx, model.Anonymous)
			require.NoError(t, err)
			assert.Equal(t, anon, got)

			named, err := st.Load(ctx, "dave")
			require.NoError(t, err)
			assert.Equal(t, 3, named.GamesPlayed)
		})
	}
}

func TestConcurrentSavesForDifferentUsers(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			const users = 16
			var wg sync.WaitGroup
			errs := make(chan error, users)
			for i := 0; i < users; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					errs <- st.Save(ctx, sampleStats(fmt.Sprintf("user-%02d", i)))
				}(i)
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			all, err := st.List(ctx)
			require.NoError(t, err)
			require.Len(t, all, users)
			assert.Equal(t, "user-00", all[0].UserName)
			assert.Equal(t, "user-15", all[users-1].UserName)
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("mongo", "somewhere")
	require.Error(t, err)

	_, err = Open(DriverSQLite, "")
	require.Error(t, err)
}
