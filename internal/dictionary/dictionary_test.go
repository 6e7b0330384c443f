package dictionary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDictServer(t *testing.T, known map[string]bool, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		word := r.URL.Path[1:]
		switch {
		case word == "teapot":
			w.WriteHeader(http.StatusInternalServerError)
		case known[word]:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"word":"` + word + `"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"title":"No Definitions Found"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestValidate(t *testing.T) {
	var calls atomic.Int32
	srv := newDictServer(t, map[string]bool{"apple": true}, &calls)
	v, err := New(srv.URL, srv.Client(), zap.NewNop(), 0)
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := v.Validate(ctx, "APPLE")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Validate(ctx, "qwzxv")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateFailsClosed(t *testing.T) {
	var calls atomic.Int32
	srv := newDictServer(t, nil, &calls)
	v, err := New(srv.URL, srv.Client(), zap.NewNop(), 0)
	require.NoError(t, err)

	ok, err := v.Validate(context.Background(), "teapot")
	require.ErrorIs(t, err, ErrValidationUncertain)
	assert.False(t, ok)
}

func TestValidateTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	v, err := New(url, nil, nil, 0)
	require.NoError(t, err)
	ok, err := v.Validate(context.Background(), "apple")
	require.ErrorIs(t, err, ErrValidationUncertain)
	assert.False(t, ok)
}

func TestValidateCachesDefinitiveAnswers(t *testing.T) {
	var calls atomic.Int32
	srv := newDictServer(t, map[string]bool{"crane": true}, &calls)
	v, err := New(srv.URL, srv.Client(), zap.NewNop(), 8)
	require.NoError(t, err)
	ctx := context.Background()

	for _, w := range []string{"crane", "CRANE", "Crane"} {
		ok, err := v.Validate(ctx, w)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	for i := 0; i < 2; i++ {
		_, _ = v.Validate(ctx, "zzzzz")
	}
	assert.Equal(t, int32(2), calls.Load())

	for i := 0; i < 2; i++ {
		_, err := v.Validate(ctx, "teapot")
		require.Error(t, err)
	}
	assert.Equal(t, int32(4), calls.Load())
}

func TestValidateEmptyWord(t *testing.T) {
	v, err := New("http://127.0.0.1:1", nil, nil, 0)
	require.NoError(t, err)
	ok, err := v.Validate(context.Background(), "   ")
	require.NoError(t, err)
	assert.False(t, ok)
}
