// Package dictionary checks guesses against a remote dictionary.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultBaseURL is the Free Dictionary API entries endpoint.
const DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

const defaultCacheSize = 4096

// ErrValidationUncertain is returned when the dictionary could not give a
// definitive answer. Callers must treat it as a rejection.
var ErrValidationUncertain = errors.New("word validation uncertain")

// Validator looks words up in the dictionary. Definitive answers are cached;
// failures are not.
type Validator struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
	cache   *lru.Cache[string, bool]
	group   singleflight.Group
}

// New returns a Validator for baseURL. An empty baseURL selects DefaultBaseURL
// and a non-positive cacheSize selects the default size.
func New(baseURL string, client *http.Client, logger *zap.Logger, cacheSize int) (*Validator, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, bool](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create dictionary cache: %w", err)
	}
	return &Validator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		log:     logger.With(zap.String("component", "dictionary")),
		cache:   cache,
	}, nil
}

// Validate reports whether word exists. Lookup is case-insensitive. A
// transport failure or unexpected status yields false and ErrValidationUncertain.
func (v *Validator) Validate(ctx context.Context, word string) (bool, error) {
	key := strings.ToLower(strings.TrimSpace(word))
	if key == "" {
		return false, nil
	}
	if ok, hit := v.cache.Get(key); hit {
		return ok, nil
	}

	res, err, shared := v.group.Do(key, func() (interface{}, error) {
		return v.lookup(ctx, key)
	})
	if err != nil {
		v.log.Warn("dictionary lookup failed", zap.String("word", key), zap.Bool("shared", shared), zap.Error(err))
		return false, err
	}
	exists := res.(bool)
	v.cache.Add(key, exists)
	return exists, nil
}

func (v *Validator) lookup(ctx context.Context, word string) (bool, error) {
	reqURL := v.baseURL + "/" + url.PathEscape(word)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return false, fmt.Errorf("%w: create request: %w", ErrValidationUncertain, err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: request failed: %w", ErrValidationUncertain, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK:
		v.log.Debug("dictionary hit", zap.String("word", word))
		return true, nil
	case http.StatusNotFound:
		v.log.Debug("dictionary miss", zap.String("word", word))
		return false, nil
	default:
		return false, fmt.Errorf("%w: unexpected status %s", ErrValidationUncertain, resp.Status)
	}
}
