// Package wordsource fetches mystery words from the random-word and
// frequency providers.
package wordsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Provider endpoints.
const (
	DefaultRandomURL    = "https://random-word-api.herokuapp.com"
	DefaultFrequencyURL = "https://api.datamuse.com"
)

const (
	defaultMaxAttempts  = 10
	defaultMinFrequency = 2.5
	defaultInterval     = 200 * time.Millisecond
	defaultMaxInterval  = 2 * time.Second
	defaultTimeout      = 20 * time.Second
	frequencyTagPrefix  = "f:"
)

// ErrMysteryWordUnavailable is returned when no qualifying word could be fetched.
var ErrMysteryWordUnavailable = errors.New("mystery word unavailable")

var errRejected = errors.New("candidate rejected")

// Source picks mystery words from a remote random-word provider and keeps
// only words common enough according to the frequency provider.
type Source struct {
	randomURL    string
	frequencyURL string
	client       *http.Client
	log          *zap.Logger

	maxAttempts  int
	minFrequency float64
	interval     time.Duration
	timeout      time.Duration
}

// Option configures a Source.
type Option func(*Source)

// WithRandomURL overrides the random-word provider base URL.
func WithRandomURL(u string) Option {
	return func(s *Source) { s.randomURL = strings.TrimRight(u, "/") }
}

// WithFrequencyURL overrides the frequency provider base URL.
func WithFrequencyURL(u string) Option {
	return func(s *Source) { s.frequencyURL = strings.TrimRight(u, "/") }
}

// WithMaxAttempts bounds the number of candidates tried per call.
func WithMaxAttempts(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithMinFrequency sets the acceptance threshold on the provider's frequency scale.
func WithMinFrequency(f float64) Option {
	return func(s *Source) { s.minFrequency = f }
}

// WithRetryInterval sets the initial backoff between attempts.
func WithRetryInterval(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithTimeout bounds a whole MysteryWord call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) { s.timeout = d }
}

// New returns a Source using client for all outbound requests.
func New(client *http.Client, logger *zap.Logger, opts ...Option) *Source {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Source{
		randomURL:    DefaultRandomURL,
		frequencyURL: DefaultFrequencyURL,
		client:       client,
		log:          logger.With(zap.String("component", "wordsource")),
		maxAttempts:  defaultMaxAttempts,
		minFrequency: defaultMinFrequency,
		interval:     defaultInterval,
		timeout:      defaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MysteryWord returns an uppercase word of exactly length letters.
func (s *Source) MysteryWord(ctx context.Context, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("%w: invalid length %d", ErrMysteryWordUnavailable, length)
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var word string
	attempt := 0
	op := func() error {
		attempt++
		candidate, err := s.fetchCandidate(ctx, length)
		if err != nil {
			return err
		}
		freq, err := s.Frequency(ctx, candidate)
		if err != nil {
			return err
		}
		if freq < s.minFrequency {
			return fmt.Errorf("%w: %q frequency %.2f below %.2f", errRejected, candidate, freq, s.minFrequency)
		}
		word = strings.ToUpper(candidate)
		return nil
	}
	notify := func(err error, wait time.Duration) {
		s.log.Debug("mystery word attempt failed",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(op, s.newBackOff(ctx), notify); err != nil {
		s.log.Warn("no mystery word", zap.Int("length", length), zap.Int("attempts", attempt), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrMysteryWordUnavailable, err)
	}
	s.log.Debug("mystery word selected", zap.Int("length", length), zap.Int("attempts", attempt))
	return word, nil
}

func (s *Source) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = s.interval
	exp.MaxInterval = defaultMaxInterval
	exp.MaxElapsedTime = 0
	var b backoff.BackOff = backoff.WithMaxRetries(exp, uint64(s.maxAttempts-1))
	return backoff.WithContext(b, ctx)
}

func (s *Source) fetchCandidate(ctx context.Context, length int) (string, error) {
	reqURL := s.randomURL + "/word?length=" + strconv.Itoa(length)
	resp, err := s.get(ctx, reqURL)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := checkStatus(resp); err != nil {
		return "", err
	}
	var words []string
	if err := json.NewDecoder(resp.Body).Decode(&words); err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to decode random word response: %w", err))
	}
	if len(words) == 0 {
		return "", backoff.Permanent(fmt.Errorf("random word provider returned no words"))
	}
	candidate := strings.TrimSpace(words[0])
	if utf8.RuneCountInString(candidate) != length || !isLetters(candidate) {
		return "", fmt.Errorf("%w: %q is not a %d-letter word", errRejected, candidate, length)
	}
	return candidate, nil
}

type datamuseWord struct {
	Word  string   `json:"word"`
	Score int      `json:"score"`
	Tags  []string `json:"tags"`
}

// Frequency returns the provider's frequency for word, or zero when the
// provider does not know the word or reports no frequency tag.
func (s *Source) Frequency(ctx context.Context, word string) (float64, error) {
	if strings.TrimSpace(word) == "" {
		return 0, nil
	}
	q := url.Values{}
	q.Set("sp", strings.ToLower(word))
	q.Set("md", "f")
	q.Set("max", "1")
	resp, err := s.get(ctx, s.frequencyURL+"/words?"+q.Encode())
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := checkStatus(resp); err != nil {
		return 0, err
	}
	var entries []datamuseWord
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return 0, fmt.Errorf("failed to decode frequency response: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}
	return parseFrequency(entries[0].Tags)
}

func parseFrequency(tags []string) (float64, error) {
	for _, tag := range tags {
		if !strings.HasPrefix(tag, frequencyTagPrefix) {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimPrefix(tag, frequencyTagPrefix), 64)
		if err != nil {
			return 0, backoff.Permanent(fmt.Errorf("invalid frequency tag %q: %w", tag, err))
		}
		return f, nil
	}
	return 0, nil
}

func (s *Source) get(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// checkStatus treats 5xx and 429 as retryable and any other non-200 as final.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("unexpected status: %s", resp.Status)
	default:
		return backoff.Permanent(fmt.Errorf("unexpected status: %s", resp.Status))
	}
}

func isLetters(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
