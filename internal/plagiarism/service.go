// Package plagiarism fronts the GoWinston plagiarism API with input
// validation, type detection and a short lived result cache.
package plagiarism

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"easypro-api/internal/cache"
)

// Checker performs upstream plagiarism checks.
type Checker interface {
	CheckText(ctx context.Context, text string) (*TextResult, error)
	CheckURL(ctx context.Context, rawURL string) (*URLResult, error)
}

// CheckResponse is the success envelope of POST /check.
type CheckResponse struct {
	Success   bool      `json:"success"`
	Type      CheckType `json:"type"`
	Message   string    `json:"message"`
	Timestamp string    `json:"timestamp"`
	Input     string    `json:"input"`
	Data      any       `json:"data"`
	Cached    bool      `json:"cached"`
}

// ResultCache stores finished check responses by cache key.
type ResultCache = cache.SimpleCache[string, CheckResponse]

// NewResultCache returns a goroutine-safe result cache.
func NewResultCache(clock func() time.Time) *ResultCache {
	return cache.NewSimpleCache[string, CheckResponse](cache.Options{
		ConcurrencySafe: true,
		Clock:           clock,
	})
}

// ServiceConfig tunes a Service.
type ServiceConfig struct {
	CacheTTL      time.Duration
	MaxInputChars int
	APIConfigured bool
	Clock         func() time.Time
}

// Service runs checks: validate, classify, serve from cache or call upstream.
type Service struct {
	checker       Checker
	results       *ResultCache
	ttl           time.Duration
	maxInputChars int
	apiConfigured bool
	now           func() time.Time
}

// NewService wires a Service around an upstream Checker and a result cache.
func NewService(checker Checker, results *ResultCache, cfg ServiceConfig) *Service {
	s := &Service{
		checker:       checker,
		results:       results,
		ttl:           cfg.CacheTTL,
		maxInputChars: cfg.MaxInputChars,
		apiConfigured: cfg.APIConfigured,
		now:           cfg.Clock,
	}
	if s.ttl <= 0 {
		s.ttl = 10 * time.Minute
	}
	if s.maxInputChars <= 0 {
		s.maxInputChars = 50000
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Check validates raw and returns a cached or freshly computed response.
// Failures are always *Error.
func (s *Service) Check(ctx context.Context, raw any, hint string) (CheckResponse, error) {
	in, err := ValidateInput(raw, hint, s.maxInputChars)
	if err != nil {
		return CheckResponse{}, err
	}

	key := CacheKey(in.Type, in.Text)
	if cached, ok := s.results.Get(key); ok {
		cached.Cached = true
		cached.Message += " (cached result)"
		return cached, nil
	}

	var (
		data    any
		message string
	)
	switch in.Type {
	case TypeURL:
		if !IsValidURL(in.Text) {
			return CheckResponse{}, errInvalidURL()
		}
		res, err := s.checker.CheckURL(ctx, in.Text)
		if err != nil {
			return CheckResponse{}, s.classify(err)
		}
		data = res
		message = fmt.Sprintf("Successfully processed URL for plagiarism check: %s", res.Domain)
	default:
		res, err := s.checker.CheckText(ctx, in.Text)
		if err != nil {
			return CheckResponse{}, s.classify(err)
		}
		data = res
		message = fmt.Sprintf("Successfully processed text for plagiarism check (%d characters)", res.TextStats.Length)
	}

	resp := CheckResponse{
		Success:   true,
		Type:      in.Type,
		Message:   message,
		Timestamp: isoTime(s.now()),
		Input:     truncate(in.Text, previewLength),
		Data:      data,
		Cached:    false,
	}
	s.results.Set(key, resp, s.ttl)
	return resp, nil
}

// classify logs an upstream failure and makes sure it is an *Error.
func (s *Service) classify(err error) *Error {
	log.Printf("plagiarism check error: %v", err)
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return connectivityError(err)
}

// CacheSize returns the number of live cached responses.
func (s *Service) CacheSize() int { return s.results.Len() }

// CacheTTL returns how long responses stay cached.
func (s *Service) CacheTTL() time.Duration { return s.ttl }

// APIConfigured reports whether an upstream token was provided.
func (s *Service) APIConfigured() bool { return s.apiConfigured }

// Timestamp renders the current time for response envelopes.
func (s *Service) Timestamp() string { return isoTime(s.now()) }
