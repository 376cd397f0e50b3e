package suggest

import (
	"context"
	"time"

	"planclan/internal/circuitbreaker"
	"planclan/internal/common/errors"
	"planclan/internal/common/logging"
)

// Backend produces a raw suggestion payload from a prompt. The production
// implementation is GeminiClient; tests substitute a stub.
type Backend interface {
	GenerateSuggestion(ctx context.Context, prompt string) ([]byte, error)
}

// Service wraps the backend with validation, prompt construction, a hard
// deadline and a circuit breaker.
type Service struct {
	backend Backend
	breaker *circuitbreaker.Breaker
	timeout time.Duration
	now     func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for the prompt's current date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBreaker guards backend calls with the given circuit breaker.
func WithBreaker(breaker *circuitbreaker.Breaker) Option {
	return func(s *Service) { s.breaker = breaker }
}

func NewService(backend Backend, timeout time.Duration, opts ...Option) *Service {
	s := &Service{
		backend: backend,
		timeout: timeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Suggest performs one suggestion round trip. The backend call is raced
// against the configured deadline; a slow backend surfaces as a timeout
// error rather than hanging the caller.
func (s *Service) Suggest(ctx context.Context, req *SuggestionRequest) (*SuggestionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prompt := BuildPrompt(req, s.now())

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type outcome struct {
		raw []byte
		err error
	}

	done := make(chan outcome, 1)
	go func() {
		var raw []byte
		call := func() error {
			var err error
			raw, err = s.backend.GenerateSuggestion(ctx, prompt)
			return err
		}

		var err error
		if s.breaker != nil {
			err = s.breaker.Execute(ctx, call)
		} else {
			err = call()
		}
		done <- outcome{raw: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		logging.Warn("Suggestion backend call timed out",
			logging.Field{Key: "timeout", Value: s.timeout.String()},
		)
		return nil, errors.TimeoutError("suggestion")
	case result := <-done:
		if result.err != nil {
			return nil, result.err
		}
		return ParseResult(result.raw)
	}
}
