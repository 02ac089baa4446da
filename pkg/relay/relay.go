// Package relay makes a locally held image addressable by the video
// synthesis backend. The backend refuses to fetch arbitrary third-party or
// data-embedded URLs, so freshly generated bytes must be re-hosted somewhere
// it trusts. No single hosting provider is reliable enough to depend on
// exclusively, so an ordered list of strategies is tried until one succeeds.
package relay

import (
	"fmt"
	"strings"

	"framechain/pkg/util/context"

	"github.com/pkg/errors"
)

// Strategy is one way of turning image bytes into a URL the video backend
// can dereference.
type Strategy interface {
	// Name identifies the strategy in logs and failure reports.
	Name() string

	// Attempt tries to host the image. description is an optional
	// regeneration prompt a strategy may use instead of the raw bytes.
	Attempt(ctx context.Context, image []byte, description string) (string, error)
}

// Relay turns locally held image bytes into a URL usable as a keyframe.
type Relay interface {
	// Relay tries every strategy in priority order and returns the first
	// URL obtained. It fails with an ExhaustedError only if all
	// strategies fail.
	Relay(ctx context.Context, image []byte, fallbackDescription string) (string, error)
}

// New returns a Relay trying the given strategies in order.
// The order is fixed at construction and never changes at runtime, so the
// outcome is idempotent under stable provider availability.
func New(strategies ...Strategy) (Relay, error) {
	if len(strategies) == 0 {
		return nil, errors.New("at least one hosting strategy is required")
	}
	return relay{strategies: strategies}, nil
}

type relay struct {
	strategies []Strategy
}

func (r relay) Relay(ctx context.Context, image []byte, fallbackDescription string) (string, error) {
	var failures []AttemptFailure
	for _, s := range r.strategies {
		url, err := s.Attempt(ctx, image, fallbackDescription)
		if err != nil {
			ctx.Logger().Warnf("hosting strategy %s failed: %s", s.Name(), err)
			failures = append(failures, AttemptFailure{Strategy: s.Name(), Reason: err.Error()})
			continue
		}
		ctx.Logger().Infof("image hosted by strategy %s", s.Name())
		return url, nil
	}
	return "", ExhaustedError{Failures: failures}
}

// AttemptFailure records why one strategy failed.
type AttemptFailure struct {
	Strategy string
	Reason   string
}

// ExhaustedError is returned when every hosting strategy failed for one
// image.
type ExhaustedError struct {
	Failures []AttemptFailure
}

func (e ExhaustedError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s: %s", f.Strategy, f.Reason)
	}
	return "all hosting strategies failed: " + strings.Join(parts, "; ")
}

// IsExhausted returns true if err is an ExhaustedError.
func IsExhausted(err error) bool {
	var e ExhaustedError
	return errors.As(err, &e)
}
