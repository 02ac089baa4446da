package job

import (
	"fmt"
	"time"

	"framechain/pkg/api"
	"framechain/pkg/util/context"

	"github.com/pkg/errors"
)

const (
	// DefaultInterval is the default delay between two polls.
	DefaultInterval = 5 * time.Second

	// DefaultMaxAttempts is the default number of polls before giving up.
	DefaultMaxAttempts = 60
)

// Kind is the kind of asynchronous job.
type Kind string

const (
	// KindImage an image synthesis job
	KindImage Kind = "image"

	// KindVideo a video synthesis job
	KindVideo Kind = "video"
)

// Handle is an opaque reference to one asynchronous external operation.
// A handle is never retried as the same job, retries create a new Handle.
type Handle struct {
	ID   string
	Kind Kind
}

// PollResult is the state reported by the provider for one poll.
type PollResult struct {
	Status        api.Status
	URL           string
	ThumbnailURL  string
	FailureReason string
}

// Result is the payload of a successfully finished job.
type Result struct {
	URL          string
	ThumbnailURL string
}

// PollFunc asks the provider for the current state of a job.
// An error return is treated as transient and the poll is retried.
type PollFunc func(ctx context.Context) (PollResult, error)

// Client drives a submitted job to a terminal state by sequential polling.
// Both image and video synthesis expose the same submitted/processing/
// completed/failed semantics, so the poll loop is factored out here instead
// of being duplicated per capability.
type Client struct {
	// Interval is the delay between two polls.
	Interval time.Duration

	// MaxAttempts bounds the number of polls. A provider that never
	// reaches a terminal state yields a TimeoutError, never an infinite
	// loop.
	MaxAttempts int
}

// NewClient returns a polling client with the given budget.
// Non positive values fall back to the defaults.
func NewClient(interval time.Duration, maxAttempts int) Client {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return Client{Interval: interval, MaxAttempts: maxAttempts}
}

// Await polls the job until it reaches a terminal state.
// It returns the result payload on success, a ProviderError if the backend
// reports a terminal failure, and a TimeoutError if no terminal state is
// reached within MaxAttempts polls.
func (c Client) Await(ctx context.Context, h Handle, poll PollFunc) (Result, error) {
	ctx = context.WithJobID(ctx, h.ID)
	interval := c.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return Result{}, errors.Wrapf(ctx.Err(), "context done while polling %s job %s", h.Kind, h.ID)
			case <-time.After(interval):
			}
		}

		pr, err := poll(ctx)
		if err != nil {
			ctx.Logger().Warnf("poll attempt %d/%d failed: %s", i+1, attempts, err)
			continue
		}

		switch {
		case pr.Status == api.StatusCompleted:
			return Result{URL: pr.URL, ThumbnailURL: pr.ThumbnailURL}, nil
		case pr.Status.Finished():
			return Result{}, ProviderError{Handle: h, Reason: pr.FailureReason}
		}
	}
	return Result{}, TimeoutError{Handle: h, Attempts: attempts, Interval: interval}
}

// TimeoutError is returned when a job never reached a terminal state within
// its poll budget. It is logged distinctly from ProviderError to tell slow
// providers from broken ones.
type TimeoutError struct {
	Handle   Handle
	Attempts int
	Interval time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("%s job %s not terminal after %d polls every %s", e.Handle.Kind, e.Handle.ID, e.Attempts, e.Interval)
}

// IsTimeout returns true if err is a TimeoutError.
func IsTimeout(err error) bool {
	var e TimeoutError
	return errors.As(err, &e)
}

// ProviderError is returned when the backend reports a terminal failure
// state for a job.
type ProviderError struct {
	Handle Handle
	Reason string
}

func (e ProviderError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s job %s failed", e.Handle.Kind, e.Handle.ID)
	}
	return fmt.Sprintf("%s job %s failed: %s", e.Handle.Kind, e.Handle.ID, e.Reason)
}

// IsProviderFailure returns true if err is a ProviderError.
func IsProviderFailure(err error) bool {
	var e ProviderError
	return errors.As(err, &e)
}
