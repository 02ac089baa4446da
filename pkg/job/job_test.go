package job

import (
	gocontext "context"
	"testing"
	"time"

	"framechain/pkg/api"
	"framechain/pkg/util/context"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitCompletes(t *testing.T) {
	cli := NewClient(time.Millisecond, 10)
	h := Handle{ID: "job-1", Kind: KindImage}

	polls := 0
	res, err := cli.Await(context.Background(), h, func(ctx context.Context) (PollResult, error) {
		polls++
		if polls < 3 {
			return PollResult{Status: api.StatusRunning}, nil
		}
		return PollResult{Status: api.StatusCompleted, URL: "https://img.example.com/1.png", ThumbnailURL: "https://img.example.com/1_thumb.png"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, polls)
	assert.Equal(t, "https://img.example.com/1.png", res.URL)
	assert.Equal(t, "https://img.example.com/1_thumb.png", res.ThumbnailURL)
}

func TestAwaitProviderFailure(t *testing.T) {
	cli := NewClient(time.Millisecond, 10)
	h := Handle{ID: "job-2", Kind: KindVideo}

	_, err := cli.Await(context.Background(), h, func(ctx context.Context) (PollResult, error) {
		return PollResult{Status: api.StatusFailed, FailureReason: "content policy"}, nil
	})
	require.Error(t, err)
	assert.True(t, IsProviderFailure(err))
	assert.False(t, IsTimeout(err))
	assert.Contains(t, err.Error(), "content policy")
}

func TestAwaitTimeout(t *testing.T) {
	cli := NewClient(time.Millisecond, 5)
	h := Handle{ID: "job-3", Kind: KindVideo}

	// Provider never reaches a terminal state
	polls := 0
	_, err := cli.Await(context.Background(), h, func(ctx context.Context) (PollResult, error) {
		polls++
		return PollResult{Status: api.StatusRunning}, nil
	})
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.False(t, IsProviderFailure(err))
	assert.Equal(t, 5, polls)
}

func TestAwaitTransientPollErrors(t *testing.T) {
	cli := NewClient(time.Millisecond, 10)
	h := Handle{ID: "job-4", Kind: KindImage}

	// Transient poll errors are retried, not propagated
	polls := 0
	res, err := cli.Await(context.Background(), h, func(ctx context.Context) (PollResult, error) {
		polls++
		if polls < 4 {
			return PollResult{}, errors.New("connection reset")
		}
		return PollResult{Status: api.StatusCompleted, URL: "u"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "u", res.URL)

	// Only transient errors until the budget is exhausted ends in timeout
	polls = 0
	_, err = cli.Await(context.Background(), h, func(ctx context.Context) (PollResult, error) {
		polls++
		return PollResult{}, errors.New("connection reset")
	})
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.Equal(t, 10, polls)
}

func TestAwaitContextCancelled(t *testing.T) {
	cli := NewClient(50*time.Millisecond, 100)
	h := Handle{ID: "job-5", Kind: KindVideo}

	goctx, cancel := gocontext.WithCancel(gocontext.Background())
	cancel()
	_, err := cli.Await(context.FromContext(goctx), h, func(ctx context.Context) (PollResult, error) {
		return PollResult{Status: api.StatusRunning}, nil
	})
	require.Error(t, err)
	assert.False(t, IsTimeout(err))
}

func TestNewClientDefaults(t *testing.T) {
	cli := NewClient(0, 0)
	assert.Equal(t, DefaultInterval, cli.Interval)
	assert.Equal(t, DefaultMaxAttempts, cli.MaxAttempts)
}
