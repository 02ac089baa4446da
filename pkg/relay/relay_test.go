package relay

import (
	"testing"

	"framechain/pkg/util/context"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStrategy struct {
	name  string
	url   string
	err   error
	calls int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Attempt(ctx context.Context, image []byte, description string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func TestFirstSuccessWins(t *testing.T) {
	first := &fakeStrategy{name: "first", url: "https://host.example.com/a.png"}
	second := &fakeStrategy{name: "second", url: "https://host.example.com/b.png"}
	r, err := New(first, second)
	require.NoError(t, err)

	url, err := r.Relay(context.Background(), []byte("png"), "a red balloon")
	require.NoError(t, err)
	assert.Equal(t, "https://host.example.com/a.png", url)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestFallbackOrder(t *testing.T) {
	first := &fakeStrategy{name: "first", err: errors.New("down")}
	second := &fakeStrategy{name: "second", err: errors.New("quota exceeded")}
	third := &fakeStrategy{name: "third", url: "https://host.example.com/c.png"}
	r, err := New(first, second, third)
	require.NoError(t, err)

	url, err := r.Relay(context.Background(), []byte("png"), "")
	require.NoError(t, err)
	assert.Equal(t, "https://host.example.com/c.png", url)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, 1, third.calls)
}

func TestExhausted(t *testing.T) {
	first := &fakeStrategy{name: "first", err: errors.New("down")}
	second := &fakeStrategy{name: "second", err: errors.New("quota exceeded")}
	r, err := New(first, second)
	require.NoError(t, err)

	_, err = r.Relay(context.Background(), []byte("png"), "")
	require.Error(t, err)
	assert.True(t, IsExhausted(err))
	assert.Contains(t, err.Error(), "first: down")
	assert.Contains(t, err.Error(), "second: quota exceeded")
}

func TestIdempotentOutcome(t *testing.T) {
	// Under identical provider availability, repeated calls select the
	// same strategy and terminate in the same outcome.
	first := &fakeStrategy{name: "first", err: errors.New("down")}
	second := &fakeStrategy{name: "second", url: "https://host.example.com/b.png"}
	r, err := New(first, second)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		url, err := r.Relay(context.Background(), []byte("png"), "")
		require.NoError(t, err)
		assert.Equal(t, "https://host.example.com/b.png", url)
	}
	assert.Equal(t, 3, first.calls)
	assert.Equal(t, 3, second.calls)
}

func TestNewWithoutStrategies(t *testing.T) {
	_, err := New()
	require.Error(t, err)
}
