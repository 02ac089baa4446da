package frame

import (
	gocontext "context"
	"testing"
	"time"

	"framechain/pkg/api"
	"framechain/pkg/job"
	"framechain/pkg/util/context"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImages struct {
	prompt      string
	aspectRatio string
	fail        bool
	timeout     bool
}

func (f *fakeImages) SubmitImage(ctx gocontext.Context, prompt, aspectRatio, model string) (job.Handle, error) {
	f.prompt = prompt
	f.aspectRatio = aspectRatio
	return job.Handle{ID: "img-1", Kind: job.KindImage}, nil
}

func (f *fakeImages) PollImage(ctx gocontext.Context, jobID string) (job.PollResult, error) {
	if f.timeout {
		return job.PollResult{Status: api.StatusRunning}, nil
	}
	if f.fail {
		return job.PollResult{Status: api.StatusFailed, FailureReason: "nsfw"}, nil
	}
	return job.PollResult{Status: api.StatusCompleted, URL: "https://img.example.com/img-1.png"}, nil
}

type fakeFetcher struct {
	data []byte
	err  error
}

func (f fakeFetcher) Fetch(ctx gocontext.Context, url string) ([]byte, error) {
	return f.data, f.err
}

func TestSynthesize(t *testing.T) {
	images := &fakeImages{}
	s := NewSynthesizer(images, job.NewClient(time.Millisecond, 5), fakeFetcher{data: []byte("png")}, Options{})

	asset, err := s.Synthesize(context.Background(), "a lighthouse at dawn", "watercolor")
	require.NoError(t, err)
	assert.Equal(t, api.AssetImage, asset.Kind)
	assert.Equal(t, api.OriginSynthesized, asset.Origin)
	assert.Equal(t, []byte("png"), asset.Bytes)
	assert.False(t, asset.Hosted())
	assert.Equal(t, "a lighthouse at dawn, watercolor style", images.prompt)
	assert.Equal(t, "16:9", images.aspectRatio)
}

func TestSynthesizeProviderFailure(t *testing.T) {
	images := &fakeImages{fail: true}
	s := NewSynthesizer(images, job.NewClient(time.Millisecond, 5), fakeFetcher{}, Options{})

	_, err := s.Synthesize(context.Background(), "a lighthouse at dawn", "")
	require.Error(t, err)
	assert.True(t, job.IsProviderFailure(err))
}

func TestSynthesizeTimeout(t *testing.T) {
	images := &fakeImages{timeout: true}
	s := NewSynthesizer(images, job.NewClient(time.Millisecond, 3), fakeFetcher{}, Options{})

	_, err := s.Synthesize(context.Background(), "a lighthouse at dawn", "")
	require.Error(t, err)
	assert.True(t, job.IsTimeout(err))
}

func TestSynthesizeFetchFailureIsNotFatal(t *testing.T) {
	images := &fakeImages{}
	s := NewSynthesizer(images, job.NewClient(time.Millisecond, 5), fakeFetcher{err: errors.New("cdn down")}, Options{})

	asset, err := s.Synthesize(context.Background(), "a lighthouse at dawn", "")
	require.NoError(t, err)
	assert.Nil(t, asset.Bytes)
}

func TestStylePrompt(t *testing.T) {
	assert.Equal(t, "p", StylePrompt("p", ""))
	assert.Equal(t, "p, anime style", StylePrompt("p", "anime"))
}
