package continuity

import (
	gocontext "context"
	"testing"

	"framechain/pkg/api"
	"framechain/pkg/util/context"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVision struct {
	instruction string
	err         error
}

func (f *fakeVision) Analyze(ctx gocontext.Context, image []byte, instruction string) (string, error) {
	f.instruction = instruction
	if f.err != nil {
		return "", f.err
	}
	return "The knight now stands two steps closer to the gate, cloak mid-swing.", nil
}

type fakeFrames struct {
	prompt string
	err    error
}

func (f *fakeFrames) Synthesize(ctx context.Context, prompt, style string) (api.MediaAsset, error) {
	f.prompt = prompt
	if f.err != nil {
		return api.MediaAsset{}, f.err
	}
	return api.MediaAsset{Kind: api.AssetImage, Origin: api.OriginSynthesized, Bytes: []byte("png")}, nil
}

func currentFrame() api.MediaAsset {
	return api.MediaAsset{Kind: api.AssetImage, Origin: api.OriginSynthesized, Bytes: []byte("frame")}
}

func spec(premium bool, duration int) api.RunSpec {
	return api.RunSpec{
		Name:            "knight",
		Prompt:          "a knight approaches a castle",
		Style:           "oil painting",
		TargetDuration:  20,
		SegmentDuration: duration,
		Premium:         premium,
	}
}

func TestPredictCheapMode(t *testing.T) {
	vision := &fakeVision{}
	frames := &fakeFrames{}
	p := NewPredictor(vision, frames)

	pred, err := p.Predict(context.Background(), currentFrame(), spec(false, 5))
	require.NoError(t, err)
	assert.False(t, pred.Degraded)
	assert.Nil(t, pred.EndFrame)
	assert.Contains(t, pred.Description, "knight")
	assert.Contains(t, vision.instruction, "5 seconds later")
	assert.Contains(t, vision.instruction, "a knight approaches a castle")
	// Cheap mode never materializes
	assert.Empty(t, frames.prompt)
}

func TestPredictPremiumMode(t *testing.T) {
	vision := &fakeVision{}
	frames := &fakeFrames{}
	p := NewPredictor(vision, frames)

	pred, err := p.Predict(context.Background(), currentFrame(), spec(true, 9))
	require.NoError(t, err)
	assert.False(t, pred.Degraded)
	require.NotNil(t, pred.EndFrame)
	assert.Equal(t, api.OriginPredicted, pred.EndFrame.Origin)
	assert.Equal(t, pred.Description, frames.prompt)
	assert.Contains(t, vision.instruction, "9 seconds later")
}

func TestPredictDegradesOnVisionFailure(t *testing.T) {
	vision := &fakeVision{err: errors.New("model overloaded")}
	frames := &fakeFrames{}
	p := NewPredictor(vision, frames)

	pred, err := p.Predict(context.Background(), currentFrame(), spec(true, 5))
	require.NoError(t, err)
	assert.True(t, pred.Degraded)
	assert.Nil(t, pred.EndFrame)
	assert.Contains(t, pred.Description, "oil painting")
	// A degraded description is never materialized
	assert.Empty(t, frames.prompt)
}

func TestPredictDegradesWithoutFrameBytes(t *testing.T) {
	p := NewPredictor(&fakeVision{}, &fakeFrames{})

	pred, err := p.Predict(context.Background(), api.MediaAsset{Kind: api.AssetImage}, spec(false, 5))
	require.NoError(t, err)
	assert.True(t, pred.Degraded)
	assert.NotEmpty(t, pred.Description)
}

func TestPredictMaterializationFailureFallsBack(t *testing.T) {
	vision := &fakeVision{}
	frames := &fakeFrames{err: errors.New("image backend down")}
	p := NewPredictor(vision, frames)

	pred, err := p.Predict(context.Background(), currentFrame(), spec(true, 5))
	require.NoError(t, err)
	assert.False(t, pred.Degraded)
	assert.Nil(t, pred.EndFrame)
	assert.NotEmpty(t, pred.Description)
}
