package store

import (
	"context"
	"testing"

	"framechain/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec() api.RunSpec {
	return api.RunSpec{Name: "clouds", Prompt: "a city in the clouds", Style: "anime", TargetDuration: 20, SegmentDuration: 9}
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	s, err := NewInMemoryStore()
	require.NoError(t, err)

	require.NoError(t, s.CreateRun(ctx, "run-1", testSpec()))
	require.NoError(t, s.CreateSegments(ctx, "run-1", 3))

	state, err := s.RunState(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, api.StatusCreated, state.Status)
	assert.Equal(t, "run-1", state.RunID)
	assert.Len(t, state.Segments, 3)
	assert.NotNil(t, state.CreateTime)
	assert.Nil(t, state.StartTime)

	require.NoError(t, s.SetRunStatus(ctx, "run-1", api.StatusRunning))
	state, err = s.RunState(ctx, "run-1")
	require.NoError(t, err)
	assert.NotNil(t, state.StartTime)

	require.NoError(t, s.SetRunStatus(ctx, "run-1", api.StatusCompleted))
	state, err = s.RunState(ctx, "run-1")
	require.NoError(t, err)
	assert.NotNil(t, state.EndTime)
}

func TestSegmentUpdates(t *testing.T) {
	ctx := context.Background()
	s, err := NewInMemoryStore()
	require.NoError(t, err)
	require.NoError(t, s.CreateRun(ctx, "run-1", testSpec()))
	require.NoError(t, s.CreateSegments(ctx, "run-1", 2))

	require.NoError(t, s.SetSegmentStatus(ctx, "run-1", 0, api.StatusRunning, ""))
	require.NoError(t, s.SetSegmentPhase(ctx, "run-1", 0, api.PhasePredicting))
	require.NoError(t, s.SetSegmentStartFrame(ctx, "run-1", 0, "https://host.example.com/f0.png"))
	require.NoError(t, s.SetSegmentResult(ctx, "run-1", 0, SegmentResult{
		Motion:       "the city drifts",
		EndFrameURL:  "https://host.example.com/f1.png",
		VideoURL:     "https://video.example.com/s0.mp4",
		ThumbnailURL: "https://video.example.com/s0_last.png",
		Duration:     9,
		Degraded:     true,
	}))
	require.NoError(t, s.SetSegmentStatus(ctx, "run-1", 0, api.StatusCompleted, ""))

	seg, err := s.SegmentState(ctx, "run-1", 0)
	require.NoError(t, err)
	assert.Equal(t, api.StatusCompleted, seg.Status)
	assert.Equal(t, "https://host.example.com/f0.png", seg.StartFrameURL)
	assert.Equal(t, "https://host.example.com/f1.png", seg.EndFrameURL)
	assert.Equal(t, 9, seg.Duration)
	assert.True(t, seg.Degraded)
	assert.NotNil(t, seg.StartTime)
	assert.NotNil(t, seg.EndTime)

	// Achieved duration counts completed segments only
	state, err := s.RunState(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 9, state.AchievedDuration)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s, err := NewInMemoryStore()
	require.NoError(t, err)

	_, err = s.RunState(ctx, "missing")
	require.Error(t, err)
	assert.IsType(t, ErrNotFound{}, err)

	require.NoError(t, s.CreateRun(ctx, "run-1", testSpec()))
	require.NoError(t, s.CreateSegments(ctx, "run-1", 1))

	err = s.SetSegmentStatus(ctx, "run-1", 5, api.StatusRunning, "")
	require.Error(t, err)
	assert.IsType(t, ErrNotFound{}, err)
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	s, err := NewInMemoryStore()
	require.NoError(t, err)
	require.NoError(t, s.CreateRun(ctx, "run-1", testSpec()))
	require.NoError(t, s.CreateRun(ctx, "run-2", api.RunSpec{Name: "desert", Prompt: "p", TargetDuration: 5, SegmentDuration: 5}))

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"run-1": "clouds", "run-2": "desert"}, runs)
}
