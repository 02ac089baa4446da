package assemble

import (
	"testing"

	"framechain/pkg/api"
	"framechain/pkg/events"
	"framechain/pkg/util/context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chained(rid string, index int, url string) events.Event {
	return events.Event{
		Type:         events.TypeSegmentChained,
		RunID:        rid,
		SegmentIndex: index,
		Status:       api.StatusCompleted,
		Data:         map[string]interface{}{"video_url": url},
	}
}

func TestAssemblePlaylist(t *testing.T) {
	var finished *Playlist
	a := New(func(ctx context.Context, p Playlist) {
		finished = &p
	})
	ctx := context.Background()

	require.NoError(t, a.Handle(ctx, events.Event{Type: events.TypeRunSubmitted, RunID: "run-1", SegmentIndex: -1}))
	// Delivery order is not guaranteed
	require.NoError(t, a.Handle(ctx, chained("run-1", 2, "https://video.local/vid-3.mp4")))
	require.NoError(t, a.Handle(ctx, chained("run-1", 0, "https://video.local/vid-1.mp4")))
	require.NoError(t, a.Handle(ctx, chained("run-1", 1, "https://video.local/vid-2.mp4")))

	p, ok := a.Playlist("run-1")
	require.True(t, ok)
	assert.Equal(t, api.StatusRunning, p.Status)
	require.Len(t, p.Clips, 3)
	for i, c := range p.Clips {
		assert.Equal(t, i, c.SegmentIndex)
	}
	assert.Equal(t, "https://video.local/vid-1.mp4", p.Clips[0].VideoURL)
	assert.Nil(t, finished)

	require.NoError(t, a.Handle(ctx, events.Event{
		Type:         events.TypeRunFinished,
		RunID:        "run-1",
		SegmentIndex: -1,
		Status:       api.StatusCompleted,
		Data:         map[string]interface{}{"achieved_duration": 15, "target_duration": 15},
	}))
	require.NotNil(t, finished)
	assert.Equal(t, api.StatusCompleted, finished.Status)
	assert.Equal(t, 15, finished.AchievedDuration)
	require.Len(t, finished.Clips, 3)
}

func TestAssembleWithFailedSegment(t *testing.T) {
	a := New(nil)
	ctx := context.Background()

	require.NoError(t, a.Handle(ctx, chained("run-2", 0, "https://video.local/vid-1.mp4")))
	require.NoError(t, a.Handle(ctx, events.Event{
		Type:         events.TypeSegmentFailed,
		RunID:        "run-2",
		SegmentIndex: 1,
		Status:       api.StatusFailed,
		Data:         map[string]interface{}{"failure": "content policy"},
	}))
	require.NoError(t, a.Handle(ctx, chained("run-2", 2, "https://video.local/vid-3.mp4")))

	p, ok := a.Playlist("run-2")
	require.True(t, ok)
	require.Len(t, p.Clips, 2)
	assert.Equal(t, 0, p.Clips[0].SegmentIndex)
	assert.Equal(t, 2, p.Clips[1].SegmentIndex)
}

func TestAssembleRejectsEventWithoutRunID(t *testing.T) {
	a := New(nil)
	err := a.Handle(context.Background(), events.Event{Type: events.TypeSegmentChained})
	require.Error(t, err)
}

func TestPlaylistUnknownRun(t *testing.T) {
	a := New(nil)
	_, ok := a.Playlist("nope")
	assert.False(t, ok)
}
