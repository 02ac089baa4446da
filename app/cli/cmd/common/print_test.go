package common

import (
	"bytes"
	"testing"
	"time"

	"framechain/pkg/api"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	t1 := time.Unix(1577836800, 0)
	t2 := time.Unix(1577845810, 0)

	s := duration(&t1, &t2)
	assert.Equal(t, "2h 30m 10s", s)
}

func TestVideoProgression(t *testing.T) {
	s := videoProgression(api.RunState{TargetDuration: 20, AchievedDuration: 20})
	assert.Equal(t, "20s/20s", s)

	s = videoProgression(api.RunState{TargetDuration: 20, AchievedDuration: 10})
	assert.Contains(t, s, "10s/20s")
	assert.Contains(t, s, progressBarChar)
}

func TestPrintRun(t *testing.T) {
	start := time.Unix(1577836800, 0)
	end := time.Unix(1577836930, 0)
	var buf bytes.Buffer
	PrintRun(&buf, api.RunState{
		Name:             "knight",
		RunID:            "run-1",
		Status:           api.StatusPartiallyCompleted,
		Prompt:           "a knight rides through a forest",
		TargetDuration:   20,
		SegmentDuration:  9,
		AchievedDuration: 18,
		StartTime:        &start,
		EndTime:          &end,
		Segments: []api.SegmentState{
			{Index: 0, Status: api.StatusCompleted, Phase: api.PhaseChained, Motion: "the knight advances", Duration: 9},
			{Index: 1, Status: api.StatusFailed, Failure: "video job vid-2 failed: content policy"},
			{Index: 2, Status: api.StatusCompleted, Phase: api.PhaseChained, Motion: "the gate opens", Duration: 9},
		},
	}, PrintOptions{})

	out := buf.String()
	assert.Contains(t, out, "knight")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "PARTIALLY_COMPLETED")
	assert.Contains(t, out, "18s/20s")
	assert.Contains(t, out, "segment 2")
	assert.Contains(t, out, "content policy")
}
