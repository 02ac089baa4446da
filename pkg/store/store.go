package store

import (
	"context"

	"framechain/pkg/api"
)

// SegmentResult is the payload recorded for a successfully chained segment.
type SegmentResult struct {
	Motion       string
	EndFrameURL  string
	VideoURL     string
	ThumbnailURL string
	Duration     int
	Degraded     bool
}

// Store interface defines access to the run store backend.
// Independent runs execute concurrently, implementations must be safe for
// concurrent use by the orchestrator goroutines and the controller.
type Store interface {
	RunStore
	ReadOnlyStore
}

// RunStore defines the write access used by the chain orchestrator.
type RunStore interface {
	// CreateRun creates a new run with its spec.
	CreateRun(ctx context.Context, runID string, spec api.RunSpec) error

	// CreateSegments creates count segments for the run.
	CreateSegments(ctx context.Context, runID string, count int) error

	SetRunStatus(ctx context.Context, runID string, status api.Status) error

	SetSegmentStatus(ctx context.Context, runID string, index int, status api.Status, failure string) error

	// SetSegmentPhase records the chain loop sub-step the segment is in.
	SetSegmentPhase(ctx context.Context, runID string, index int, phase api.Phase) error

	SetSegmentStartFrame(ctx context.Context, runID string, index int, url string) error

	// SetSegmentResult records the artifacts of a chained segment.
	SetSegmentResult(ctx context.Context, runID string, index int, res SegmentResult) error
}

// ReadOnlyStore are functions used by the controller to access data in RO.
type ReadOnlyStore interface {
	// ListRuns returns the runs as a map with runID as key and name as
	// value.
	ListRuns(ctx context.Context) (map[string]string, error)

	RunState(ctx context.Context, runID string) (api.RunState, error)

	SegmentState(ctx context.Context, runID string, index int) (api.SegmentState, error)
}
