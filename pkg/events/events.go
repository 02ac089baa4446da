package events

import (
	"fmt"
	"time"

	"framechain/pkg/api"
)

// EventType type of event
type EventType string

const (
	// TypeRunSubmitted a run was accepted and its segments planned
	TypeRunSubmitted EventType = "RUN_SUBMITTED"

	// TypeSegmentChained a segment completed and its end frame is
	// available for the next segment
	TypeSegmentChained EventType = "SEGMENT_CHAINED"

	// TypeSegmentFailed a segment failed, the run continues from the
	// last good frame
	TypeSegmentFailed EventType = "SEGMENT_FAILED"

	// TypeRunFinished a run reached a terminal status
	TypeRunFinished EventType = "RUN_FINISHED"
)

// Event represents a lifecycle message published on the broker.
type Event struct {
	Type         EventType
	RunID        string
	SegmentIndex int
	Status       api.Status
	Data         interface{}
	Time         time.Time
}

func (e Event) String() string {
	if e.SegmentIndex >= 0 {
		return fmt.Sprintf("%s for segment %d of run %s", e.Type, e.SegmentIndex, e.RunID)
	}
	return fmt.Sprintf("%s for run %s", e.Type, e.RunID)
}

// SegmentEventData is the expected data type for segment events.
type SegmentEventData struct {
	VideoURL    string `json:"video_url,omitempty" mapstructure:"video_url"`
	EndFrameURL string `json:"end_frame_url,omitempty" mapstructure:"end_frame_url"`
	Failure     string `json:"failure,omitempty" mapstructure:"failure"`
}

// RunEventData is the expected data type for run events.
type RunEventData struct {
	AchievedDuration int `json:"achieved_duration" mapstructure:"achieved_duration"`
	TargetDuration   int `json:"target_duration" mapstructure:"target_duration"`
}
