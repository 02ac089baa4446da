package api

import (
	"time"
)

// RunInfo represents basic run information
type RunInfo struct {
	Name  string
	RunID string
}

// RunState represents the state of a chained video generation run.
type RunState struct {
	Name             string         `json:"name"`
	RunID            string         `json:"runID"`
	Status           Status         `json:"status"`
	Prompt           string         `json:"prompt"`
	Style            string         `json:"style,omitempty"`
	TargetDuration   int            `json:"targetDuration"`
	SegmentDuration  int            `json:"segmentDuration"`
	AchievedDuration int            `json:"achievedDuration"`
	Segments         []SegmentState `json:"segments,omitempty"`
	CreateTime       *time.Time     `json:"createTime,omitempty"`
	StartTime        *time.Time     `json:"startTime,omitempty"`
	EndTime          *time.Time     `json:"endTime,omitempty"`
}

// SegmentState represents the state of one link of the chain.
type SegmentState struct {
	Index         int        `json:"index"`
	Status        Status     `json:"status"`
	Phase         Phase      `json:"phase,omitempty"`
	StartFrameURL string     `json:"startFrameURL,omitempty"`
	EndFrameURL   string     `json:"endFrameURL,omitempty"`
	VideoURL      string     `json:"videoURL,omitempty"`
	ThumbnailURL  string     `json:"thumbnailURL,omitempty"`
	Motion        string     `json:"motion,omitempty"`
	Duration      int        `json:"duration,omitempty"`
	Degraded      bool       `json:"degraded,omitempty"`
	Failure       string     `json:"failure,omitempty"`
	StartTime     *time.Time `json:"startTime,omitempty"`
	EndTime       *time.Time `json:"endTime,omitempty"`
}
