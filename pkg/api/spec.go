package api

import (
	"fmt"

	"github.com/pkg/errors"
)

// SupportedSegmentDurations are the two discrete clip lengths (in seconds)
// accepted by the video synthesis backend. Any other requested length is
// rejected before submission.
var SupportedSegmentDurations = [2]int{5, 9}

// RunSpec is the specification of a chained video generation run.
type RunSpec struct {
	// Name is a human readable name for the run.
	Name string `json:"name"`

	// Prompt is the narrative prompt driving the whole video.
	Prompt string `json:"prompt"`

	// Style is the visual style tag appended to every image prompt.
	Style string `json:"style,omitempty"`

	// TargetDuration is the requested total duration in seconds.
	TargetDuration int `json:"targetDuration"`

	// SegmentDuration is the clip length in seconds, fixed for the whole
	// run. Must be one of SupportedSegmentDurations.
	SegmentDuration int `json:"segmentDuration"`

	// Premium materializes a predicted end frame for every segment so the
	// video backend can interpolate between two keyframes. When false only
	// the textual motion description is produced and the backend
	// extrapolates from the start frame alone.
	Premium bool `json:"premium,omitempty"`
}

// Validate validates the run specification
// Rules are:
// - Prompt is not empty
// - TargetDuration is strictly positive
// - SegmentDuration is one of the supported discrete lengths
func (s RunSpec) Validate() error {
	if s.Prompt == "" {
		return errors.New("prompt is empty")
	}
	if s.TargetDuration <= 0 {
		return errors.Errorf("target duration %d is not strictly positive", s.TargetDuration)
	}
	if !IsSupportedDuration(s.SegmentDuration) {
		return UnsupportedDurationError{Requested: s.SegmentDuration}
	}
	return nil
}

// SegmentCount returns the number of segments needed to reach the target
// duration, i.e. ceil(TargetDuration / SegmentDuration).
func (s RunSpec) SegmentCount() int {
	return (s.TargetDuration + s.SegmentDuration - 1) / s.SegmentDuration
}

// IsSupportedDuration returns true if d is one of the discrete clip lengths
// accepted by the video synthesis backend.
func IsSupportedDuration(d int) bool {
	for _, sd := range SupportedSegmentDurations {
		if d == sd {
			return true
		}
	}
	return false
}

// UnsupportedDurationError is returned when a requested clip length is not
// one of the supported discrete lengths.
type UnsupportedDurationError struct {
	Requested int
}

func (e UnsupportedDurationError) Error() string {
	return fmt.Sprintf("duration %ds is not supported, must be one of %v seconds", e.Requested, SupportedSegmentDurations)
}

// IsUnsupportedDuration returns true if err is an UnsupportedDurationError.
func IsUnsupportedDuration(err error) bool {
	var e UnsupportedDurationError
	return errors.As(err, &e)
}
