package api

// Status is a run, segment or job status
type Status string

const (
	// StatusCreated default status, item is created
	StatusCreated Status = "CREATED"

	// StatusSubmitted status for items submitted to an external provider
	StatusSubmitted Status = "SUBMITTED"

	// StatusRunning status for items running
	StatusRunning Status = "RUNNING"

	// StatusCompleted status for items completed
	StatusCompleted Status = "COMPLETED"

	// StatusPartiallyCompleted status for runs where at least one segment
	// succeeded and at least one failed
	StatusPartiallyCompleted Status = "PARTIALLY_COMPLETED"

	// StatusFailed status for items failed
	StatusFailed Status = "FAILED"

	// StatusTimedOut status for jobs that never reached a terminal state
	// within their poll budget
	StatusTimedOut Status = "TIMEDOUT"

	// StatusSkipped status for segments never attempted because the run
	// budget was exhausted
	StatusSkipped Status = "SKIPPED"
)

// Finished returns true if the status is considered final
func (s Status) Finished() bool {
	for _, fs := range []Status{StatusCompleted, StatusPartiallyCompleted, StatusFailed, StatusTimedOut, StatusSkipped} {
		if s == fs {
			return true
		}
	}
	return false
}

// Phase is the sub-step a segment currently is in within the chain loop.
type Phase string

const (
	// PhasePredicting the continuity predictor is describing the future frame
	PhasePredicting Phase = "PREDICTING"

	// PhaseRelaying keyframes are being re-hosted for the video backend
	PhaseRelaying Phase = "RELAYING"

	// PhaseSubmitting the video job is being submitted
	PhaseSubmitting Phase = "SUBMITTING"

	// PhasePolling the video job is being polled until terminal state
	PhasePolling Phase = "POLLING"

	// PhaseChained the segment finished and its end frame is available for
	// the next segment
	PhaseChained Phase = "CHAINED"
)
