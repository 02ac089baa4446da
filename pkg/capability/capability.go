// Package capability defines the contracts of the external generative
// backends the chain depends on. Concrete vendor bindings live in
// subpackages and are injected explicitly, there is no module-level client
// state.
package capability

import (
	"context"

	"framechain/pkg/job"
)

// ImageSynthesis submits asynchronous still-image generation jobs.
type ImageSynthesis interface {
	// SubmitImage submits a generation job for the given prompt and
	// returns a handle to poll.
	SubmitImage(ctx context.Context, prompt, aspectRatio, model string) (job.Handle, error)

	// PollImage returns the current state of an image job.
	PollImage(ctx context.Context, jobID string) (job.PollResult, error)
}

// Vision analyzes an image against an instruction prompt. Synchronous,
// single-call, no job semantics.
type Vision interface {
	Analyze(ctx context.Context, image []byte, instruction string) (string, error)
}

// VideoRequest is the payload of one video synthesis job.
type VideoRequest struct {
	// Prompt is the motion description.
	Prompt string

	// Duration is the clip length in seconds, one of the two discrete
	// lengths the backend supports.
	Duration int

	// StartFrameURL is the frame0 keyframe. Must be a URL the backend
	// itself is able to dereference.
	StartFrameURL string

	// EndFrameURL is the optional frame1 keyframe enabling dual-keyframe
	// interpolation.
	EndFrameURL string
}

// VideoSynthesis submits asynchronous keyframe-driven video generation jobs.
type VideoSynthesis interface {
	SubmitVideo(ctx context.Context, req VideoRequest) (job.Handle, error)
	PollVideo(ctx context.Context, jobID string) (job.PollResult, error)
}

// Hosting uploads image bytes to a hosting provider and returns a public
// URL.
type Hosting interface {
	// Name identifies the provider in logs and relay failure reports.
	Name() string

	Upload(ctx context.Context, image []byte) (string, error)
}
