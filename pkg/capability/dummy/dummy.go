// Package dummy is an in-process binding of every capability contract.
// This mode is for development/testing purpose: jobs complete
// deterministically after a fixed number of polls and failures can be
// injected per capability.
package dummy

import (
	"context"
	"fmt"
	"sync"

	"framechain/pkg/api"
	"framechain/pkg/capability"
	"framechain/pkg/job"

	"github.com/pkg/errors"
)

const defaultPollsToComplete = 2

// Dummy implements ImageSynthesis, VideoSynthesis, Vision and Hosting.
type Dummy struct {
	// PollsToComplete is the number of polls a job stays in RUNNING state
	// before completing.
	PollsToComplete int

	// FailImages makes every image job terminate in a failure state.
	FailImages bool

	// FailVideos makes every video job terminate in a failure state.
	FailVideos bool

	// FailVision makes Analyze return an error.
	FailVision bool

	// FailUploads makes Upload return an error.
	FailUploads bool

	mu   sync.Mutex
	seq  int
	jobs map[string]*pendingJob
}

type pendingJob struct {
	kind      job.Kind
	remaining int
	fail      bool
}

// New returns a dummy binding with default behavior.
func New() *Dummy {
	return &Dummy{
		PollsToComplete: defaultPollsToComplete,
		jobs:            make(map[string]*pendingJob),
	}
}

func (d *Dummy) submit(kind job.Kind, fail bool) job.Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	id := fmt.Sprintf("%s-%d", kind, d.seq)
	d.jobs[id] = &pendingJob{
		kind:      kind,
		remaining: d.PollsToComplete,
		fail:      fail,
	}
	return job.Handle{ID: id, Kind: kind}
}

func (d *Dummy) poll(jobID string) (job.PollResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	j, exists := d.jobs[jobID]
	if !exists {
		return job.PollResult{}, errors.Errorf("unknown job %s", jobID)
	}
	if j.remaining > 0 {
		j.remaining--
		return job.PollResult{Status: api.StatusRunning}, nil
	}
	if j.fail {
		return job.PollResult{Status: api.StatusFailed, FailureReason: "dummy failure"}, nil
	}
	switch j.kind {
	case job.KindImage:
		return job.PollResult{
			Status: api.StatusCompleted,
			URL:    fmt.Sprintf("https://dummy.local/images/%s.png", jobID),
		}, nil
	default:
		return job.PollResult{
			Status:       api.StatusCompleted,
			URL:          fmt.Sprintf("https://dummy.local/videos/%s.mp4", jobID),
			ThumbnailURL: fmt.Sprintf("https://dummy.local/videos/%s_last.png", jobID),
		}, nil
	}
}

// SubmitImage implements capability.ImageSynthesis.
func (d *Dummy) SubmitImage(ctx context.Context, prompt, aspectRatio, model string) (job.Handle, error) {
	return d.submit(job.KindImage, d.FailImages), nil
}

// PollImage implements capability.ImageSynthesis.
func (d *Dummy) PollImage(ctx context.Context, jobID string) (job.PollResult, error) {
	return d.poll(jobID)
}

// SubmitVideo implements capability.VideoSynthesis.
func (d *Dummy) SubmitVideo(ctx context.Context, req capability.VideoRequest) (job.Handle, error) {
	if !api.IsSupportedDuration(req.Duration) {
		return job.Handle{}, api.UnsupportedDurationError{Requested: req.Duration}
	}
	return d.submit(job.KindVideo, d.FailVideos), nil
}

// PollVideo implements capability.VideoSynthesis.
func (d *Dummy) PollVideo(ctx context.Context, jobID string) (job.PollResult, error) {
	return d.poll(jobID)
}

// Analyze implements capability.Vision.
func (d *Dummy) Analyze(ctx context.Context, image []byte, instruction string) (string, error) {
	if d.FailVision {
		return "", errors.New("dummy vision failure")
	}
	return "The same scene a few seconds later, characters and framing unchanged, with a slight forward motion.", nil
}

// Upload implements capability.Hosting.
func (d *Dummy) Upload(ctx context.Context, image []byte) (string, error) {
	if d.FailUploads {
		return "", errors.New("dummy upload failure")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	return fmt.Sprintf("https://cdn.dummy.local/relay/%d.png", d.seq), nil
}

// Name implements capability.Hosting.
func (d *Dummy) Name() string {
	return "dummy"
}
