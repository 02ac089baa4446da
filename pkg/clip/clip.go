package clip

import (
	"framechain/pkg/api"
	"framechain/pkg/capability"
	"framechain/pkg/job"
	"framechain/pkg/util/context"

	"github.com/pkg/errors"
)

// Request describes one segment video to synthesize.
type Request struct {
	// Motion is the motion/continuity description used as the text
	// prompt of the video job.
	Motion string

	// Duration is the requested clip length in seconds. Must be one of
	// the two supported discrete lengths.
	Duration int

	// StartFrameURL is the frame0 keyframe, required.
	StartFrameURL string

	// EndFrameURL is the frame1 keyframe. When set the backend
	// interpolates between the two anchor points (dual-keyframe mode),
	// which produces measurably better continuity than single-keyframe
	// extrapolation.
	EndFrameURL string
}

// Result is a finished segment clip.
type Result struct {
	VideoURL     string
	ThumbnailURL string
}

// Synthesizer produces one video clip from one or two keyframes and a
// motion description. Submission and completion are split so the caller
// can track the polling phase separately.
type Synthesizer interface {
	// Submit validates the request and submits the video job.
	Submit(ctx context.Context, req Request) (job.Handle, error)

	// Await polls the job until it produces a clip.
	Await(ctx context.Context, h job.Handle) (Result, error)
}

// NewSynthesizer returns a Synthesizer backed by the given video capability.
func NewSynthesizer(videos capability.VideoSynthesis, jobs job.Client) Synthesizer {
	return synthesizer{videos: videos, jobs: jobs}
}

type synthesizer struct {
	videos capability.VideoSynthesis
	jobs   job.Client
}

func (s synthesizer) Submit(ctx context.Context, req Request) (job.Handle, error) {
	if !api.IsSupportedDuration(req.Duration) {
		return job.Handle{}, api.UnsupportedDurationError{Requested: req.Duration}
	}
	if req.StartFrameURL == "" {
		return job.Handle{}, errors.New("start frame url is empty")
	}

	h, err := s.videos.SubmitVideo(ctx, capability.VideoRequest{
		Prompt:        req.Motion,
		Duration:      req.Duration,
		StartFrameURL: req.StartFrameURL,
		EndFrameURL:   req.EndFrameURL,
	})
	if err != nil {
		return job.Handle{}, errors.Wrap(err, "cannot submit video job")
	}
	mode := "single-keyframe"
	if req.EndFrameURL != "" {
		mode = "dual-keyframe"
	}
	ctx.Logger().Infof("video job %s submitted in %s mode for a %ds clip", h.ID, mode, req.Duration)
	return h, nil
}

func (s synthesizer) Await(ctx context.Context, h job.Handle) (Result, error) {
	res, err := s.jobs.Await(ctx, h, func(c context.Context) (job.PollResult, error) {
		return s.videos.PollVideo(c, h.ID)
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "video job did not complete")
	}
	return Result{
		VideoURL:     res.URL,
		ThumbnailURL: res.ThumbnailURL,
	}, nil
}
