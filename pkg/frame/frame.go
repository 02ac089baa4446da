package frame

import (
	"fmt"

	"framechain/pkg/api"
	"framechain/pkg/capability"
	"framechain/pkg/job"
	"framechain/pkg/util/context"

	"github.com/pkg/errors"
)

// Synthesizer produces a single still image matching a style-augmented
// prompt through an asynchronous image generation job.
type Synthesizer interface {
	// Synthesize returns the generated image with its bytes fetched.
	// Failures are propagated to the caller, there is no later step that
	// can recover a missing frame.
	Synthesize(ctx context.Context, prompt, style string) (api.MediaAsset, error)
}

// Options tunes the image generation requests.
type Options struct {
	// AspectRatio of the generated frames, e.g. "16:9".
	AspectRatio string

	// Model is an optional provider model hint.
	Model string
}

// NewSynthesizer returns a Synthesizer backed by the given image capability.
func NewSynthesizer(images capability.ImageSynthesis, jobs job.Client, fetch Fetcher, opts Options) Synthesizer {
	if opts.AspectRatio == "" {
		opts.AspectRatio = "16:9"
	}
	return synthesizer{
		images: images,
		jobs:   jobs,
		fetch:  fetch,
		opts:   opts,
	}
}

type synthesizer struct {
	images capability.ImageSynthesis
	jobs   job.Client
	fetch  Fetcher
	opts   Options
}

func (s synthesizer) Synthesize(ctx context.Context, prompt, style string) (api.MediaAsset, error) {
	styled := StylePrompt(prompt, style)
	h, err := s.images.SubmitImage(ctx, styled, s.opts.AspectRatio, s.opts.Model)
	if err != nil {
		return api.MediaAsset{}, errors.Wrap(err, "cannot submit image job")
	}
	ctx.Logger().Infof("image job %s submitted", h.ID)

	res, err := s.jobs.Await(ctx, h, func(c context.Context) (job.PollResult, error) {
		return s.images.PollImage(c, h.ID)
	})
	if err != nil {
		return api.MediaAsset{}, errors.Wrap(err, "image job did not complete")
	}

	asset := api.MediaAsset{
		Kind:   api.AssetImage,
		Origin: api.OriginSynthesized,
	}
	// The provider URL is not recorded on the asset: the video backend
	// cannot dereference it, only relay URLs count as hosted locations.
	bytes, err := s.fetch.Fetch(ctx, res.URL)
	if err != nil {
		ctx.Logger().Warnf("cannot fetch generated image %s: %s", res.URL, err)
	} else {
		asset.Bytes = bytes
	}
	return asset, nil
}

// StylePrompt augments a prompt with the run's visual style tag.
func StylePrompt(prompt, style string) string {
	if style == "" {
		return prompt
	}
	return fmt.Sprintf("%s, %s style", prompt, style)
}
