package relay

import (
	"framechain/pkg/capability"
	"framechain/pkg/job"
	"framechain/pkg/util/context"

	"github.com/pkg/errors"
)

// Resynthesize returns the highest-priority strategy: regenerate the image
// directly through the provider that will also perform the video synthesis.
// The resulting URL is by construction one that provider can dereference.
// It needs a usable regeneration description and ignores the raw bytes.
func Resynthesize(images capability.ImageSynthesis, jobs job.Client, aspectRatio string) Strategy {
	return resynthesize{images: images, jobs: jobs, aspectRatio: aspectRatio}
}

type resynthesize struct {
	images      capability.ImageSynthesis
	jobs        job.Client
	aspectRatio string
}

func (s resynthesize) Name() string {
	return "resynthesize"
}

func (s resynthesize) Attempt(ctx context.Context, image []byte, description string) (string, error) {
	if description == "" {
		return "", errors.New("no regeneration description available")
	}
	h, err := s.images.SubmitImage(ctx, description, s.aspectRatio, "")
	if err != nil {
		return "", errors.Wrap(err, "cannot submit resynthesis job")
	}
	res, err := s.jobs.Await(ctx, h, func(c context.Context) (job.PollResult, error) {
		return s.images.PollImage(c, h.ID)
	})
	if err != nil {
		return "", errors.Wrap(err, "resynthesis job did not complete")
	}
	return res.URL, nil
}

// Upload returns a strategy pushing the raw bytes to an external hosting
// provider.
func Upload(host capability.Hosting) Strategy {
	return upload{host: host}
}

type upload struct {
	host capability.Hosting
}

func (s upload) Name() string {
	return s.host.Name()
}

func (s upload) Attempt(ctx context.Context, image []byte, description string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("no image bytes to upload")
	}
	return s.host.Upload(ctx, image)
}
