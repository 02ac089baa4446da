package rest

import (
	"context"
	"net/http"
	"strings"

	"framechain/pkg/capability"
	"framechain/pkg/job"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

type submitImageRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
	Model       string `json:"model,omitempty"`
}

type submitResponse struct {
	JobID string `json:"job_id"`
}

type pollImageResponse struct {
	Status        string `json:"status"`
	ImageURL      string `json:"image_url,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// NewImageClient returns an ImageSynthesis bound to the provider described
// by cfg.
func NewImageClient(cfg ImageConfig) (capability.ImageSynthesis, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("image provider base url is empty")
	}
	return &imageClient{
		httpcli: newHTTPClient(),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}, nil
}

type imageClient struct {
	httpcli *retryablehttp.Client
	baseURL string
	apiKey  string
}

func (cli *imageClient) SubmitImage(ctx context.Context, prompt, aspectRatio, model string) (job.Handle, error) {
	var res submitResponse
	req := submitImageRequest{Prompt: prompt, AspectRatio: aspectRatio, Model: model}
	if err := doJSON(ctx, cli.httpcli, http.MethodPost, cli.baseURL+"/v1/images", cli.apiKey, req, &res); err != nil {
		return job.Handle{}, errors.Wrap(err, "cannot submit image job")
	}
	if res.JobID == "" {
		return job.Handle{}, errors.New("image provider returned an empty job id")
	}
	return job.Handle{ID: res.JobID, Kind: job.KindImage}, nil
}

func (cli *imageClient) PollImage(ctx context.Context, jobID string) (job.PollResult, error) {
	var res pollImageResponse
	if err := doJSON(ctx, cli.httpcli, http.MethodGet, cli.baseURL+"/v1/images/"+jobID, cli.apiKey, nil, &res); err != nil {
		return job.PollResult{}, errors.Wrapf(err, "cannot poll image job %s", jobID)
	}
	return job.PollResult{
		Status:        mapStatus(res.Status),
		URL:           res.ImageURL,
		FailureReason: res.FailureReason,
	}, nil
}
