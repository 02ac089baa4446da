package rest

import (
	"context"
	"net/http"
	"strings"

	"framechain/pkg/api"
	"framechain/pkg/capability"
	"framechain/pkg/job"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

type submitVideoRequest struct {
	Prompt   string `json:"prompt"`
	Duration int    `json:"duration"`
	Frame0   string `json:"frame0"`
	Frame1   string `json:"frame1,omitempty"`
}

type pollVideoResponse struct {
	Status        string `json:"status"`
	VideoURL      string `json:"video_url,omitempty"`
	ThumbnailURL  string `json:"thumbnail_url,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// NewVideoClient returns a VideoSynthesis bound to the provider described
// by cfg.
func NewVideoClient(cfg VideoConfig) (capability.VideoSynthesis, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("video provider base url is empty")
	}
	return &videoClient{
		httpcli: newHTTPClient(),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}, nil
}

type videoClient struct {
	httpcli *retryablehttp.Client
	baseURL string
	apiKey  string
}

func (cli *videoClient) SubmitVideo(ctx context.Context, req capability.VideoRequest) (job.Handle, error) {
	if !api.IsSupportedDuration(req.Duration) {
		return job.Handle{}, api.UnsupportedDurationError{Requested: req.Duration}
	}
	if req.StartFrameURL == "" {
		return job.Handle{}, errors.New("start frame url is empty")
	}
	var res submitResponse
	body := submitVideoRequest{
		Prompt:   req.Prompt,
		Duration: req.Duration,
		Frame0:   req.StartFrameURL,
		Frame1:   req.EndFrameURL,
	}
	if err := doJSON(ctx, cli.httpcli, http.MethodPost, cli.baseURL+"/v1/videos", cli.apiKey, body, &res); err != nil {
		return job.Handle{}, errors.Wrap(err, "cannot submit video job")
	}
	if res.JobID == "" {
		return job.Handle{}, errors.New("video provider returned an empty job id")
	}
	return job.Handle{ID: res.JobID, Kind: job.KindVideo}, nil
}

func (cli *videoClient) PollVideo(ctx context.Context, jobID string) (job.PollResult, error) {
	var res pollVideoResponse
	if err := doJSON(ctx, cli.httpcli, http.MethodGet, cli.baseURL+"/v1/videos/"+jobID, cli.apiKey, nil, &res); err != nil {
		return job.PollResult{}, errors.Wrapf(err, "cannot poll video job %s", jobID)
	}
	return job.PollResult{
		Status:        mapStatus(res.Status),
		URL:           res.VideoURL,
		ThumbnailURL:  res.ThumbnailURL,
		FailureReason: res.FailureReason,
	}, nil
}
