package rest

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"framechain/pkg/capability"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

type analyzeRequest struct {
	Image       string `json:"image"` // base64 encoded
	Instruction string `json:"instruction"`
}

type analyzeResponse struct {
	Text string `json:"text"`
}

// NewVisionClient returns a Vision capability bound to the provider
// described by cfg.
func NewVisionClient(cfg VisionConfig) (capability.Vision, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("vision provider base url is empty")
	}
	return &visionClient{
		httpcli: newHTTPClient(),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}, nil
}

type visionClient struct {
	httpcli *retryablehttp.Client
	baseURL string
	apiKey  string
}

func (cli *visionClient) Analyze(ctx context.Context, image []byte, instruction string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("image is empty")
	}
	var res analyzeResponse
	body := analyzeRequest{
		Image:       base64.StdEncoding.EncodeToString(image),
		Instruction: instruction,
	}
	if err := doJSON(ctx, cli.httpcli, http.MethodPost, cli.baseURL+"/v1/analyze", cli.apiKey, body, &res); err != nil {
		return "", errors.Wrap(err, "cannot analyze image")
	}
	if res.Text == "" {
		return "", errors.New("vision provider returned an empty response")
	}
	return res.Text, nil
}
