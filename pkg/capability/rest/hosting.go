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

type uploadRequest struct {
	Image string `json:"image"` // base64 encoded
}

type uploadResponse struct {
	URL string `json:"url"`
}

// NewHostingClient returns a Hosting capability bound to the provider
// described by cfg.
func NewHostingClient(cfg HostingConfig) (capability.Hosting, error) {
	if cfg.BaseURL == "" {
		return nil, errors.Errorf("hosting provider %s base url is empty", cfg.Name)
	}
	name := cfg.Name
	if name == "" {
		name = cfg.BaseURL
	}
	return &hostingClient{
		httpcli: newHTTPClient(),
		name:    name,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}, nil
}

type hostingClient struct {
	httpcli *retryablehttp.Client
	name    string
	baseURL string
	apiKey  string
}

func (cli *hostingClient) Name() string {
	return cli.name
}

func (cli *hostingClient) Upload(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", errors.New("image is empty")
	}
	var res uploadResponse
	body := uploadRequest{Image: base64.StdEncoding.EncodeToString(image)}
	if err := doJSON(ctx, cli.httpcli, http.MethodPost, cli.baseURL+"/v1/upload", cli.apiKey, body, &res); err != nil {
		return "", errors.Wrapf(err, "cannot upload image to %s", cli.name)
	}
	if res.URL == "" {
		return "", errors.Errorf("hosting provider %s returned an empty url", cli.name)
	}
	return res.URL, nil
}
