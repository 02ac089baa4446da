// Package rest binds the capability contracts to HTTP providers exposing
// the generic submit/poll REST contract. Base URLs and credentials come
// from the config layer.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"framechain/pkg/api"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

// ImageConfig is the configuration of the image synthesis provider.
type ImageConfig struct {
	BaseURL string `json:"base_url" mapstructure:"base_url" env:"IMAGE_API_URL"`
	APIKey  string `json:"api_key" mapstructure:"api_key" env:"IMAGE_API_KEY"`
}

// VideoConfig is the configuration of the video synthesis provider.
type VideoConfig struct {
	BaseURL string `json:"base_url" mapstructure:"base_url" env:"VIDEO_API_URL"`
	APIKey  string `json:"api_key" mapstructure:"api_key" env:"VIDEO_API_KEY"`
}

// VisionConfig is the configuration of the vision prediction provider.
type VisionConfig struct {
	BaseURL string `json:"base_url" mapstructure:"base_url" env:"VISION_API_URL"`
	APIKey  string `json:"api_key" mapstructure:"api_key" env:"VISION_API_KEY"`
}

// HostingConfig is the configuration of one image hosting provider.
type HostingConfig struct {
	Name    string `json:"name" mapstructure:"name"`
	BaseURL string `json:"base_url" mapstructure:"base_url"`
	APIKey  string `json:"api_key" mapstructure:"api_key"`
}

func newHTTPClient() *retryablehttp.Client {
	httpcli := retryablehttp.NewClient()
	httpcli.Logger = nil
	return httpcli
}

// doJSON performs a request with a JSON body and decodes a JSON response
// into out.
func doJSON(ctx context.Context, httpcli *retryablehttp.Client, method, url, apiKey string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "cannot marshal request")
		}
		body = bytes.NewReader(b)
	}

	req, err := retryablehttp.NewRequest(method, url, body)
	if err != nil {
		return errors.Wrap(err, "cannot create request")
	}
	req.Header.Set("content-type", "application/json")
	if apiKey != "" {
		req.Header.Set("authorization", "Bearer "+apiKey)
	}

	resp, err := httpcli.Do(req.WithContext(ctx))
	if err != nil {
		return errors.Wrap(err, "cannot do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.Errorf("%s %s returned %d: %s", method, url, resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "cannot decode response")
	}
	return nil
}

// mapStatus converts a provider-reported status string to an api.Status.
// Unknown values are treated as still running so polling continues until
// the budget expires.
func mapStatus(s string) api.Status {
	switch strings.ToLower(s) {
	case "pending", "queued", "in_queue", "submitted":
		return api.StatusSubmitted
	case "processing", "running", "in_progress", "generating":
		return api.StatusRunning
	case "completed", "succeeded", "success", "done":
		return api.StatusCompleted
	case "failed", "error", "cancelled":
		return api.StatusFailed
	default:
		return api.StatusRunning
	}
}
