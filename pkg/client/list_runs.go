package client

import (
	"context"
	"encoding/json"
	"net/http"

	"framechain/pkg/api"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

// ListRunsResponse is the response of the ListRuns endpoint.
type ListRunsResponse []api.RunInfo

const (
	// ListRunsMethod is http method used for endpoint ListRuns
	ListRunsMethod = http.MethodGet
	// ListRunsPath is the path definition of the endpoint ListRuns.
	ListRunsPath = "/runs"
)

func (cli client) ListRuns(ctx context.Context) (ListRunsResponse, error) {
	req, err := retryablehttp.NewRequest(ListRunsMethod, cli.uri+ListRunsPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create request")
	}
	resp, err := cli.httpcli.Do(req.WithContext(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "cannot do request")
	}
	defer resp.Body.Close()

	var res ListRunsResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, errors.Wrap(err, "cannot decode response")
	}
	return res, nil
}
