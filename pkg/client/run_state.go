package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"framechain/pkg/api"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

// RunStateResponse is the response of the RunState endpoint.
type RunStateResponse api.RunState

const (
	// RunStateMethod is http method used for endpoint RunState
	RunStateMethod     = http.MethodGet
	runStatePathFormat = "/runs/%s/state"
)

var (
	// RunStatePath is the path definition of the endpoint RunState.
	RunStatePath = fmt.Sprintf(runStatePathFormat, fmt.Sprintf(":%s", RunIDParam))
)

func (cli client) RunState(ctx context.Context, rid string) (RunStateResponse, error) {
	req, err := retryablehttp.NewRequest(RunStateMethod, fmt.Sprintf(cli.uri+runStatePathFormat, rid), nil)
	if err != nil {
		return RunStateResponse{}, errors.Wrap(err, "cannot create request")
	}
	resp, err := cli.httpcli.Do(req.WithContext(ctx))
	if err != nil {
		return RunStateResponse{}, errors.Wrap(err, "cannot do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 {
		return RunStateResponse{}, ErrNotFound{fmt.Sprintf("run %s", rid)}
	}

	var res RunStateResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return RunStateResponse{}, errors.Wrap(err, "cannot decode response")
	}
	return res, nil
}
