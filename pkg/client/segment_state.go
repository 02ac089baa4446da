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

// SegmentStateResponse is the response of the SegmentState endpoint.
type SegmentStateResponse api.SegmentState

const (
	// SegmentStateMethod is http method used for endpoint SegmentState
	SegmentStateMethod     = http.MethodGet
	segmentStatePathFormat = "/runs/%s/segments/%s/state"
)

var (
	// SegmentStatePath is the path definition of the endpoint SegmentState.
	SegmentStatePath = fmt.Sprintf(segmentStatePathFormat, fmt.Sprintf(":%s", RunIDParam), fmt.Sprintf(":%s", SegmentIndexParam))
)

func (cli client) SegmentState(ctx context.Context, rid string, index int) (SegmentStateResponse, error) {
	req, err := retryablehttp.NewRequest(SegmentStateMethod, fmt.Sprintf(cli.uri+segmentStatePathFormat, rid, fmt.Sprintf("%d", index)), nil)
	if err != nil {
		return SegmentStateResponse{}, errors.Wrap(err, "cannot create request")
	}
	resp, err := cli.httpcli.Do(req.WithContext(ctx))
	if err != nil {
		return SegmentStateResponse{}, errors.Wrap(err, "cannot do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 {
		return SegmentStateResponse{}, ErrNotFound{fmt.Sprintf("run %s or segment %d", rid, index)}
	}

	var res SegmentStateResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return SegmentStateResponse{}, errors.Wrap(err, "cannot decode response")
	}
	return res, nil
}
