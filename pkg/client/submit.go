package client

import (
	"context"
	"encoding/json"
	"net/http"

	"framechain/pkg/api"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const (
	// SubmitMethod is http method used for endpoint Submit
	SubmitMethod = http.MethodPost
	// SubmitPath is the path definition of the endpoint Submit.
	SubmitPath = "/runs"
)

// SubmitRequest is the request structure for the Submit endpoint
type SubmitRequest struct {
	api.RunSpec
}

// SubmitResponse is the response structure for the Submit endpoint
type SubmitResponse struct {
	RunID string `json:"runID"`
}

func (cli client) Submit(ctx context.Context, sreq SubmitRequest) (string, error) {
	body, err := json.Marshal(sreq)
	if err != nil {
		return "", errors.Wrap(err, "cannot marshal request")
	}

	req, err := retryablehttp.NewRequest(SubmitMethod, cli.uri+SubmitPath, body)
	if err != nil {
		return "", errors.Wrap(err, "cannot create request")
	}
	req.Header.Set("content-type", "application/json")

	resp, err := cli.httpcli.Do(req.WithContext(ctx))
	if err != nil {
		return "", errors.Wrap(err, "cannot do request")
	}
	defer resp.Body.Close()
	dec := json.NewDecoder(resp.Body)

	if resp.StatusCode == 400 {
		var httpErr HTTPError
		if err := dec.Decode(&httpErr); err != nil {
			//Cannot decode error
			return "", ErrBadRequest{errors.New("bad request")}
		}
		return "", ErrBadRequest{errors.Wrap(httpErr, "run spec is not valid")}
	}
	var res SubmitResponse
	if err := dec.Decode(&res); err != nil {
		return "", errors.Wrap(err, "cannot decode response")
	}
	return res.RunID, nil
}
