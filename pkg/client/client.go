package client

import (
	"context"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	// RunIDParam is the param definition for RunID
	RunIDParam = "runID"

	// SegmentIndexParam is the param definition for the segment index
	SegmentIndexParam = "index"
)

// Client is the API client that performs all operations to a framechain server
type Client interface {
	// Submit submits a new run with the given spec.
	// It returns a run identifier, the run executes asynchronously.
	Submit(ctx context.Context, spec SubmitRequest) (string, error)

	// ListRuns returns the runs known to the server.
	ListRuns(ctx context.Context) (ListRunsResponse, error)

	// RunState returns the state of a run.
	RunState(ctx context.Context, runID string) (RunStateResponse, error)

	// SegmentState returns the state of a segment.
	SegmentState(ctx context.Context, runID string, index int) (SegmentStateResponse, error)
}

// NewClient creates a framechain client
func NewClient(uri string) (Client, error) {
	httpcli := retryablehttp.NewClient()
	httpcli.Logger = nil
	u := strings.TrimRight(uri, "/")
	return client{
		httpcli: httpcli,
		uri:     u,
	}, nil
}

type client struct {
	httpcli *retryablehttp.Client
	uri     string
}
