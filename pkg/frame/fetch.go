package frame

import (
	"context"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

// maxAssetSize bounds how much of a remote asset is read into memory.
const maxAssetSize = 32 << 20 // 32 MiB

// Fetcher downloads a remote asset into memory.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// NewHTTPFetcher returns a Fetcher downloading over HTTP with retries.
func NewHTTPFetcher() Fetcher {
	httpcli := retryablehttp.NewClient()
	httpcli.Logger = nil
	return httpFetcher{httpcli: httpcli}
}

type httpFetcher struct {
	httpcli *retryablehttp.Client
}

func (f httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, errors.New("url is empty")
	}
	req, err := retryablehttp.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create request")
	}
	resp, err := f.httpcli.Do(req.WithContext(ctx))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot fetch %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("GET %s returned %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read body of %s", url)
	}
	return data, nil
}
