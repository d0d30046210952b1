package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fwbox/burnish/internal/errs"
	"github.com/fwbox/burnish/internal/utils"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type DefaultHTTPClient struct{ *http.Client }

func NewHTTPClient(timeout time.Duration) *DefaultHTTPClient {
	return &DefaultHTTPClient{Client: &http.Client{Timeout: timeout}}
}

// Get performs a context-aware GET against an https URL and requires a 200.
// The caller owns resp.Body. Failures are classified as TransportFailure.
func Get(ctx context.Context, c HTTPClient, url string) (*http.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parsed, err := utils.ParseSecureURL(url)
	if err != nil {
		return nil, errs.Wrap(errs.TransportFailure, err, "invalid URL %s", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/octet-stream, application/json")

	resp, err := c.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.TransportFailure, err, "request to %s failed", url)
	}

	if resp.StatusCode != http.StatusOK {
		utils.Close(resp.Body)
		return nil, errs.New(errs.TransportFailure, "non-200 response from %s: %d", url, resp.StatusCode)
	}

	return resp, nil
}
