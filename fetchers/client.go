package fetchers

import (
	"net/http"
	"time"
)

type (
	HTTPClient interface {
		Do(req *http.Request) (*http.Response, error)
	}

	// ClientFactory creates a client for a single provider call.
	ClientFactory interface {
		Create(timeout time.Duration) HTTPClient
	}

	DefaultClientFactory struct {
		Transport http.RoundTripper
	}
)

func (f DefaultClientFactory) Create(timeout time.Duration) HTTPClient {
	return &http.Client{
		Transport: f.Transport,
		Timeout:   timeout,
	}
}
