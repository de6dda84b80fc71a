package adapters

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/parcelhq/parcel/internal/domain"
)

// HTTPNetwork implements domain.Network using net/http, the transport
// underlying remote repository fetches (§4.8) and archive downloads (§4.2).
type HTTPNetwork struct {
	client *http.Client
}

// NewHTTPNetwork creates an HTTP-backed network adapter. A zero timeout
// means no client-level deadline; callers are expected to bound requests
// via context, matching §5's "no default timeout is imposed by the core".
func NewHTTPNetwork(timeout time.Duration) *HTTPNetwork {
	return &HTTPNetwork{client: &http.Client{Timeout: timeout}}
}

func (n *HTTPNetwork) Get(ctx context.Context, url string) (domain.ReadCloser, int64, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, 0, domain.ErrNetwork{URL: url, Err: err}
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, 0, 0, domain.ErrNetwork{URL: url, Err: err}
	}

	size := resp.ContentLength
	if size < 0 {
		size = -1
	}
	return resp.Body, size, resp.StatusCode, nil
}

func (n *HTTPNetwork) Head(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, domain.ErrNetwork{URL: url, Err: err}
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return 0, domain.ErrNetwork{URL: url, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
