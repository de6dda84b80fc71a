package adapters

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/parcelhq/parcel/internal/domain"
)

// MemNetwork implements domain.Network over a fixed map of URL -> response,
// for testing repository federation, the downloader, and retry behavior
// without a real transport. Its state is guarded by a mutex, so it is safe
// for concurrent use.
type MemNetwork struct {
	mu        sync.Mutex
	responses map[string]memResponse
	gets      int
	heads     int
}

type memResponse struct {
	body   []byte
	status int
	err    error
}

// NewMemNetwork creates an empty in-memory network fake.
func NewMemNetwork() *MemNetwork {
	return &MemNetwork{responses: make(map[string]memResponse)}
}

// SetResponse registers the body and status code returned for url.
func (n *MemNetwork) SetResponse(url string, status int, body []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.responses[url] = memResponse{body: body, status: status}
}

// SetError registers a transport-level error returned for url.
func (n *MemNetwork) SetError(url string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.responses[url] = memResponse{err: err}
}

// GetCount returns how many times Get has been called, for retry tests.
func (n *MemNetwork) GetCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.gets
}

func (n *MemNetwork) Get(ctx context.Context, url string) (domain.ReadCloser, int64, int, error) {
	n.mu.Lock()
	n.gets++
	resp, ok := n.responses[url]
	n.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, 0, 0, err
	}
	if !ok {
		return nil, 0, http.StatusNotFound, domain.ErrNetwork{URL: url, Err: io.ErrUnexpectedEOF}
	}
	if resp.err != nil {
		return nil, 0, 0, domain.ErrNetwork{URL: url, Err: resp.err}
	}

	status := resp.status
	if status == 0 {
		status = http.StatusOK
	}
	return io.NopCloser(bytes.NewReader(resp.body)), int64(len(resp.body)), status, nil
}

func (n *MemNetwork) Head(ctx context.Context, url string) (int, error) {
	n.mu.Lock()
	n.heads++
	resp, ok := n.responses[url]
	n.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !ok {
		return http.StatusNotFound, nil
	}
	if resp.err != nil {
		return 0, domain.ErrNetwork{URL: url, Err: resp.err}
	}
	status := resp.status
	if status == 0 {
		status = http.StatusOK
	}
	return status, nil
}
