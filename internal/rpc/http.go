package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxErrorBody bounds how much of a failed HTTP response ends up in errors.
const maxErrorBody = 512

// Transport sends requests to a node.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
	Close() error
}

// HTTPTransport posts requests to a JSON-RPC endpoint.
type HTTPTransport struct {
	URL    string
	Client *http.Client
}

// NewHTTPTransport creates a transport for url. A zero timeout means no
// client-side timeout.
func NewHTTPTransport(url string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

// Send posts req and decodes the response. JSON-RPC error objects are
// returned inside the Response, not as an error.
func (t *HTTPTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := t.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending %s: %w", req.Method, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		if len(data) > maxErrorBody {
			data = data[:maxErrorBody]
		}
		return nil, fmt.Errorf("sending %s: HTTP %d: %s", req.Method, httpResp.StatusCode, bytes.TrimSpace(data))
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	return &resp, nil
}

// Close releases idle connections.
func (t *HTTPTransport) Close() error {
	t.Client.CloseIdleConnections()
	return nil
}
