package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/fgrehm/hatch/internal/config"
)

// Router sends a request on behalf of a connection, typically through
// middleware before it reaches the transport.
type Router func(ctx context.Context, req *Request) (*Response, error)

// Connection is an open session with one network. Use it through a pointer.
type Connection struct {
	ID          uint64
	NetworkName string
	Network     config.Network
	Transport   Transport

	// Router, when set, is used by Send instead of the transport.
	Router Router

	nextID atomic.Uint64
}

// Send delivers req through the router, or straight to the transport when
// there is none.
func (c *Connection) Send(ctx context.Context, req *Request) (*Response, error) {
	if c.Router != nil {
		return c.Router(ctx, req)
	}
	return c.Transport.Send(ctx, req)
}

// Request calls method with params and returns the raw result. JSON-RPC
// error objects are returned as *Error.
func (c *Connection) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}
	req := &Request{
		JSONRPC: Version,
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}

	resp, err := c.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%s: empty response", method)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Result, nil
}
