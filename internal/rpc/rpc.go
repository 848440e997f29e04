// Package rpc implements the JSON-RPC 2.0 types and HTTP transport used to
// talk to Ethereum nodes.
package rpc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Version is the JSON-RPC protocol version sent with every request.
const Version = "2.0"

// Request is a JSON-RPC request.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// Response is a JSON-RPC response. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC error object.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("json-rpc error %d: %s", e.Code, e.Message)
}

// DecodeQuantity parses a hex-encoded quantity such as "0x7a69".
func DecodeQuantity(raw json.RawMessage) (uint64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("decoding quantity: %w", err)
	}
	if !strings.HasPrefix(s, "0x") {
		return 0, fmt.Errorf("quantity %q is missing 0x prefix", s)
	}
	n, err := strconv.ParseUint(s[2:], 16, 64)
	if err != nil {
		return 0, fmt.Errorf("decoding quantity %q: %w", s, err)
	}
	return n, nil
}
