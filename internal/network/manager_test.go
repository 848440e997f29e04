package network

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fgrehm/hatch/internal/config"
	"github.com/fgrehm/hatch/internal/hook"
	"github.com/fgrehm/hatch/internal/hook/catalog"
	"github.com/fgrehm/hatch/internal/rpc"
)

func newNode(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpc.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := rpc.Response{JSONRPC: rpc.Version, ID: req.ID}
		switch req.Method {
		case "eth_chainId":
			resp.Result = json.RawMessage(`"0x7a69"`)
		default:
			resp.Error = &rpc.Error{Code: -32601, Message: "method not found"}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(url config.Var) *config.Config {
	return &config.Config{
		DefaultNetwork: "local",
		Networks: map[string]config.Network{
			"local": {Name: "local", Type: config.NetworkTypeHTTP, URL: url, Timeout: time.Second},
			"ws":    {Name: "ws", Type: "websocket", URL: config.Literal("ws://x")},
		},
	}
}

func newManager(t *testing.T, cfg *config.Config, defaultNetwork string) (*Manager, *hook.Manager) {
	t.Helper()
	hooks, err := hook.NewManager(context.Background(), t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewManager(hooks, cfg, defaultNetwork, logger), hooks
}

func TestConnect_DefaultNetwork(t *testing.T) {
	srv := newNode(t)
	m, _ := newManager(t, testConfig(config.Literal(srv.URL)), "")
	ctx := context.Background()

	conn, err := m.Connect(ctx, "")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if conn.NetworkName != "local" {
		t.Errorf("NetworkName = %q", conn.NetworkName)
	}

	raw, err := conn.Request(ctx, "eth_chainId")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	id, err := rpc.DecodeQuantity(raw)
	if err != nil || id != 31337 {
		t.Errorf("chain id = %d, %v", id, err)
	}

	_, err = conn.Request(ctx, "eth_unknown")
	var rpcErr *rpc.Error
	if !errors.As(err, &rpcErr) || rpcErr.Code != -32601 {
		t.Errorf("expected method not found, got %v", err)
	}

	if m.Open() != 1 {
		t.Errorf("Open() = %d, want 1", m.Open())
	}
	if err := m.CloseAll(ctx); err != nil {
		t.Fatalf("CloseAll: %v", err)
	}
	if m.Open() != 0 {
		t.Errorf("Open() after CloseAll = %d", m.Open())
	}
}

func TestConnect_DefaultOverride(t *testing.T) {
	m, _ := newManager(t, testConfig(config.Literal("http://unused")), "ws")
	if m.DefaultNetwork() != "ws" {
		t.Errorf("DefaultNetwork() = %q", m.DefaultNetwork())
	}
}

func TestConnect_UnknownNetwork(t *testing.T) {
	m, _ := newManager(t, testConfig(config.Literal("http://unused")), "")

	_, err := m.Connect(context.Background(), "mainnet")
	if !errors.Is(err, ErrUnknownNetwork) {
		t.Errorf("expected ErrUnknownNetwork, got %v", err)
	}
}

func TestConnect_UnsupportedType(t *testing.T) {
	m, _ := newManager(t, testConfig(config.Literal("http://unused")), "")

	if _, err := m.Connect(context.Background(), "ws"); err == nil {
		t.Error("expected error for unsupported network type")
	}
}

func TestConnect_ResolvesVariableURL(t *testing.T) {
	srv := newNode(t)
	t.Setenv("HATCH_TEST_NODE_URL", srv.URL)
	m, _ := newManager(t, testConfig(config.Variable("HATCH_TEST_NODE_URL")), "")
	ctx := context.Background()

	conn, err := m.Connect(ctx, "local")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if _, err := conn.Request(ctx, "eth_chainId"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if err := m.Close(ctx, conn); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestConnect_MissingVariable(t *testing.T) {
	m, _ := newManager(t, testConfig(config.Variable("HATCH_TEST_SURELY_UNSET")), "")

	if _, err := m.Connect(context.Background(), "local"); err == nil {
		t.Error("expected error for unset variable")
	}
}

func TestOnRequest_Middleware(t *testing.T) {
	srv := newNode(t)
	m, hooks := newManager(t, testConfig(config.Literal(srv.URL)), "")
	ctx := context.Background()

	var (
		mu      sync.Mutex
		methods []string
	)
	observe := catalog.OnRequest.Chain(func(ctx context.Context, _ *hook.Context, args catalog.RequestArgs, next hook.Next[catalog.RequestArgs, *rpc.Response]) (*rpc.Response, error) {
		mu.Lock()
		methods = append(methods, args.Request.Method)
		mu.Unlock()
		return next(ctx, args)
	})
	intercept := catalog.OnRequest.Chain(func(ctx context.Context, _ *hook.Context, args catalog.RequestArgs, next hook.Next[catalog.RequestArgs, *rpc.Response]) (*rpc.Response, error) {
		if args.Request.Method == "hatch_ping" {
			return &rpc.Response{JSONRPC: rpc.Version, ID: args.Request.ID, Result: json.RawMessage(`"pong"`)}, nil
		}
		return next(ctx, args)
	})
	set := catalog.OnRequest.Set(observe)
	if err := hooks.RegisterHandlers(ctx, catalog.Network, set); err != nil {
		t.Fatal(err)
	}
	if err := hooks.RegisterHandlers(ctx, catalog.Network, catalog.OnRequest.Set(intercept)); err != nil {
		t.Fatal(err)
	}

	conn, err := m.Connect(ctx, "")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer func() { _ = m.Close(ctx, conn) }()

	raw, err := conn.Request(ctx, "hatch_ping")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if string(raw) != `"pong"` {
		t.Errorf("result = %s", raw)
	}
	if _, err := conn.Request(ctx, "eth_chainId"); err != nil {
		t.Fatalf("Request: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	// The intercepting handler is newest, so the observer never sees the ping.
	if len(methods) != 1 || methods[0] != "eth_chainId" {
		t.Errorf("observed methods = %v", methods)
	}
}

// fakeTransport answers every request with a fixed result.
type fakeTransport struct {
	closed bool
}

func (f *fakeTransport) Send(_ context.Context, req *rpc.Request) (*rpc.Response, error) {
	return &rpc.Response{JSONRPC: rpc.Version, ID: req.ID, Result: json.RawMessage(`"fake"`)}, nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func TestNewConnection_HandlerProvidesConnection(t *testing.T) {
	m, hooks := newManager(t, testConfig(config.Variable("HATCH_TEST_SURELY_UNSET")), "")
	ctx := context.Background()

	fake := &fakeTransport{}
	provide := catalog.NewConnection.Chain(func(_ context.Context, _ *hook.Context, args catalog.ConnectionArgs, _ hook.Next[catalog.ConnectionArgs, *rpc.Connection]) (*rpc.Connection, error) {
		return &rpc.Connection{ID: 99, NetworkName: args.NetworkName, Network: args.Network, Transport: fake}, nil
	})
	if err := hooks.RegisterHandlers(ctx, catalog.Network, catalog.NewConnection.Set(provide)); err != nil {
		t.Fatal(err)
	}

	var closeSeen *rpc.Connection
	onClose := catalog.CloseConnection.Chain(func(ctx context.Context, _ *hook.Context, conn *rpc.Connection, next hook.Next[*rpc.Connection, struct{}]) (struct{}, error) {
		closeSeen = conn
		return next(ctx, conn)
	})
	if err := hooks.RegisterHandlers(ctx, catalog.Network, catalog.CloseConnection.Set(onClose)); err != nil {
		t.Fatal(err)
	}

	conn, err := m.Connect(ctx, "local")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if conn.Router == nil {
		t.Fatal("Connect should route handler-provided connections through onRequest")
	}
	raw, err := conn.Request(ctx, "anything")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if string(raw) != `"fake"` {
		t.Errorf("result = %s", raw)
	}

	if err := m.Close(ctx, conn); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closeSeen != conn {
		t.Error("closeConnection handler did not see the connection")
	}
	if !fake.closed {
		t.Error("default closeConnection should close the transport")
	}
}
