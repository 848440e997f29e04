package chaincheck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/fgrehm/hatch/internal/config"
	"github.com/fgrehm/hatch/internal/hook"
	"github.com/fgrehm/hatch/internal/hook/catalog"
	"github.com/fgrehm/hatch/internal/network"
	"github.com/fgrehm/hatch/internal/plugin/rpclog"
	"github.com/fgrehm/hatch/internal/rpc"
)

func newNode(t *testing.T, chainID string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpc.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(rpc.Response{
			JSONRPC: rpc.Version,
			ID:      req.ID,
			Result:  json.RawMessage(`"` + chainID + `"`),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

type staticSource struct {
	hc *hook.Context
}

func (s staticSource) HookContext() *hook.Context { return s.hc }

func newNetwork(t *testing.T, url string, chainID int64) (*network.Manager, *bytes.Buffer) {
	t.Helper()
	hooks, err := hook.NewManager(context.Background(), t.TempDir(), []*hook.Plugin{Plugin})
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{
		DefaultNetwork: "dev",
		Networks: map[string]config.Network{
			"dev": {Name: "dev", Type: config.NetworkTypeHTTP, URL: config.Literal(url), ChainID: chainID, Timeout: time.Second},
		},
	}
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks.SetContextSource(staticSource{hc: &hook.Context{Config: cfg, Logger: logger, Hooks: hooks}})
	return network.NewManager(hooks, cfg, "", slog.New(slog.NewTextHandler(io.Discard, nil))), buf
}

func TestPlugin_DependsOnRPCLog(t *testing.T) {
	plugins, err := hook.ResolvePlugins(context.Background(), []*hook.Plugin{Plugin})
	if err != nil {
		t.Fatal(err)
	}
	ids := make([]string, len(plugins))
	for i, p := range plugins {
		ids[i] = p.ID
	}
	if !slices.Equal(ids, []string{rpclog.ID, ID}) {
		t.Errorf("load order = %v", ids)
	}
}

func TestValidate(t *testing.T) {
	uc := &config.UserConfig{Networks: map[string]config.NetworkUserConfig{
		"b":  {ChainID: -1},
		"a":  {ChainID: -5},
		"ok": {ChainID: 1},
	}}

	errs, err := validate(context.Background(), uc)
	if err != nil {
		t.Fatal(err)
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0].Path != "networks.a.chainId" || errs[1].Path != "networks.b.chainId" {
		t.Errorf("errors = %v", errs)
	}
}

func TestCheckConnection_Match(t *testing.T) {
	srv := newNode(t, "0x7a69")
	nm, logs := newNetwork(t, srv.URL, 31337)
	ctx := context.Background()

	conn, err := nm.Connect(ctx, "")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer func() { _ = nm.Close(ctx, conn) }()

	// The check request goes through onRequest, where rpc-log sees it.
	if !strings.Contains(logs.String(), "method=eth_chainId") {
		t.Errorf("log = %q", logs.String())
	}
}

func TestCheckConnection_Mismatch(t *testing.T) {
	srv := newNode(t, "0x1")
	nm, _ := newNetwork(t, srv.URL, 31337)

	_, err := nm.Connect(context.Background(), "")
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if mismatch.Want != 31337 || mismatch.Got != 1 {
		t.Errorf("mismatch = %+v", mismatch)
	}
	if nm.Open() != 0 {
		t.Error("failed connection should not be tracked")
	}
}

func TestCheckConnection_NoChainID(t *testing.T) {
	nm, logs := newNetwork(t, "http://127.0.0.1:1", 0)
	ctx := context.Background()

	conn, err := nm.Connect(ctx, "")
	if err != nil {
		t.Fatalf("Connect should not contact the node without a chainId: %v", err)
	}
	_ = nm.Close(ctx, conn)
	if logs.Len() != 0 {
		t.Errorf("no request expected, log = %q", logs.String())
	}
}

func TestValidateUserConfig_ThroughHooks(t *testing.T) {
	hooks, err := hook.NewManager(context.Background(), t.TempDir(), []*hook.Plugin{Plugin})
	if err != nil {
		t.Fatal(err)
	}
	uc := &config.UserConfig{Networks: map[string]config.NetworkUserConfig{"x": {ChainID: -1}}}

	results, err := hook.RunParallel(context.Background(), hooks, catalog.ValidateUserConfig, uc)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || len(results[0]) != 1 {
		t.Errorf("results = %v", results)
	}
}
