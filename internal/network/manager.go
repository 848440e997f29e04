// Package network opens JSON-RPC connections to the configured networks.
// Opening, sending on and closing a connection all run through the network
// hook category.
package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/fgrehm/hatch/internal/config"
	"github.com/fgrehm/hatch/internal/configvar"
	"github.com/fgrehm/hatch/internal/hook"
	"github.com/fgrehm/hatch/internal/hook/catalog"
	"github.com/fgrehm/hatch/internal/rpc"
)

// ErrUnknownNetwork is returned when connecting to a network that is not in
// the config.
var ErrUnknownNetwork = errors.New("unknown network")

// Manager tracks the connections of one environment.
type Manager struct {
	hooks          *hook.Manager
	config         *config.Config
	defaultNetwork string
	logger         *slog.Logger

	nextID atomic.Uint64

	mu   sync.Mutex
	open map[uint64]*rpc.Connection
}

// NewManager creates a Manager. defaultNetwork overrides the config's
// default network when non-empty.
func NewManager(hooks *hook.Manager, cfg *config.Config, defaultNetwork string, logger *slog.Logger) *Manager {
	if defaultNetwork == "" {
		defaultNetwork = cfg.DefaultNetwork
	}
	return &Manager{
		hooks:          hooks,
		config:         cfg,
		defaultNetwork: defaultNetwork,
		logger:         logger,
		open:           make(map[uint64]*rpc.Connection),
	}
}

// DefaultNetwork returns the network used when Connect is given no name.
func (m *Manager) DefaultNetwork() string {
	return m.defaultNetwork
}

// Connect opens a connection to the named network, or to the default
// network when name is empty.
func (m *Manager) Connect(ctx context.Context, name string) (*rpc.Connection, error) {
	if name == "" {
		name = m.defaultNetwork
	}
	n, ok := m.config.Networks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}

	m.logger.Debug("opening connection", "network", name, "type", n.Type)
	args := catalog.ConnectionArgs{NetworkName: name, Network: n}
	conn, err := hook.RunChain(ctx, m.hooks, catalog.NewConnection, args, m.newConnection)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", name, err)
	}
	if conn == nil {
		return nil, fmt.Errorf("connecting to %s: no connection returned", name)
	}
	if conn.Router == nil {
		conn.Router = m.router(conn)
	}

	m.mu.Lock()
	m.open[conn.ID] = conn
	m.mu.Unlock()
	return conn, nil
}

// Close closes conn through the closeConnection chain.
func (m *Manager) Close(ctx context.Context, conn *rpc.Connection) error {
	_, err := hook.RunChain(ctx, m.hooks, catalog.CloseConnection, conn, closeTransport)

	m.mu.Lock()
	delete(m.open, conn.ID)
	m.mu.Unlock()

	if err != nil {
		return fmt.Errorf("closing connection to %s: %w", conn.NetworkName, err)
	}
	m.logger.Debug("closed connection", "network", conn.NetworkName, "id", conn.ID)
	return nil
}

// CloseAll closes every open connection, oldest first.
func (m *Manager) CloseAll(ctx context.Context) error {
	m.mu.Lock()
	conns := make([]*rpc.Connection, 0, len(m.open))
	for _, c := range m.open {
		conns = append(conns, c)
	}
	m.mu.Unlock()
	sort.Slice(conns, func(i, j int) bool { return conns[i].ID < conns[j].ID })

	var errs []error
	for _, c := range conns {
		if err := m.Close(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open returns the number of open connections.
func (m *Manager) Open() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.open)
}

// newConnection is the default newConnection implementation.
func (m *Manager) newConnection(ctx context.Context, args catalog.ConnectionArgs) (*rpc.Connection, error) {
	if args.Network.Type != config.NetworkTypeHTTP {
		return nil, fmt.Errorf("unsupported network type %q", args.Network.Type)
	}
	url, err := configvar.Resolve(ctx, m.hooks, args.Network.URL)
	if err != nil {
		return nil, err
	}

	conn := &rpc.Connection{
		ID:          m.nextID.Add(1),
		NetworkName: args.NetworkName,
		Network:     args.Network,
		Transport:   rpc.NewHTTPTransport(url, args.Network.Timeout),
	}
	conn.Router = m.router(conn)
	return conn, nil
}

// router sends requests of conn through the onRequest chain.
func (m *Manager) router(conn *rpc.Connection) rpc.Router {
	return func(ctx context.Context, req *rpc.Request) (*rpc.Response, error) {
		args := catalog.RequestArgs{Conn: conn, Request: req}
		return hook.RunChain(ctx, m.hooks, catalog.OnRequest, args, sendRequest)
	}
}

func sendRequest(ctx context.Context, args catalog.RequestArgs) (*rpc.Response, error) {
	if args.Conn.Transport == nil {
		return nil, fmt.Errorf("connection to %s has no transport", args.Conn.NetworkName)
	}
	return args.Conn.Transport.Send(ctx, args.Request)
}

func closeTransport(_ context.Context, conn *rpc.Connection) (struct{}, error) {
	if conn.Transport == nil {
		return struct{}{}, nil
	}
	return struct{}{}, conn.Transport.Close()
}
