// Package netx wraps the socket.io server and the JSON response helpers
// shared by the dashboard handlers.
package netx

import (
	"net/http"
	"sync"

	"github.com/zishang520/socket.io/servers/engine/v3"
	"github.com/zishang520/socket.io/servers/socket/v3"
	"github.com/zishang520/socket.io/v3/pkg/types"
)

// EventHandler handles one socket.io event of a connected client
type EventHandler func(client *socket.Socket, data ...any)

// Socket represents a wrapper around the Socket.IO server
type Socket struct {
	sock       *socket.Server
	mu         sync.Mutex
	namespaces map[string]*Namespace
}

// NewSocket configures and creates the Socket.IO server
func NewSocket() *Socket {
	opts := socket.DefaultServerOptions()
	opts.SetPath("/socket.io")
	opts.SetTransports(types.NewSet(
		engine.Polling,   // HTTP long-polling transport
		engine.WebSocket, // WebSocket transport for real-time communication
	))
	opts.SetMaxHttpBufferSize(1e6)

	return &Socket{
		sock:       socket.NewServer(nil, opts),
		namespaces: make(map[string]*Namespace),
	}
}

// Namespace returns the named namespace, creating it on first use
func (s *Socket) Namespace(name string) *Namespace {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ns, ok := s.namespaces[name]; ok {
		return ns
	}
	ns := &Namespace{
		namespace: s.sock.Of(name, nil),
		events: map[string]EventHandler{
			"disconnect": func(*socket.Socket, ...any) {},
		},
	}
	s.namespaces[name] = ns
	return ns
}

// Handler returns an HTTP handler for the Socket.IO server
func (s *Socket) Handler() http.Handler {
	return s.sock.ServeHandler(nil)
}

// Namespace represents a Socket.IO namespace with custom event handling
type Namespace struct {
	namespace socket.Namespace
	mu        sync.RWMutex
	events    map[string]EventHandler
}

// AddEvent registers a custom event handler for the namespace
func (n *Namespace) AddEvent(event string, f EventHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events[event] = f
}

// Events returns the registered event names
func (n *Namespace) Events() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	names := make([]string, 0, len(n.events))
	for name := range n.events {
		names = append(names, name)
	}
	return names
}

// RegisterEvents activates all the event handlers for new client connections
func (n *Namespace) RegisterEvents() {
	n.namespace.On("connection", func(clients ...any) {
		client, ok := clients[0].(*socket.Socket)
		if !ok {
			return
		}

		n.mu.RLock()
		defer n.mu.RUnlock()
		for event, f := range n.events {
			client.On(event, func(data ...any) { f(client, data...) })
		}
	})
}

// AddMiddleware adds a middleware to the namespace
func (n *Namespace) AddMiddleware(f func(client *socket.Socket, next func(*socket.ExtendedError))) {
	n.namespace.Use(f)
}
