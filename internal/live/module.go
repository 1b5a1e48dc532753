// Package live pushes content change notifications to connected admin
// clients over websockets, so open back-office tabs refresh their listings
// without polling.
package live

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/limelightcms/limelight/internal/config"
	"github.com/limelightcms/limelight/internal/module"
)

// Compile-time interface checks.
var (
	_ module.Module         = (*Live)(nil)
	_ module.EventPublisher = (*Live)(nil)
)

// writeTimeout bounds a single notification write to one client.
const writeTimeout = 5 * time.Second

// notification is the JSON frame sent to clients.
type notification struct {
	Topic     string    `json:"topic"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// Live is the websocket notification module.
type Live struct {
	logger *zap.Logger
	bus    module.EventBus

	mu      sync.Mutex
	nextID  int
	clients map[int]*websocket.Conn

	unsubscribe func()
}

// New creates the live module.
func New() *Live {
	return &Live{clients: make(map[int]*websocket.Conn)}
}

func (l *Live) Name() string    { return "live" }
func (l *Live) Version() string { return "1.0.0" }

// SetBus wires the event bus before Init.
func (l *Live) SetBus(bus module.EventBus) { l.bus = bus }

func (l *Live) Init(cfg *config.Config, logger *zap.Logger) error {
	l.logger = logger
	l.logger.Info("live module initialized")
	return nil
}

func (l *Live) Start(ctx context.Context) error {
	if l.bus != nil {
		l.unsubscribe = l.bus.Subscribe("content.changed", l.onEvent)
	}
	return nil
}

func (l *Live) Stop() error {
	if l.unsubscribe != nil {
		l.unsubscribe()
	}

	l.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(l.clients))
	for _, c := range l.clients {
		conns = append(conns, c)
	}
	l.clients = make(map[int]*websocket.Conn)
	l.mu.Unlock()

	for _, c := range conns {
		_ = c.Close(websocket.StatusGoingAway, "server shutting down")
	}
	return nil
}

func (l *Live) Routes() []module.Route {
	return []module.Route{
		{Method: "GET", Path: "/ws", Handler: l.handleWS},
	}
}

func (l *Live) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		l.logger.Warn("websocket accept", zap.Error(err))
		return
	}

	id := l.register(conn)
	l.logger.Debug("live client connected", zap.Int("id", id))

	// Clients only listen; CloseRead surfaces disconnects.
	ctx := conn.CloseRead(r.Context())
	<-ctx.Done()

	l.deregister(id)
	_ = conn.Close(websocket.StatusNormalClosure, "")
	l.logger.Debug("live client disconnected", zap.Int("id", id))
}

func (l *Live) register(conn *websocket.Conn) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextID
	l.nextID++
	l.clients[id] = conn
	return id
}

func (l *Live) deregister(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.clients, id)
}

// ClientCount reports the number of connected clients.
func (l *Live) ClientCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *Live) onEvent(ctx context.Context, e module.Event) {
	n := notification{Topic: e.Topic, Timestamp: e.Timestamp, Payload: e.Payload}

	l.mu.Lock()
	conns := make(map[int]*websocket.Conn, len(l.clients))
	for id, c := range l.clients {
		conns[id] = c
	}
	l.mu.Unlock()

	for id, c := range conns {
		wctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := wsjson.Write(wctx, c, n)
		cancel()
		if err != nil {
			l.logger.Debug("drop unresponsive live client", zap.Int("id", id), zap.Error(err))
			l.deregister(id)
			_ = c.Close(websocket.StatusPolicyViolation, "write timeout")
		}
	}
}
