package live_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/spf13/viper"

	"github.com/limelightcms/limelight/internal/config"
	"github.com/limelightcms/limelight/internal/event"
	"github.com/limelightcms/limelight/internal/live"
	"github.com/limelightcms/limelight/internal/module"
	"github.com/limelightcms/limelight/internal/testutil"
)

func newLiveFixture(t *testing.T) (*live.Live, *event.Bus, *httptest.Server) {
	t.Helper()

	bus := event.NewBus(testutil.Logger())
	l := live.New()
	l.SetBus(bus)
	if err := l.Init(config.New(viper.New()), testutil.Logger()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = l.Stop() })

	var handler = l.Routes()[0].Handler
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return l, bus, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+srv.URL[len("http"):], nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	return conn
}

func TestLive_BroadcastsContentChanges(t *testing.T) {
	_, bus, srv := newLiveFixture(t)

	conn := dial(t, srv)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Give the server a moment to register the client.
	time.Sleep(50 * time.Millisecond)

	err := bus.Publish(context.Background(), module.Event{
		Topic:     "content.changed",
		Source:    "admin",
		Timestamp: time.Now().UTC(),
		Payload:   map[string]any{"resource": "news", "action": "created"},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var n struct {
		Topic   string         `json:"topic"`
		Payload map[string]any `json:"payload"`
	}
	if err := wsjson.Read(ctx, conn, &n); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n.Topic != "content.changed" {
		t.Errorf("Topic = %q, want content.changed", n.Topic)
	}
	if n.Payload["resource"] != "news" {
		t.Errorf("Payload resource = %v, want news", n.Payload["resource"])
	}
}

func TestLive_IgnoresOtherTopics(t *testing.T) {
	_, bus, srv := newLiveFixture(t)

	conn := dial(t, srv)
	defer conn.Close(websocket.StatusNormalClosure, "")
	time.Sleep(50 * time.Millisecond)

	if err := bus.Publish(context.Background(), module.Event{Topic: "auth.login"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var n any
	if err := wsjson.Read(ctx, conn, &n); err == nil {
		t.Errorf("received frame %v for unrelated topic", n)
	}
}

func TestLive_ClientCountTracksConnections(t *testing.T) {
	l, _, srv := newLiveFixture(t)

	conn := dial(t, srv)
	time.Sleep(50 * time.Millisecond)
	if got := l.ClientCount(); got != 1 {
		t.Errorf("ClientCount = %d, want 1", got)
	}

	conn.Close(websocket.StatusNormalClosure, "")
	deadline := time.Now().Add(2 * time.Second)
	for l.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if got := l.ClientCount(); got != 0 {
		t.Errorf("ClientCount after close = %d, want 0", got)
	}
}
