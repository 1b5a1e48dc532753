package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/limelightcms/limelight/internal/config"
	"github.com/limelightcms/limelight/internal/module"
	"github.com/limelightcms/limelight/internal/server"
)

// routesModule is a stub module exposing a fixed route set.
type routesModule struct {
	name   string
	routes []module.Route
}

func (m *routesModule) Name() string                               { return m.name }
func (m *routesModule) Version() string                            { return "0.0.1" }
func (m *routesModule) Init(_ *config.Config, _ *zap.Logger) error { return nil }
func (m *routesModule) Start(context.Context) error                { return nil }
func (m *routesModule) Stop() error                                { return nil }
func (m *routesModule) Routes() []module.Route                     { return m.routes }

func echo(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func newServer(t *testing.T, modules ...module.Module) *server.Server {
	t.Helper()
	reg := module.NewRegistry(zap.NewNop())
	for _, m := range modules {
		if err := reg.Register(m); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}
	return server.New("127.0.0.1:0", reg, zap.NewNop())
}

func TestServer_MountsModuleRoutesUnderAPIPrefix(t *testing.T) {
	srv := newServer(t, &routesModule{
		name:   "demo",
		routes: []module.Route{{Method: "GET", Path: "/items", Handler: echo("items")}},
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/demo/items", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "items" {
		t.Errorf("body = %q, want items", got)
	}
}

func TestServer_BangPathsMountAtRoot(t *testing.T) {
	srv := newServer(t, &routesModule{
		name:   "pages",
		routes: []module.Route{{Method: "GET", Path: "!/hello", Handler: echo("root")}},
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/hello", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/pages/hello", nil))
	if rec.Code == http.StatusOK {
		t.Error("bang route also mounted under API prefix")
	}
}

func TestServer_HealthEndpoint(t *testing.T) {
	srv := newServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal health body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestServer_ModulesEndpoint(t *testing.T) {
	srv := newServer(t, &routesModule{name: "demo"})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/modules", nil))

	var body []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal modules body: %v", err)
	}
	if len(body) != 1 || body[0].Name != "demo" {
		t.Errorf("modules = %+v, want one entry named demo", body)
	}
}

func TestServer_MiddlewareWrapsEverything(t *testing.T) {
	var seen []string
	mw := func(tag string) server.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = append(seen, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	reg := module.NewRegistry(zap.NewNop())
	srv := server.New("127.0.0.1:0", reg, zap.NewNop(), mw("outer"), mw("inner"))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/health", nil))

	if len(seen) != 2 || seen[0] != "outer" || seen[1] != "inner" {
		t.Errorf("middleware order = %v, want [outer inner]", seen)
	}
}
