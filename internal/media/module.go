package media

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/limelightcms/limelight/internal/auth"
	"github.com/limelightcms/limelight/internal/config"
	"github.com/limelightcms/limelight/internal/module"
	"github.com/limelightcms/limelight/internal/server"
)

// Compile-time interface checks.
var (
	_ module.Module         = (*Media)(nil)
	_ module.EventPublisher = (*Media)(nil)
)

// maxUploadBytes caps multipart uploads at 20 MiB.
const maxUploadBytes = 20 << 20

// Media is the upload module. It owns the blob store, serves stored files
// under /media/, and exposes an authenticated upload endpoint.
type Media struct {
	logger   *zap.Logger
	bus      module.EventBus
	store    *DiskStore
	sessions auth.SessionProvider
}

// New creates the media module. The session provider guards uploads.
func New(sessions auth.SessionProvider) *Media {
	return &Media{sessions: sessions}
}

func (m *Media) Name() string    { return "media" }
func (m *Media) Version() string { return "1.0.0" }

// SetBus wires the event bus before Init.
func (m *Media) SetBus(bus module.EventBus) { m.bus = bus }

// Store exposes the blob store for the backup module.
func (m *Media) Store() *DiskStore { return m.store }

func (m *Media) Init(cfg *config.Config, logger *zap.Logger) error {
	m.logger = logger

	dir := cfg.GetString("modules.media.dir")
	if dir == "" {
		dir = "data/media"
	}

	store, err := NewDiskStore(dir, "/media", logger)
	if err != nil {
		return fmt.Errorf("init media store: %w", err)
	}
	m.store = store

	m.logger.Info("media module initialized", zap.String("dir", dir))
	return nil
}

func (m *Media) Start(ctx context.Context) error { return nil }
func (m *Media) Stop() error                     { return nil }

func (m *Media) Routes() []module.Route {
	fileServer := http.StripPrefix("/media/", http.FileServer(http.Dir(m.store.Root())))
	return []module.Route{
		// Leading "!" mounts the path at the server root instead of the
		// module's API prefix.
		{Method: "GET", Path: "!/media/", Handler: fileServer.ServeHTTP},
		{Method: "POST", Path: "/upload", Handler: auth.RequireSession(m.sessions, m.handleUpload)},
		{Method: "DELETE", Path: "/{name...}", Handler: auth.RequireSession(m.sessions, m.handleDelete)},
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// handleUpload accepts a multipart form with a "file" field and an
// optional "path" field controlling where the file is stored. Re-uploading
// to the same path overwrites the previous file.
func (m *Media) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		server.BadRequest(w, "invalid multipart form or file too large", r.URL.Path)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		server.BadRequest(w, "missing file field", r.URL.Path)
		return
	}
	defer file.Close()

	name := r.FormValue("path")
	if name == "" {
		name = path.Join("uploads", path.Base(header.Filename))
	}

	url, err := m.store.Put(r.Context(), name, file)
	if err != nil {
		if err == ErrInvalidPath {
			server.BadRequest(w, "invalid destination path", r.URL.Path)
			return
		}
		m.logger.Error("store upload", zap.Error(err))
		server.InternalError(w, "failed to store file", r.URL.Path)
		return
	}

	if m.bus != nil {
		m.bus.PublishAsync(r.Context(), module.Event{
			Topic:     "media.uploaded",
			Source:    m.Name(),
			Timestamp: time.Now().UTC(),
			Payload:   map[string]string{"url": url},
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(uploadResponse{URL: url})
}

func (m *Media) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := m.store.Delete(r.Context(), name); err != nil {
		if err == ErrInvalidPath {
			server.BadRequest(w, "invalid media path", r.URL.Path)
			return
		}
		m.logger.Error("delete media", zap.Error(err))
		server.InternalError(w, "failed to delete file", r.URL.Path)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
