package social

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/limelightcms/limelight/internal/config"
	"github.com/limelightcms/limelight/internal/module"
	"github.com/limelightcms/limelight/internal/server"
)

// Compile-time interface check.
var _ module.Module = (*Social)(nil)

// cacheTTL is how long fetched posts are served before refetching.
const cacheTTL = 5 * time.Minute

// Social is the social feed module. It proxies the upstream feed with a
// short-lived cache so the public site never hammers the external API.
type Social struct {
	logger *zap.Logger
	client FeedClient

	mu        sync.Mutex
	cached    []Post
	fetchedAt time.Time
}

// New creates the social module. A nil client is replaced during Init from
// configuration; tests inject fakes here.
func New(client FeedClient) *Social {
	return &Social{client: client}
}

func (s *Social) Name() string    { return "social" }
func (s *Social) Version() string { return "1.0.0" }

func (s *Social) Init(cfg *config.Config, logger *zap.Logger) error {
	s.logger = logger
	if s.client == nil {
		s.client = NewHTTPFeedClient(
			cfg.GetString("modules.social.api_url"),
			cfg.GetString("modules.social.api_token"),
		)
	}
	s.logger.Info("social module initialized")
	return nil
}

func (s *Social) Start(ctx context.Context) error { return nil }
func (s *Social) Stop() error                     { return nil }

func (s *Social) Routes() []module.Route {
	return []module.Route{
		{Method: "GET", Path: "/posts", Handler: s.handlePosts},
	}
}

func (s *Social) handlePosts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			server.BadRequest(w, "limit must be a positive integer", r.URL.Path)
			return
		}
		limit = n
	}

	posts, err := s.recentPosts(r.Context(), limit)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			server.NotConfigured(w,
				"set modules.social.api_url and modules.social.api_token to enable the feed",
				r.URL.Path)
			return
		}
		s.logger.Error("fetch social feed", zap.Error(err))
		server.InternalError(w, "failed to fetch feed", r.URL.Path)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if posts == nil {
		posts = []Post{}
	}
	_ = json.NewEncoder(w).Encode(posts)
}

func (s *Social) recentPosts(ctx context.Context, limit int) ([]Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Since(s.fetchedAt) < cacheTTL && s.cached != nil {
		return s.clip(s.cached, limit), nil
	}

	posts, err := s.client.RecentPosts(ctx, maxPosts)
	if err != nil {
		// Serve stale posts through transient upstream failures.
		if s.cached != nil && !errors.Is(err, ErrNotConfigured) {
			s.logger.Warn("serving stale social feed", zap.Error(err))
			return s.clip(s.cached, limit), nil
		}
		return nil, err
	}

	s.cached = posts
	s.fetchedAt = time.Now()
	return s.clip(posts, limit), nil
}

func (s *Social) clip(posts []Post, limit int) []Post {
	if limit > 0 && len(posts) > limit {
		return posts[:limit]
	}
	return posts
}
