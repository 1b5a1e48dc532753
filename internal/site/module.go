package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/limelightcms/limelight/internal/admin"
	"github.com/limelightcms/limelight/internal/config"
	"github.com/limelightcms/limelight/internal/content"
	"github.com/limelightcms/limelight/internal/module"
	"github.com/limelightcms/limelight/internal/server"
)

// Compile-time interface check.
var _ module.Module = (*Site)(nil)

// homeNewsCount and homeOverviewCount bound the teaser sections on the
// home page.
const (
	homeNewsCount     = 3
	homeOverviewCount = 4
)

// ContentSource yields the content repositories. The admin module
// implements it; resolving the bundle during Init lets the site module be
// constructed before admin's repositories exist.
type ContentSource interface {
	Repositories() admin.Repositories
}

// Site is the public website module. It renders HTML pages at the server
// root and mirrors the same content as read-only JSON under its API prefix.
type Site struct {
	logger   *zap.Logger
	source   ContentSource
	repos    admin.Repositories
	renderer *Renderer
}

// New creates the site module reading from the admin module's repositories.
func New(source ContentSource) *Site {
	return &Site{source: source}
}

func (s *Site) Name() string    { return "site" }
func (s *Site) Version() string { return "1.0.0" }

func (s *Site) Init(cfg *config.Config, logger *zap.Logger) error {
	s.logger = logger
	s.repos = s.source.Repositories()

	r, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("init site renderer: %w", err)
	}
	s.renderer = r

	s.logger.Info("site module initialized")
	return nil
}

func (s *Site) Start(ctx context.Context) error { return nil }
func (s *Site) Stop() error                     { return nil }

func (s *Site) Routes() []module.Route {
	return []module.Route{
		// Public pages live at the server root.
		{Method: "GET", Path: "!/{$}", Handler: s.handleHome},
		{Method: "GET", Path: "!/about", Handler: s.handleAbout},
		{Method: "GET", Path: "!/news", Handler: s.handleNews},
		{Method: "GET", Path: "!/news/{id}", Handler: s.handleNewsPost},
		{Method: "GET", Path: "!/gallery", Handler: s.handleGallery},
		{Method: "GET", Path: "!/videos", Handler: s.handleVideos},
		{Method: "GET", Path: "!/certificates", Handler: s.handleCertificates},
		{Method: "GET", Path: "!/services", Handler: s.handleServices},
		{Method: "GET", Path: "!/overview", Handler: s.handleOverview},

		// Read-only JSON mirror.
		{Method: "GET", Path: "/news", Handler: s.handleNewsJSON},
		{Method: "GET", Path: "/banners", Handler: s.handleBannersJSON},
	}
}

func (s *Site) render(w http.ResponseWriter, r *http.Request, page string, vm any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Render(w, page, vm); err != nil {
		s.logger.Error("render page", zap.String("page", page), zap.Error(err))
	}
}

func (s *Site) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vm := homeView{
		SiteTitle:    s.siteTitle(ctx),
		Tagline:      s.settingValue(ctx, content.SettingSiteTagline),
		ContactEmail: s.settingValue(ctx, content.SettingContactEmail),
	}

	banners, err := s.repos.Banners.ListActive(ctx)
	if err != nil {
		s.logger.Error("load banners", zap.Error(err))
	}
	for _, b := range banners {
		vm.Banners = append(vm.Banners, bannerView{
			Title: b.Title, Subtitle: b.Subtitle, ImageURL: b.ImageURL, LinkURL: b.LinkURL,
		})
	}

	result, err := s.repos.News.List(ctx, content.ListOptions{Limit: homeNewsCount})
	if err != nil {
		s.logger.Error("load news teasers", zap.Error(err))
	}
	for _, p := range result.Items {
		vm.News = append(vm.News, newsTeaser{
			ID:        p.ID,
			Title:     p.Title,
			Published: p.PublishedAt.Format("2 January 2006"),
			Excerpt:   excerpt(p.Body),
		})
	}

	items, err := s.repos.Overview.List(ctx)
	if err != nil {
		s.logger.Error("load overview highlights", zap.Error(err))
	}
	if len(items) > homeOverviewCount {
		items = items[:homeOverviewCount]
	}
	vm.Overview = items

	s.render(w, r, "home", vm)
}

func (s *Site) handleAbout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sections, err := s.repos.About.List(ctx)
	if err != nil {
		s.logger.Error("load about sections", zap.Error(err))
	}
	s.render(w, r, "about", aboutView{SiteTitle: s.siteTitle(ctx), Sections: sections})
}

func (s *Site) handleNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := s.repos.News.List(ctx, content.ListOptions{Limit: 50})
	if err != nil {
		s.logger.Error("load news", zap.Error(err))
	}

	vm := newsPageView{SiteTitle: s.siteTitle(ctx)}
	for _, p := range result.Items {
		vm.Posts = append(vm.Posts, newsPostView{
			ID:        p.ID,
			Title:     p.Title,
			Published: p.PublishedAt.Format("2 January 2006"),
			ImageURL:  p.ImageURL,
			Body:      p.Body,
		})
	}
	s.render(w, r, "news", vm)
}

func (s *Site) handleNewsPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	post, err := s.repos.News.Get(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.Error("load news post", zap.Error(err))
		server.InternalError(w, "failed to load post", r.URL.Path)
		return
	}

	vm := newsDetailView{
		SiteTitle: s.siteTitle(ctx),
		Post: newsPostView{
			ID:        post.ID,
			Title:     post.Title,
			Published: post.PublishedAt.Format("2 January 2006"),
			ImageURL:  post.ImageURL,
			Body:      post.Body,
		},
	}
	s.render(w, r, "news_post", vm)
}

func (s *Site) handleGallery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	images, err := s.repos.Gallery.List(ctx)
	if err != nil {
		s.logger.Error("load gallery", zap.Error(err))
	}
	s.render(w, r, "gallery", galleryView{SiteTitle: s.siteTitle(ctx), Images: images})
}

func (s *Site) handleVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videos, err := s.repos.Videos.List(ctx)
	if err != nil {
		s.logger.Error("load videos", zap.Error(err))
	}
	s.render(w, r, "videos", videosView{SiteTitle: s.siteTitle(ctx), Videos: videos})
}

func (s *Site) handleCertificates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := s.repos.Certificates.List(ctx, content.ListOptions{Limit: 100})
	if err != nil {
		s.logger.Error("load certificates", zap.Error(err))
	}

	vm := certificatesView{SiteTitle: s.siteTitle(ctx)}
	for _, c := range result.Items {
		vm.Certificates = append(vm.Certificates, certificateView{
			Title:    c.Title,
			ImageURL: c.ImageURL,
			IssuedBy: c.IssuedBy,
			Issued:   c.IssuedAt.Format("January 2006"),
		})
	}
	s.render(w, r, "certificates", vm)
}

func (s *Site) handleServices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	services, err := s.repos.Services.List(ctx)
	if err != nil {
		s.logger.Error("load services", zap.Error(err))
	}
	s.render(w, r, "services", servicesView{SiteTitle: s.siteTitle(ctx), Services: services})
}

func (s *Site) handleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	items, err := s.repos.Overview.List(ctx)
	if err != nil {
		s.logger.Error("load overview", zap.Error(err))
	}
	s.render(w, r, "overview", overviewView{SiteTitle: s.siteTitle(ctx), Items: items})
}

func (s *Site) handleNewsJSON(w http.ResponseWriter, r *http.Request) {
	result, err := s.repos.News.List(r.Context(), content.ListOptions{Limit: 50})
	if err != nil {
		s.logger.Error("load news", zap.Error(err))
		server.InternalError(w, "failed to load news", r.URL.Path)
		return
	}
	if result.Items == nil {
		result.Items = []content.NewsPost{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

func (s *Site) handleBannersJSON(w http.ResponseWriter, r *http.Request) {
	banners, err := s.repos.Banners.ListActive(r.Context())
	if err != nil {
		s.logger.Error("load banners", zap.Error(err))
		server.InternalError(w, "failed to load banners", r.URL.Path)
		return
	}
	if banners == nil {
		banners = []content.Banner{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(banners)
}
