// Package admin exposes the back-office API: browse-backed listings with
// search, sort, and pagination for every content resource, plus create,
// update, and two-step delete endpoints. All routes require a session.
package admin

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/limelightcms/limelight/internal/auth"
	"github.com/limelightcms/limelight/internal/config"
	"github.com/limelightcms/limelight/internal/content"
	"github.com/limelightcms/limelight/internal/module"
	"github.com/limelightcms/limelight/internal/store"
)

// Compile-time interface checks.
var (
	_ module.Module         = (*Admin)(nil)
	_ module.EventPublisher = (*Admin)(nil)
)

// Admin is the back-office module.
type Admin struct {
	store    *store.Store
	logger   *zap.Logger
	bus      module.EventBus
	sessions auth.SessionProvider

	news         content.NewsRepository
	certificates content.CertificateRepository
	gallery      content.GalleryRepository
	videos       content.VideoRepository
	banners      content.BannerRepository
	about        content.AboutRepository
	overview     content.OverviewRepository
	services     content.ServiceRepository
	settings     content.SettingsRepository
}

// New creates the admin module. The session provider guards every route.
func New(st *store.Store, sessions auth.SessionProvider) *Admin {
	return &Admin{store: st, sessions: sessions}
}

func (a *Admin) Name() string    { return "admin" }
func (a *Admin) Version() string { return "1.0.0" }

// SetBus wires the event bus before Init.
func (a *Admin) SetBus(bus module.EventBus) { a.bus = bus }

// Repositories exposes the content repositories for the site module, which
// reads the same data without its own migration pass.
func (a *Admin) Repositories() Repositories {
	return Repositories{
		News:         a.news,
		Certificates: a.certificates,
		Gallery:      a.gallery,
		Videos:       a.videos,
		Banners:      a.banners,
		About:        a.about,
		Overview:     a.overview,
		Services:     a.services,
		Settings:     a.settings,
	}
}

// Repositories returns itself, so a bundle value satisfies the same
// source interface as the admin module.
func (r Repositories) Repositories() Repositories { return r }

// Repositories bundles every content repository the admin module owns.
type Repositories struct {
	News         content.NewsRepository
	Certificates content.CertificateRepository
	Gallery      content.GalleryRepository
	Videos       content.VideoRepository
	Banners      content.BannerRepository
	About        content.AboutRepository
	Overview     content.OverviewRepository
	Services     content.ServiceRepository
	Settings     content.SettingsRepository
}

func (a *Admin) Init(cfg *config.Config, logger *zap.Logger) error {
	a.logger = logger
	ctx := context.Background()

	var err error
	if a.news, err = content.NewSQLiteNewsRepository(ctx, a.store); err != nil {
		return fmt.Errorf("init news repository: %w", err)
	}
	if a.certificates, err = content.NewSQLiteCertificateRepository(ctx, a.store); err != nil {
		return fmt.Errorf("init certificate repository: %w", err)
	}
	if a.gallery, err = content.NewSQLiteGalleryRepository(ctx, a.store); err != nil {
		return fmt.Errorf("init gallery repository: %w", err)
	}
	if a.videos, err = content.NewSQLiteVideoRepository(ctx, a.store); err != nil {
		return fmt.Errorf("init video repository: %w", err)
	}
	if a.banners, err = content.NewSQLiteBannerRepository(ctx, a.store); err != nil {
		return fmt.Errorf("init banner repository: %w", err)
	}
	if a.about, err = content.NewSQLiteAboutRepository(ctx, a.store); err != nil {
		return fmt.Errorf("init about repository: %w", err)
	}
	if a.overview, err = content.NewSQLiteOverviewRepository(ctx, a.store); err != nil {
		return fmt.Errorf("init overview repository: %w", err)
	}
	if a.services, err = content.NewSQLiteServiceRepository(ctx, a.store); err != nil {
		return fmt.Errorf("init service repository: %w", err)
	}
	if a.settings, err = content.NewSQLiteSettingsRepository(ctx, a.store); err != nil {
		return fmt.Errorf("init settings repository: %w", err)
	}

	a.logger.Info("admin module initialized")
	return nil
}

func (a *Admin) Start(ctx context.Context) error { return nil }
func (a *Admin) Stop() error                     { return nil }

func (a *Admin) Routes() []module.Route {
	guard := func(h func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
		return auth.RequireSession(a.sessions, h)
	}
	return []module.Route{
		{Method: "GET", Path: "/news", Handler: guard(a.handleNewsList)},
		{Method: "POST", Path: "/news", Handler: guard(a.handleNewsCreate)},
		{Method: "PUT", Path: "/news/{id}", Handler: guard(a.handleNewsUpdate)},
		{Method: "DELETE", Path: "/news/{id}", Handler: guard(a.handleNewsDelete)},

		{Method: "GET", Path: "/certificates", Handler: guard(a.handleCertificateList)},
		{Method: "POST", Path: "/certificates", Handler: guard(a.handleCertificateCreate)},
		{Method: "PUT", Path: "/certificates/{id}", Handler: guard(a.handleCertificateUpdate)},
		{Method: "DELETE", Path: "/certificates/{id}", Handler: guard(a.handleCertificateDelete)},

		{Method: "GET", Path: "/gallery", Handler: guard(a.handleGalleryList)},
		{Method: "POST", Path: "/gallery", Handler: guard(a.handleGalleryCreate)},
		{Method: "PUT", Path: "/gallery/{id}", Handler: guard(a.handleGalleryUpdate)},
		{Method: "DELETE", Path: "/gallery/{id}", Handler: guard(a.handleGalleryDelete)},

		{Method: "GET", Path: "/videos", Handler: guard(a.handleVideoList)},
		{Method: "POST", Path: "/videos", Handler: guard(a.handleVideoCreate)},
		{Method: "PUT", Path: "/videos/{id}", Handler: guard(a.handleVideoUpdate)},
		{Method: "DELETE", Path: "/videos/{id}", Handler: guard(a.handleVideoDelete)},

		{Method: "GET", Path: "/banners", Handler: guard(a.handleBannerList)},
		{Method: "POST", Path: "/banners", Handler: guard(a.handleBannerCreate)},
		{Method: "PUT", Path: "/banners/{id}", Handler: guard(a.handleBannerUpdate)},
		{Method: "DELETE", Path: "/banners/{id}", Handler: guard(a.handleBannerDelete)},

		{Method: "GET", Path: "/about", Handler: guard(a.handleAboutList)},
		{Method: "POST", Path: "/about", Handler: guard(a.handleAboutCreate)},
		{Method: "PUT", Path: "/about/{id}", Handler: guard(a.handleAboutUpdate)},
		{Method: "DELETE", Path: "/about/{id}", Handler: guard(a.handleAboutDelete)},

		{Method: "GET", Path: "/overview", Handler: guard(a.handleOverviewList)},
		{Method: "POST", Path: "/overview", Handler: guard(a.handleOverviewCreate)},
		{Method: "PUT", Path: "/overview/{id}", Handler: guard(a.handleOverviewUpdate)},
		{Method: "DELETE", Path: "/overview/{id}", Handler: guard(a.handleOverviewDelete)},

		{Method: "GET", Path: "/services", Handler: guard(a.handleServiceList)},
		{Method: "POST", Path: "/services", Handler: guard(a.handleServiceCreate)},
		{Method: "PUT", Path: "/services/{id}", Handler: guard(a.handleServiceUpdate)},
		{Method: "DELETE", Path: "/services/{id}", Handler: guard(a.handleServiceDelete)},

		{Method: "GET", Path: "/settings", Handler: guard(a.handleSettingsList)},
		{Method: "PUT", Path: "/settings/{key}", Handler: guard(a.handleSettingsSet)},
		{Method: "DELETE", Path: "/settings/{key}", Handler: guard(a.handleSettingsDelete)},
	}
}
