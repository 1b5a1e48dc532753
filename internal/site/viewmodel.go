package site

import (
	"context"
	"strings"

	"github.com/limelightcms/limelight/internal/content"
)

// excerptLen is the maximum rune length of a news excerpt on the home page.
const excerptLen = 160

// homeView feeds the home page template.
type homeView struct {
	SiteTitle    string
	Tagline      string
	ContactEmail string
	Banners      []bannerView
	News         []newsTeaser
	Overview     []content.OverviewItem
}

type bannerView struct {
	Title    string
	Subtitle string
	ImageURL string
	LinkURL  string
}

type newsTeaser struct {
	ID        string
	Title     string
	Published string
	Excerpt   string
}

type aboutView struct {
	SiteTitle string
	Sections  []content.AboutSection
}

type newsPageView struct {
	SiteTitle string
	Posts     []newsPostView
}

type newsPostView struct {
	ID        string
	Title     string
	Published string
	ImageURL  string
	Body      string
}

type newsDetailView struct {
	SiteTitle string
	Post      newsPostView
}

type galleryView struct {
	SiteTitle string
	Images    []content.GalleryImage
}

type videosView struct {
	SiteTitle string
	Videos    []content.Video
}

type certificatesView struct {
	SiteTitle    string
	Certificates []certificateView
}

type certificateView struct {
	Title    string
	ImageURL string
	IssuedBy string
	Issued   string
}

type servicesView struct {
	SiteTitle string
	Services  []content.Service
}

type overviewView struct {
	SiteTitle string
	Items     []content.OverviewItem
}

// siteTitle reads the configured title, falling back to a neutral default
// so a fresh install still renders.
func (s *Site) siteTitle(ctx context.Context) string {
	if setting, err := s.repos.Settings.Get(ctx, content.SettingSiteTitle); err == nil {
		return setting.Value
	}
	return "Limelight"
}

func (s *Site) settingValue(ctx context.Context, key string) string {
	if setting, err := s.repos.Settings.Get(ctx, key); err == nil {
		return setting.Value
	}
	return ""
}

// excerpt shortens body text for teaser rendering.
func excerpt(body string) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= excerptLen {
		return body
	}
	return strings.TrimSpace(string(runes[:excerptLen])) + "…"
}
