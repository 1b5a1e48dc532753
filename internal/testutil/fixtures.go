package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/limelightcms/limelight/internal/content"
)

// NewNewsPost returns a NewsPost with sensible defaults, suitable for test
// fixtures. Override individual fields via options.
func NewNewsPost(opts ...func(*content.NewsPost)) content.NewsPost {
	now := time.Now().UTC()
	p := content.NewsPost{
		ID:          uuid.New().String(),
		Title:       "Test Announcement",
		Body:        "Something noteworthy happened.",
		PublishedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithTitle sets the post title.
func WithTitle(title string) func(*content.NewsPost) {
	return func(p *content.NewsPost) { p.Title = title }
}

// WithBody sets the post body.
func WithBody(body string) func(*content.NewsPost) {
	return func(p *content.NewsPost) { p.Body = body }
}

// WithPublishedAt sets the post's publish date.
func WithPublishedAt(t time.Time) func(*content.NewsPost) {
	return func(p *content.NewsPost) { p.PublishedAt = t }
}

// NewBanner returns a Banner fixture with sensible defaults.
func NewBanner(opts ...func(*content.Banner)) content.Banner {
	b := content.Banner{
		ID:        uuid.New().String(),
		Title:     "Test Banner",
		ImageURL:  "/media/banners/test.jpg",
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// WithBannerActive sets the banner's active flag.
func WithBannerActive(active bool) func(*content.Banner) {
	return func(b *content.Banner) { b.Active = active }
}

// WithBannerPosition sets the banner's display position.
func WithBannerPosition(pos int) func(*content.Banner) {
	return func(b *content.Banner) { b.Position = pos }
}
