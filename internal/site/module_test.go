package site_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/limelightcms/limelight/internal/admin"
	"github.com/limelightcms/limelight/internal/auth"
	"github.com/limelightcms/limelight/internal/config"
	"github.com/limelightcms/limelight/internal/content"
	"github.com/limelightcms/limelight/internal/site"
	"github.com/limelightcms/limelight/internal/testutil"
)

func newSiteFixture(t *testing.T) (*site.Site, admin.Repositories) {
	t.Helper()

	sessions := auth.NewJWTSessionProvider("test-secret", time.Hour)
	adm := admin.New(testutil.NewStore(t), sessions)
	if err := adm.Init(config.New(viper.New()), testutil.Logger()); err != nil {
		t.Fatalf("admin Init: %v", err)
	}
	repos := adm.Repositories()

	s := site.New(repos)
	if err := s.Init(config.New(viper.New()), testutil.Logger()); err != nil {
		t.Fatalf("site Init: %v", err)
	}
	return s, repos
}

func sitePage(t *testing.T, s *site.Site, path string) *httptest.ResponseRecorder {
	t.Helper()
	for _, r := range s.Routes() {
		routePath := strings.TrimPrefix(r.Path, "!")
		if routePath == "/{$}" {
			routePath = "/"
		}
		if r.Method == "GET" && routePath == path {
			rec := httptest.NewRecorder()
			r.Handler(rec, httptest.NewRequest("GET", path, nil))
			return rec
		}
	}
	t.Fatalf("route GET %s not found", path)
	return nil
}

func TestSite_HomeRendersBannersAndTeasers(t *testing.T) {
	s, repos := newSiteFixture(t)
	ctx := context.Background()

	if err := repos.Settings.Set(ctx, content.SettingSiteTitle, "Golden Voice"); err != nil {
		t.Fatalf("Set title: %v", err)
	}
	banner := content.Banner{Title: "On Tour 2026", ImageURL: "/media/banners/tour.jpg", Active: true}
	if err := repos.Banners.Create(ctx, &banner); err != nil {
		t.Fatalf("Create banner: %v", err)
	}
	hidden := content.Banner{Title: "Hidden Banner", ImageURL: "/media/banners/x.jpg", Active: false}
	if err := repos.Banners.Create(ctx, &hidden); err != nil {
		t.Fatalf("Create hidden banner: %v", err)
	}
	post := content.NewsPost{Title: "New Single", Body: "Out now on all platforms."}
	if err := repos.News.Create(ctx, &post); err != nil {
		t.Fatalf("Create post: %v", err)
	}

	rec := sitePage(t, s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Golden Voice", "On Tour 2026", "New Single"} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}
	if strings.Contains(body, "Hidden Banner") {
		t.Error("inactive banner rendered on home page")
	}
}

func TestSite_HomeEscapesContent(t *testing.T) {
	s, repos := newSiteFixture(t)
	ctx := context.Background()

	post := content.NewsPost{Title: "<script>alert(1)</script>", Body: "x"}
	if err := repos.News.Create(ctx, &post); err != nil {
		t.Fatalf("Create post: %v", err)
	}

	body := sitePage(t, s, "/").Body.String()
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("unescaped script tag in rendered page")
	}
}

func TestSite_AboutRendersSections(t *testing.T) {
	s, repos := newSiteFixture(t)
	ctx := context.Background()

	sec := content.AboutSection{Heading: "Early Years", Body: "Small town beginnings."}
	if err := repos.About.Create(ctx, &sec); err != nil {
		t.Fatalf("Create section: %v", err)
	}

	rec := sitePage(t, s, "/about")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Early Years") {
		t.Error("about page missing section heading")
	}
}

func TestSite_PagesRenderEmpty(t *testing.T) {
	s, _ := newSiteFixture(t)

	for _, path := range []string{"/", "/about", "/news", "/gallery", "/videos", "/certificates", "/services", "/overview"} {
		rec := sitePage(t, s, path)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200 on empty database", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("GET %s Content-Type = %q, want text/html", path, ct)
		}
	}
}

func TestSite_NewsDetail(t *testing.T) {
	s, repos := newSiteFixture(t)
	ctx := context.Background()

	post := content.NewsPost{Title: "Tour Diary", Body: "Day one on the road."}
	if err := repos.News.Create(ctx, &post); err != nil {
		t.Fatalf("Create post: %v", err)
	}

	var handler http.HandlerFunc
	for _, r := range s.Routes() {
		if r.Method == "GET" && r.Path == "!/news/{id}" {
			handler = r.Handler
		}
	}
	if handler == nil {
		t.Fatal("route GET !/news/{id} not found")
	}

	req := httptest.NewRequest("GET", "/news/"+post.ID, nil)
	req.SetPathValue("id", post.ID)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Tour Diary") {
		t.Error("detail page missing post title")
	}

	req = httptest.NewRequest("GET", "/news/nope", nil)
	req.SetPathValue("id", "nope")
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing post status = %d, want 404", rec.Code)
	}
}

func TestSite_NewsJSON(t *testing.T) {
	s, repos := newSiteFixture(t)
	ctx := context.Background()

	post := content.NewsPost{Title: "API Post", Body: "body"}
	if err := repos.News.Create(ctx, &post); err != nil {
		t.Fatalf("Create post: %v", err)
	}

	var handler http.HandlerFunc
	for _, r := range s.Routes() {
		if r.Method == "GET" && r.Path == "/news" {
			handler = r.Handler
		}
	}
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/api/v1/site/news", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if !strings.Contains(rec.Body.String(), "API Post") {
		t.Error("JSON response missing post")
	}
}
