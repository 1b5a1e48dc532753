package admin_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/limelightcms/limelight/internal/admin"
	"github.com/limelightcms/limelight/internal/auth"
	"github.com/limelightcms/limelight/internal/config"
	"github.com/limelightcms/limelight/internal/content"
	"github.com/limelightcms/limelight/internal/testutil"
)

type adminFixture struct {
	mod   *admin.Admin
	bus   *testutil.MockBus
	token string
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	sessions := auth.NewJWTSessionProvider("test-secret", time.Hour)
	token, err := sessions.Issue(&auth.Account{ID: "acct-1", Username: "sasha", Role: "owner"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	mod := admin.New(testutil.NewStore(t), sessions)
	bus := testutil.NewMockBus()
	mod.SetBus(bus)
	if err := mod.Init(config.New(viper.New()), testutil.Logger()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return &adminFixture{mod: mod, bus: bus, token: token}
}

// do invokes the admin route matching method and pattern. pathValues maps
// wildcard names to values for patterns like /news/{id}.
func (f *adminFixture) do(t *testing.T, method, pattern, target string, body any, pathValues map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var handler http.HandlerFunc
	for _, r := range f.mod.Routes() {
		if r.Method == method && r.Path == pattern {
			handler = r.Handler
			break
		}
	}
	if handler == nil {
		t.Fatalf("route %s %s not found", method, pattern)
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer "+f.token)
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}

	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func (f *adminFixture) seedNews(t *testing.T, titles ...string) []content.NewsPost {
	t.Helper()
	var posts []content.NewsPost
	for i, title := range titles {
		rec := f.do(t, "POST", "/news", "/api/v1/admin/news", map[string]any{
			"title":        title,
			"body":         "body of " + title,
			"published_at": time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC),
		}, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed %q: status = %d: %s", title, rec.Code, rec.Body.String())
		}
		var p content.NewsPost
		if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
			t.Fatalf("unmarshal created post: %v", err)
		}
		posts = append(posts, p)
	}
	return posts
}

type listResponse struct {
	Rows []struct {
		Index  int      `json:"index"`
		Key    string   `json:"key"`
		Cells  []string `json:"cells"`
		Record map[string]any
	} `json:"rows"`
	Page         int    `json:"page"`
	PageSize     int    `json:"page_size"`
	Total        int    `json:"total"`
	TotalPages   int    `json:"total_pages"`
	CanDelete    bool   `json:"can_delete"`
	EmptyMessage string `json:"empty_message"`
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) listResponse {
	t.Helper()
	var lr listResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &lr); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	return lr
}

func TestAdmin_NewsListDefaults(t *testing.T) {
	f := newAdminFixture(t)
	f.seedNews(t, "alpha", "beta", "gamma")

	rec := f.do(t, "GET", "/news", "/api/v1/admin/news", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	lr := decodeList(t, rec)
	if lr.Total != 3 {
		t.Errorf("Total = %d, want 3", lr.Total)
	}
	if lr.Page != 1 || lr.PageSize != 10 || lr.TotalPages != 1 {
		t.Errorf("page=%d size=%d pages=%d, want 1/10/1", lr.Page, lr.PageSize, lr.TotalPages)
	}
	if !lr.CanDelete {
		t.Error("expected delete affordance")
	}
}

func TestAdmin_NewsListSearch(t *testing.T) {
	f := newAdminFixture(t)
	f.seedNews(t, "Summer Tour", "Winter Concert", "Summer Single")

	rec := f.do(t, "GET", "/news", "/api/v1/admin/news?q=summer", nil, nil)
	lr := decodeList(t, rec)
	if lr.Total != 2 {
		t.Errorf("Total = %d, want 2 summer posts", lr.Total)
	}
}

func TestAdmin_NewsListSortByTitle(t *testing.T) {
	f := newAdminFixture(t)
	f.seedNews(t, "charlie", "Alpha", "bravo")

	rec := f.do(t, "GET", "/news", "/api/v1/admin/news?sort=title", nil, nil)
	lr := decodeList(t, rec)
	if len(lr.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(lr.Rows))
	}
	// Case-insensitive ascending order.
	if lr.Rows[0].Cells[0] != "Alpha" || lr.Rows[2].Cells[0] != "charlie" {
		t.Errorf("order = [%s, %s, %s], want [Alpha, bravo, charlie]",
			lr.Rows[0].Cells[0], lr.Rows[1].Cells[0], lr.Rows[2].Cells[0])
	}
}

func TestAdmin_NewsListPagination(t *testing.T) {
	f := newAdminFixture(t)
	f.seedNews(t, "p1", "p2", "p3", "p4", "p5", "p6", "p7")

	rec := f.do(t, "GET", "/news", "/api/v1/admin/news?page_size=5&page=2", nil, nil)
	lr := decodeList(t, rec)
	if lr.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", lr.TotalPages)
	}
	if len(lr.Rows) != 2 {
		t.Errorf("rows = %d, want 2 on page 2", len(lr.Rows))
	}
	if len(lr.Rows) > 0 && lr.Rows[0].Index != 6 {
		t.Errorf("first row index = %d, want 6", lr.Rows[0].Index)
	}
}

func TestAdmin_NewsListRejectsBadPageSize(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.do(t, "GET", "/news", "/api/v1/admin/news?page_size=7", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAdmin_NewsListEmptyMessage(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.do(t, "GET", "/news", "/api/v1/admin/news", nil, nil)
	lr := decodeList(t, rec)
	if lr.Total != 0 || lr.EmptyMessage == "" {
		t.Errorf("Total = %d, EmptyMessage = %q; want empty state", lr.Total, lr.EmptyMessage)
	}
	if lr.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1 for empty set", lr.TotalPages)
	}
}

func TestAdmin_NewsCreateValidation(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.do(t, "POST", "/news", "/api/v1/admin/news", map[string]any{"title": "no body"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAdmin_NewsUpdateNotFound(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.do(t, "PUT", "/news/{id}", "/api/v1/admin/news/ghost", map[string]any{
		"title": "t", "body": "b",
	}, map[string]string{"id": "ghost"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAdmin_NewsDeleteTwoStep(t *testing.T) {
	f := newAdminFixture(t)
	posts := f.seedNews(t, "to delete")
	id := posts[0].ID

	// First request without confirmation returns the prompt and removes
	// nothing.
	rec := f.do(t, "DELETE", "/news/{id}", "/api/v1/admin/news/"+id, nil,
		map[string]string{"id": id})
	if rec.Code != http.StatusOK {
		t.Fatalf("unconfirmed status = %d, want 200", rec.Code)
	}
	var prompt struct {
		ConfirmRequired bool   `json:"confirm_required"`
		Prompt          string `json:"prompt"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &prompt); err != nil {
		t.Fatalf("unmarshal prompt: %v", err)
	}
	if !prompt.ConfirmRequired || prompt.Prompt == "" {
		t.Errorf("prompt = %+v, want confirm_required with text", prompt)
	}

	lr := decodeList(t, f.do(t, "GET", "/news", "/api/v1/admin/news", nil, nil))
	if lr.Total != 1 {
		t.Fatalf("Total after declined delete = %d, want 1", lr.Total)
	}

	// Confirmed request removes the record.
	rec = f.do(t, "DELETE", "/news/{id}", "/api/v1/admin/news/"+id+"?confirm=true", nil,
		map[string]string{"id": id})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("confirmed status = %d, want 204", rec.Code)
	}

	lr = decodeList(t, f.do(t, "GET", "/news", "/api/v1/admin/news", nil, nil))
	if lr.Total != 0 {
		t.Errorf("Total after confirmed delete = %d, want 0", lr.Total)
	}
}

func TestAdmin_NewsDeleteNotFound(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.do(t, "DELETE", "/news/{id}", "/api/v1/admin/news/ghost?confirm=true", nil,
		map[string]string{"id": "ghost"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAdmin_RoutesRequireSession(t *testing.T) {
	f := newAdminFixture(t)

	var handler http.HandlerFunc
	for _, r := range f.mod.Routes() {
		if r.Method == "GET" && r.Path == "/news" {
			handler = r.Handler
		}
	}
	req := httptest.NewRequest("GET", "/api/v1/admin/news", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without token", rec.Code)
	}
}

func TestAdmin_ChangeEventsPublished(t *testing.T) {
	f := newAdminFixture(t)
	posts := f.seedNews(t, "event test")

	rec := f.do(t, "DELETE", "/news/{id}", "/api/v1/admin/news/"+posts[0].ID+"?confirm=true", nil,
		map[string]string{"id": posts[0].ID})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	var topics []string
	for _, e := range f.bus.Events() {
		topics = append(topics, e.Topic)
	}
	// One create plus one delete.
	if len(topics) != 2 {
		t.Fatalf("events = %v, want 2 content.changed", topics)
	}
	for _, topic := range topics {
		if topic != "content.changed" {
			t.Errorf("topic = %q, want content.changed", topic)
		}
	}
}

func TestAdmin_SettingsRoundTrip(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.do(t, "PUT", "/settings/{key}", "/api/v1/admin/settings/site_title",
		map[string]string{"value": "Limelight"}, map[string]string{"key": "site_title"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, "GET", "/settings", "/api/v1/admin/settings", nil, nil)
	var settings []content.Setting
	if err := json.Unmarshal(rec.Body.Bytes(), &settings); err != nil {
		t.Fatalf("unmarshal settings: %v", err)
	}
	if len(settings) != 1 || settings[0].Value != "Limelight" {
		t.Errorf("settings = %+v, want one site_title=Limelight", settings)
	}

	rec = f.do(t, "DELETE", "/settings/{key}", "/api/v1/admin/settings/site_title", nil,
		map[string]string{"key": "site_title"})
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}
}

func TestAdmin_BannerCreateAndList(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.do(t, "POST", "/banners", "/api/v1/admin/banners", map[string]any{
		"title":     "Hero",
		"image_url": "/media/banners/hero.jpg",
		"active":    true,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	lr := decodeList(t, f.do(t, "GET", "/banners", "/api/v1/admin/banners", nil, nil))
	if lr.Total != 1 {
		t.Fatalf("Total = %d, want 1", lr.Total)
	}
	// Active column renders yes/no, not the raw number.
	cells := lr.Rows[0].Cells
	if cells[2] != "yes" {
		t.Errorf("active cell = %q, want yes", cells[2])
	}
}
