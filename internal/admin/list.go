package admin

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/limelightcms/limelight/internal/browse"
	"github.com/limelightcms/limelight/internal/module"
	"github.com/limelightcms/limelight/internal/server"
)

// toRecords widens a typed slice for the browser.
func toRecords[T browse.Record](items []T) []browse.Record {
	records := make([]browse.Record, len(items))
	for i, item := range items {
		records[i] = item
	}
	return records
}

// adminBrowser builds a browser for one back-office listing. All three
// affordances are present; onDelete may be overridden by delete handlers
// to capture the repository error.
func adminBrowser(columns []browse.Column, prompt func(browse.Record) string, onDelete func(browse.Record)) *browse.Browser {
	if onDelete == nil {
		onDelete = func(browse.Record) {}
	}
	return browse.New(browse.Config{
		Columns:      columns,
		DeletePrompt: prompt,
		OnAdd:        func() {},
		OnEdit:       func(browse.Record) {},
		OnDelete:     onDelete,
	})
}

// listView is the JSON shape of a browse-backed listing response.
type listView struct {
	Columns    []columnView  `json:"columns"`
	Rows       []rowView     `json:"rows"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
	Controls   []controlView `json:"controls"`

	CanAdd    bool `json:"can_add"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`

	EmptyMessage string `json:"empty_message,omitempty"`
}

type columnView struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Sortable bool   `json:"sortable"`
	Width    int    `json:"width,omitempty"`
}

type rowView struct {
	Index  int      `json:"index"`
	Key    string   `json:"key"`
	Cells  []string `json:"cells"`
	Record any      `json:"record"`
}

type controlView struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

// applyListParams maps query parameters onto browser view state. Returns
// false after writing a problem response when a parameter is malformed.
func applyListParams(w http.ResponseWriter, r *http.Request, b *browse.Browser) bool {
	q := r.URL.Query()

	b.SetSearch(q.Get("q"))

	if key := q.Get("sort"); key != "" {
		b.SortBy(key)
		if q.Get("order") == "desc" && b.SortKey() == key && b.SortOrder() == browse.Ascending {
			// Second click toggles to descending.
			b.SortBy(key)
		}
	}

	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || !b.SetPageSize(n) {
			server.BadRequest(w, "page_size must be one of 5, 10, 25, 50, 100", r.URL.Path)
			return false
		}
	}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			server.BadRequest(w, "page must be a positive integer", r.URL.Path)
			return false
		}
		b.SetPage(n)
	}
	return true
}

// renderList derives a page from the records and writes it as JSON.
func renderList(w http.ResponseWriter, b *browse.Browser, records []browse.Record) {
	page := b.View(records)

	view := listView{
		Page:         page.Number,
		PageSize:     page.PageSize,
		Total:        page.Total,
		TotalPages:   page.TotalPages,
		CanAdd:       page.CanAdd,
		CanEdit:      page.CanEdit,
		CanDelete:    page.CanDelete,
		EmptyMessage: page.EmptyMessage,
		Rows:         []rowView{},
		Controls:     []controlView{},
	}
	for _, c := range b.Columns() {
		view.Columns = append(view.Columns, columnView{
			Key: c.Key, Label: c.Label, Sortable: c.Sortable, Width: c.Width,
		})
	}
	for _, row := range page.Rows {
		view.Rows = append(view.Rows, rowView{
			Index: row.Index, Key: row.Key, Cells: row.Cells, Record: row.Record,
		})
	}
	for _, ctl := range page.Controls {
		view.Controls = append(view.Controls, controlView{
			Number: ctl.Number, Ellipsis: ctl.Ellipsis, Current: ctl.Current,
		})
	}

	writeJSON(w, http.StatusOK, view)
}

// deletePrompt is the response to an unconfirmed delete request.
type deletePrompt struct {
	ConfirmRequired bool   `json:"confirm_required"`
	Prompt          string `json:"prompt"`
}

// confirmDelete implements the two-step delete: without confirm=true the
// request only returns the confirmation prompt and nothing is removed.
// With confirm=true the delete callback runs.
func confirmDelete(w http.ResponseWriter, r *http.Request, b *browse.Browser, rec browse.Record) bool {
	confirmed := r.URL.Query().Get("confirm") == "true"
	if !b.Delete(rec, confirmed) {
		writeJSON(w, http.StatusOK, deletePrompt{
			ConfirmRequired: true,
			Prompt:          b.DeletePrompt(rec),
		})
		return false
	}
	return true
}

func (a *Admin) publishChange(r *http.Request, resource, action, key string) {
	if a.bus == nil {
		return
	}
	a.bus.PublishAsync(r.Context(), module.Event{
		Topic:     "content.changed",
		Source:    a.Name(),
		Timestamp: time.Now().UTC(),
		Payload: map[string]string{
			"resource": resource,
			"action":   action,
			"key":      key,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
