// Package browse implements a generic tabular data browser: given a list
// of uniquely keyed records and a column schema it derives a filtered,
// sorted, paginated view and carries add/edit/delete intents back to the
// caller. The derived view is a pure function of the inputs and the
// browser's view state; no I/O happens here.
package browse

import (
	"fmt"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PageSizes is the enumerated set of allowed page sizes.
var PageSizes = []int{5, 10, 25, 50, 100}

// DefaultPageSize is used until the caller picks another enumerated size.
const DefaultPageSize = 10

// Placeholder is rendered for nil or empty cell values.
const Placeholder = "-"

// Record is one browsable entity. Key must be stable and unique across
// the record list; duplicate keys are the caller's bug but must not
// crash view derivation.
type Record interface {
	Key() string
}

// Column describes how one field of a Record is accessed, labeled,
// sorted, and rendered. Value is the typed accessor for the field; a nil
// Value yields an empty cell. Render, when set, takes precedence over
// the default text coercion and its result is shown verbatim.
type Column struct {
	Key      string
	Label    string
	Sortable bool
	Width    int
	Value    func(r Record) any
	Render   func(value any, r Record) string
}

// Order is a sort direction.
type Order int

const (
	// Ascending sorts smallest first.
	Ascending Order = iota
	// Descending sorts largest first.
	Descending
)

// Config supplies the construction-time inputs of a Browser.
type Config struct {
	Columns []Column

	// EmptyMessage is shown when no records survive filtering.
	EmptyMessage string

	// DeletePrompt builds the human-readable confirmation prompt for a
	// record. A default prompt is used when nil.
	DeletePrompt func(r Record) string

	// Callbacks are independently optional; a nil callback suppresses
	// the corresponding affordance on the derived view.
	OnAdd    func()
	OnEdit   func(r Record)
	OnDelete func(r Record)
}

// Browser owns the view state (search text, sort selection, page) and
// derives pages from caller-supplied record lists.
type Browser struct {
	columns  []Column
	collator *collate.Collator
	emptyMsg string
	prompt   func(r Record) string
	onAdd    func()
	onEdit   func(r Record)
	onDelete func(r Record)

	search   string
	page     int
	pageSize int
	sortKey  string // empty means unsorted
	order    Order
	loading  bool
}

// New creates a Browser with default view state: empty search, page 1,
// page size 10, no sort.
func New(cfg Config) *Browser {
	b := &Browser{
		columns: cfg.Columns,
		// Loose collation ignores case, matching the locale-aware
		// case-insensitive ordering the sort contract requires.
		collator: collate.New(language.Und, collate.Loose),
		emptyMsg: cfg.EmptyMessage,
		prompt:   cfg.DeletePrompt,
		onAdd:    cfg.OnAdd,
		onEdit:   cfg.OnEdit,
		onDelete: cfg.OnDelete,
		page:     1,
		pageSize: DefaultPageSize,
	}
	if b.emptyMsg == "" {
		b.emptyMsg = "No records found."
	}
	return b
}

// Columns returns the column schema.
func (b *Browser) Columns() []Column { return b.columns }

// Search returns the current search text.
func (b *Browser) Search() string { return b.search }

// PageSize returns the current page size.
func (b *Browser) PageSize() int { return b.pageSize }

// SortKey returns the current sort column key, or "" when unsorted.
func (b *Browser) SortKey() string { return b.sortKey }

// SortOrder returns the current sort direction.
func (b *Browser) SortOrder() Order { return b.order }

// SetSearch updates the search text. Any change resets the page to 1.
func (b *Browser) SetSearch(text string) {
	if text == b.search {
		return
	}
	b.search = text
	b.page = 1
}

// SortBy reacts to a column header click. Clicking the current sort
// column toggles direction; clicking a new sortable column sorts
// ascending by it. Either change resets the page to 1. Clicks on unknown
// or unsortable columns are ignored.
func (b *Browser) SortBy(key string) {
	col, ok := b.column(key)
	if !ok || !col.Sortable {
		return
	}
	if b.sortKey == key {
		if b.order == Ascending {
			b.order = Descending
		} else {
			b.order = Ascending
		}
	} else {
		b.sortKey = key
		b.order = Ascending
	}
	b.page = 1
}

// SetPage requests a page. Out-of-range requests are clamped against the
// filtered record count when the view is derived.
func (b *Browser) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	b.page = n
}

// SetPageSize switches to one of the enumerated page sizes and resets the
// page to 1. Sizes outside the enumeration are a caller bug and are
// ignored; the return value reports acceptance.
func (b *Browser) SetPageSize(n int) bool {
	valid := false
	for _, s := range PageSizes {
		if s == n {
			valid = true
			break
		}
	}
	if !valid {
		return false
	}
	if n != b.pageSize {
		b.pageSize = n
		b.page = 1
	}
	return true
}

// SetLoading toggles the loading indicator. While loading, derived views
// carry no rows but still honor the add affordance.
func (b *Browser) SetLoading(loading bool) {
	b.loading = loading
}

// Add invokes the add callback, if any.
func (b *Browser) Add() {
	if b.onAdd != nil {
		b.onAdd()
	}
}

// Edit invokes the edit callback for r, if any.
func (b *Browser) Edit(r Record) {
	if b.onEdit != nil {
		b.onEdit(r)
	}
}

// DeletePrompt returns the human-readable confirmation prompt that must
// be accepted before Delete takes effect.
func (b *Browser) DeletePrompt(r Record) string {
	if b.prompt != nil {
		return b.prompt(r)
	}
	return fmt.Sprintf("Delete record %s? This cannot be undone.", r.Key())
}

// Delete invokes the delete callback for r only when the operator
// confirmed the prompt. Declining (confirmed=false) is a no-op with no
// side effects. The return value reports whether the callback ran.
func (b *Browser) Delete(r Record, confirmed bool) bool {
	if !confirmed || b.onDelete == nil {
		return false
	}
	b.onDelete(r)
	return true
}

func (b *Browser) column(key string) (Column, bool) {
	for _, c := range b.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}
