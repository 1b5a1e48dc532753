package browse

import (
	"fmt"
	"sort"
	"strings"
)

// Row is one visible record with its rendered cells. Index is the 1-based
// running position across the whole filtered sequence, accounting for the
// page offset.
type Row struct {
	Index  int
	Key    string
	Record Record
	Cells  []string
}

// PageControl is one entry of the windowed pagination control. Ellipsis
// entries have Number 0.
type PageControl struct {
	Number   int
	Ellipsis bool
	Current  bool
}

// Page is the derived view: the visible rows plus everything a caller
// needs to render the surrounding chrome.
type Page struct {
	Rows       []Row
	Number     int // effective (clamped) 1-based page
	PageSize   int
	Total      int // filtered record count
	TotalPages int // always >= 1
	Controls   []PageControl

	CanAdd    bool
	CanEdit   bool
	CanDelete bool

	Loading      bool
	EmptyMessage string // set when the filtered set is empty
}

// View derives the current page from records. Derivation is filter, then
// sort, then paginate; it never mutates records and never panics on
// well-formed input.
func (b *Browser) View(records []Record) Page {
	p := Page{
		PageSize:  b.pageSize,
		CanAdd:    b.onAdd != nil,
		CanEdit:   b.onEdit != nil,
		CanDelete: b.onDelete != nil,
	}

	if b.loading {
		p.Loading = true
		p.Number = 1
		p.TotalPages = 1
		return p
	}

	filtered := b.filter(records)
	b.sortRecords(filtered)

	p.Total = len(filtered)
	p.TotalPages = (p.Total + b.pageSize - 1) / b.pageSize
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}

	p.Number = b.page
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Number > p.TotalPages {
		p.Number = p.TotalPages
	}

	start := (p.Number - 1) * b.pageSize
	end := start + b.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	for i := start; i < end; i++ {
		r := filtered[i]
		p.Rows = append(p.Rows, Row{
			Index:  i + 1,
			Key:    r.Key(),
			Record: r,
			Cells:  b.renderCells(r),
		})
	}

	if p.Total == 0 {
		p.EmptyMessage = b.emptyMsg
	}

	p.Controls = pageWindow(p.Number, p.TotalPages)
	return p
}

// filter keeps records where any column's text-coerced value contains the
// search text, case-insensitively. Empty or whitespace-only search text
// passes everything.
func (b *Browser) filter(records []Record) []Record {
	needle := strings.ToLower(strings.TrimSpace(b.search))
	if needle == "" {
		out := make([]Record, len(records))
		copy(out, records)
		return out
	}

	var out []Record
	for _, r := range records {
		for _, c := range b.columns {
			if c.Value == nil {
				continue
			}
			v := c.Value(r)
			if v == nil {
				// Absent values never match a non-empty search.
				continue
			}
			if strings.Contains(strings.ToLower(coerce(v)), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// sortRecords stable-sorts in place by the current sort column. Records
// with a nil value at the sort key trail all defined values regardless of
// direction; mixed or non-comparable type pairs compare as equal.
func (b *Browser) sortRecords(records []Record) {
	if b.sortKey == "" {
		return
	}
	col, ok := b.column(b.sortKey)
	if !ok || col.Value == nil {
		return
	}

	sort.SliceStable(records, func(i, j int) bool {
		va := col.Value(records[i])
		vb := col.Value(records[j])

		if va == nil {
			return false
		}
		if vb == nil {
			return true
		}

		c := b.compare(va, vb)
		if c == 0 {
			return false
		}
		if b.order == Descending {
			return c > 0
		}
		return c < 0
	})
}

// compare orders two defined values: numerically when both are numbers,
// by locale-aware case-insensitive collation when both are strings, and
// as equal for any other pairing.
func (b *Browser) compare(va, vb any) int {
	if na, ok := asNumber(va); ok {
		if nb, ok := asNumber(vb); ok {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			default:
				return 0
			}
		}
		return 0
	}

	if sa, ok := va.(string); ok {
		if sb, ok := vb.(string); ok {
			return b.collator.CompareString(sa, sb)
		}
	}
	return 0
}

// renderCells produces the display text for every column of r. A custom
// renderer's result is shown verbatim; otherwise nil and empty values
// render as the placeholder dash.
func (b *Browser) renderCells(r Record) []string {
	cells := make([]string, len(b.columns))
	for i, c := range b.columns {
		var v any
		if c.Value != nil {
			v = c.Value(r)
		}
		if c.Render != nil {
			cells[i] = c.Render(v, r)
			continue
		}
		text := coerce(v)
		if text == "" {
			text = Placeholder
		}
		cells[i] = text
	}
	return cells
}

// coerce converts a field value to display text. Nil becomes "".
func coerce(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// asNumber widens any numeric type to float64.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
