// Package content provides repository interfaces and SQLite implementations
// for the site's editable content: news, certificates, gallery images,
// videos, banners, about sections, overview items, services, and site
// settings. This layer bridges the raw SQLite store with the admin API and
// the public site.
package content

import "errors"

// ListOptions controls pagination and sorting for list queries.
type ListOptions struct {
	Limit     int    // Max results per page (default 50, max 1000).
	Offset    int    // Number of results to skip.
	SortBy    string // Column name (validated per-repository).
	SortOrder string // "asc" or "desc" (default "desc").
}

// ListResult wraps a paginated result set with a total count.
type ListResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// Sentinel errors returned by repositories.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// normalizeListOptions applies defaults and caps to list options.
// sortable maps permitted SortBy values to their column expression;
// values outside the map fall back to defaultSort.
func normalizeListOptions(opts ListOptions, sortable map[string]string, defaultSort string) ListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Limit > 1000 {
		opts.Limit = 1000
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if col, ok := sortable[opts.SortBy]; ok {
		opts.SortBy = col
	} else {
		opts.SortBy = defaultSort
	}
	if opts.SortOrder != "asc" {
		opts.SortOrder = "desc"
	}
	return opts
}
