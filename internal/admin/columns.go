package admin

import (
	"fmt"

	"github.com/limelightcms/limelight/internal/browse"
	"github.com/limelightcms/limelight/internal/content"
)

// Column schemas for each browsable resource. Accessors type-assert the
// record back to its concrete content type; nil results render as the
// placeholder.

func newsColumns() []browse.Column {
	return []browse.Column{
		{Key: "title", Label: "Title", Sortable: true, Width: 30,
			Value: func(r browse.Record) any { return r.(content.NewsPost).Title }},
		{Key: "published_at", Label: "Published", Sortable: true, Width: 15,
			Value: func(r browse.Record) any { return r.(content.NewsPost).PublishedAt.Unix() },
			Render: func(_ any, r browse.Record) string {
				return r.(content.NewsPost).PublishedAt.Format("2006-01-02")
			}},
		{Key: "image", Label: "Image", Width: 25,
			Value: func(r browse.Record) any {
				if url := r.(content.NewsPost).ImageURL; url != "" {
					return url
				}
				return nil
			}},
	}
}

func certificateColumns() []browse.Column {
	return []browse.Column{
		{Key: "title", Label: "Title", Sortable: true, Width: 30,
			Value: func(r browse.Record) any { return r.(content.Certificate).Title }},
		{Key: "issued_by", Label: "Issued By", Sortable: true, Width: 20,
			Value: func(r browse.Record) any {
				if by := r.(content.Certificate).IssuedBy; by != "" {
					return by
				}
				return nil
			}},
		{Key: "issued_at", Label: "Issued", Sortable: true, Width: 15,
			Value: func(r browse.Record) any { return r.(content.Certificate).IssuedAt.Unix() },
			Render: func(_ any, r browse.Record) string {
				return r.(content.Certificate).IssuedAt.Format("2006-01-02")
			}},
	}
}

func galleryColumns() []browse.Column {
	return []browse.Column{
		{Key: "title", Label: "Title", Sortable: true, Width: 30,
			Value: func(r browse.Record) any {
				if t := r.(content.GalleryImage).Title; t != "" {
					return t
				}
				return nil
			}},
		{Key: "position", Label: "Position", Sortable: true, Width: 10,
			Value: func(r browse.Record) any { return r.(content.GalleryImage).Position }},
		{Key: "image", Label: "Image", Width: 30,
			Value: func(r browse.Record) any { return r.(content.GalleryImage).ImageURL }},
	}
}

func videoColumns() []browse.Column {
	return []browse.Column{
		{Key: "title", Label: "Title", Sortable: true, Width: 30,
			Value: func(r browse.Record) any { return r.(content.Video).Title }},
		{Key: "position", Label: "Position", Sortable: true, Width: 10,
			Value: func(r browse.Record) any { return r.(content.Video).Position }},
		{Key: "url", Label: "Video URL", Width: 30,
			Value: func(r browse.Record) any { return r.(content.Video).VideoURL }},
	}
}

func bannerColumns() []browse.Column {
	return []browse.Column{
		{Key: "title", Label: "Title", Sortable: true, Width: 25,
			Value: func(r browse.Record) any { return r.(content.Banner).Title }},
		{Key: "position", Label: "Position", Sortable: true, Width: 10,
			Value: func(r browse.Record) any { return r.(content.Banner).Position }},
		{Key: "active", Label: "Active", Sortable: true, Width: 10,
			Value: func(r browse.Record) any {
				if r.(content.Banner).Active {
					return 1
				}
				return 0
			},
			Render: func(_ any, r browse.Record) string {
				if r.(content.Banner).Active {
					return "yes"
				}
				return "no"
			}},
	}
}

func aboutColumns() []browse.Column {
	return []browse.Column{
		{Key: "heading", Label: "Heading", Sortable: true, Width: 30,
			Value: func(r browse.Record) any { return r.(content.AboutSection).Heading }},
		{Key: "position", Label: "Position", Sortable: true, Width: 10,
			Value: func(r browse.Record) any { return r.(content.AboutSection).Position }},
	}
}

func overviewColumns() []browse.Column {
	return []browse.Column{
		{Key: "year", Label: "Year", Sortable: true, Width: 10,
			Value: func(r browse.Record) any { return r.(content.OverviewItem).Year }},
		{Key: "title", Label: "Title", Sortable: true, Width: 40,
			Value: func(r browse.Record) any { return r.(content.OverviewItem).Title }},
	}
}

func serviceColumns() []browse.Column {
	return []browse.Column{
		{Key: "title", Label: "Title", Sortable: true, Width: 30,
			Value: func(r browse.Record) any { return r.(content.Service).Title }},
		{Key: "position", Label: "Position", Sortable: true, Width: 10,
			Value: func(r browse.Record) any { return r.(content.Service).Position }},
	}
}

func titlePrompt(kind string, title func(browse.Record) string) func(browse.Record) string {
	return func(r browse.Record) string {
		if t := title(r); t != "" {
			return fmt.Sprintf("Delete %s %q? This cannot be undone.", kind, t)
		}
		return fmt.Sprintf("Delete this %s? This cannot be undone.", kind)
	}
}
