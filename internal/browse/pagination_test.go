package browse

import (
	"fmt"
	"testing"
)

// fmtWindow renders controls compactly for comparison, e.g. "1 … 4 [5] 6 … 10".
func fmtWindow(controls []PageControl) string {
	out := ""
	for i, c := range controls {
		if i > 0 {
			out += " "
		}
		switch {
		case c.Ellipsis:
			out += "…"
		case c.Current:
			out += fmt.Sprintf("[%d]", c.Number)
		default:
			out += fmt.Sprintf("%d", c.Number)
		}
	}
	return out
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    string
	}{
		{"single page", 1, 1, "[1]"},
		{"all pages under window", 2, 5, "1 [2] 3 4 5"},
		{"start of long range", 1, 10, "[1] 2 3 4 5 … 10"},
		{"second page", 2, 10, "1 [2] 3 4 5 … 10"},
		{"window touches start", 3, 10, "1 2 [3] 4 5 … 10"},
		{"middle", 5, 10, "1 … 3 4 [5] 6 7 … 10"},
		{"window touches end", 8, 10, "1 … 6 7 [8] 9 10"},
		{"end of long range", 10, 10, "1 … 6 7 8 9 [10]"},
		{"no gap at start edge", 4, 10, "1 2 3 [4] 5 6 … 10"},
		{"no gap at end edge", 7, 10, "1 … 5 6 [7] 8 9 10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fmtWindow(pageWindow(tt.current, tt.total))
			if got != tt.want {
				t.Errorf("pageWindow(%d, %d) = %q, want %q", tt.current, tt.total, got, tt.want)
			}
		})
	}
}

func TestPageWindowAlwaysContainsCurrentFirstLast(t *testing.T) {
	for total := 1; total <= 20; total++ {
		for current := 1; current <= total; current++ {
			controls := pageWindow(current, total)
			hasCurrent, hasFirst, hasLast := false, false, false
			for _, c := range controls {
				if c.Ellipsis {
					continue
				}
				if c.Number == current && c.Current {
					hasCurrent = true
				}
				if c.Number == 1 {
					hasFirst = true
				}
				if c.Number == total {
					hasLast = true
				}
			}
			if !hasCurrent || !hasFirst || !hasLast {
				t.Fatalf("pageWindow(%d, %d) = %q, missing current/first/last",
					current, total, fmtWindow(controls))
			}
		}
	}
}
