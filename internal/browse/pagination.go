package browse

// windowSize is the number of consecutive page numbers shown around the
// current page before the control collapses gaps into ellipses.
const windowSize = 5

// pageWindow builds the pagination control entries for the given current
// page and total page count. With totalPages at or below the window size
// every page is listed; beyond that the control shows the first page, an
// ellipsis when a gap exists, five consecutive pages centered on the
// current page (clamped to valid bounds), an ellipsis when a gap exists,
// and the last page.
func pageWindow(current, totalPages int) []PageControl {
	if totalPages <= windowSize {
		out := make([]PageControl, 0, totalPages)
		for n := 1; n <= totalPages; n++ {
			out = append(out, PageControl{Number: n, Current: n == current})
		}
		return out
	}

	start := current - windowSize/2
	if start < 1 {
		start = 1
	}
	if start > totalPages-windowSize+1 {
		start = totalPages - windowSize + 1
	}
	end := start + windowSize - 1

	var out []PageControl
	if start > 1 {
		out = append(out, PageControl{Number: 1, Current: current == 1})
		if start > 2 {
			out = append(out, PageControl{Ellipsis: true})
		}
	}
	for n := start; n <= end; n++ {
		out = append(out, PageControl{Number: n, Current: n == current})
	}
	if end < totalPages {
		if end < totalPages-1 {
			out = append(out, PageControl{Ellipsis: true})
		}
		out = append(out, PageControl{Number: totalPages, Current: current == totalPages})
	}
	return out
}
