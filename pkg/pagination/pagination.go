package pagination

// DefaultPageSize is the number of items revealed per window.
const DefaultPageSize = 20

// MaxPageSize bounds page sizes requested by clients.
const MaxPageSize = 100

// Window is a progressively revealed prefix of a list: it starts with one
// page visible and grows by one page per More call, never past the list
// length. Window is not safe for concurrent use.
type Window struct {
	PageSize int `json:"page_size"`
	Visible  int `json:"visible"`
}

// NewWindow returns a window showing the first page. Non-positive sizes fall
// back to DefaultPageSize.
func NewWindow(pageSize int) Window {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Window{PageSize: pageSize, Visible: pageSize}
}

// Reset collapses the window back to its first page.
func (w *Window) Reset() {
	w.Visible = w.PageSize
}

// More reveals the next page of a list of length total. It reports false when
// everything is already visible.
func (w *Window) More(total int) bool {
	if w.Visible >= total {
		return false
	}
	w.Visible += w.PageSize
	if w.Visible > total {
		w.Visible = total
	}
	return true
}

// End returns the exclusive end index of the visible prefix.
func (w Window) End(total int) int {
	if w.Visible < total {
		return w.Visible
	}
	return total
}

// Result wraps the visible prefix of a list.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Visible    int  `json:"visible"`
	PageSize   int  `json:"page_size"`
	HasMore    bool `json:"has_more"`
}

// NewResult slices all to the window's visible prefix.
func NewResult[T any](all []T, w Window) Result[T] {
	end := w.End(len(all))
	data := all[:end:end]
	if data == nil {
		data = []T{}
	}
	return Result[T]{
		Data:       data,
		TotalCount: len(all),
		Visible:    end,
		PageSize:   w.PageSize,
		HasMore:    end < len(all),
	}
}
