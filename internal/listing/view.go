package listing

import (
	"strings"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/pagination"
)

// FilterSource supplies versioned filter criteria and change notifications.
// *store.Filters implements it.
type FilterSource interface {
	Snapshot() (domain.FilterState, uint64)
	Subscribe(fn func()) (unsubscribe func())
}

// View is the memoized, progressively paginated product list for one
// visitor. The derived list is recomputed only when the filter version or
// the query changes; either change collapses the window to its first page.
type View struct {
	catalog []domain.Product
	filters FilterSource

	mu     sync.Mutex
	query  string
	window pagination.Window

	cached        []domain.Product
	cachedVersion uint64
	cachedQuery   string
	valid         bool

	unsubscribe func()
}

// NewView creates a view over catalog driven by filters.
func NewView(catalog []domain.Product, filters FilterSource, pageSize int) *View {
	v := &View{
		catalog: catalog,
		filters: filters,
		window:  pagination.NewWindow(pageSize),
	}
	v.unsubscribe = filters.Subscribe(v.filtersChanged)
	return v
}

func (v *View) filtersChanged() {
	v.mu.Lock()
	v.window.Reset()
	v.mu.Unlock()
}

// SetQuery replaces the search query. A different query resets the window.
func (v *View) SetQuery(q string) {
	q = strings.TrimSpace(q)
	v.mu.Lock()
	defer v.mu.Unlock()
	if q == v.query {
		return
	}
	v.query = q
	v.window.Reset()
}

// Query returns the applied search query.
func (v *View) Query() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

// Products returns the full derived list.
func (v *View) Products() []domain.Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.derivedLocked()
}

// Visible returns the revealed prefix of the derived list.
func (v *View) Visible() pagination.Result[domain.Product] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return pagination.NewResult(v.derivedLocked(), v.window)
}

// LoadMore reveals the next page and returns the new visible prefix.
func (v *View) LoadMore() pagination.Result[domain.Product] {
	v.mu.Lock()
	defer v.mu.Unlock()
	all := v.derivedLocked()
	v.window.More(len(all))
	return pagination.NewResult(all, v.window)
}

// Close stops listening to filter changes.
func (v *View) Close() {
	v.unsubscribe()
}

func (v *View) derivedLocked() []domain.Product {
	state, version := v.filters.Snapshot()
	if v.valid && version == v.cachedVersion && v.query == v.cachedQuery {
		return v.cached
	}
	v.cached = DeriveVisibleProducts(v.catalog, state, v.query)
	v.cachedVersion = version
	v.cachedQuery = v.query
	v.valid = true
	return v.cached
}
