package listing

import (
	"strings"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/domain"
)

// DefaultDebounce is the quiet period before search input is applied.
const DefaultDebounce = 300 * time.Millisecond

// MaxSuggestions bounds the title suggestions per query.
const MaxSuggestions = 5

// Suggestions is the outcome of the last applied search input.
type Suggestions struct {
	Query   string   `json:"query"`
	Titles  []string `json:"titles"`
	Pending bool     `json:"pending"`
}

// Suggester debounces search input. Each Input call cancels the pending one;
// once the input has been quiet for the delay, title suggestions are
// computed and the query is applied to the view.
type Suggester struct {
	catalog []domain.Product
	view    *View
	delay   time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	applied uint64
	pending *string
	last    Suggestions
	closed  bool

	// applyMu orders view updates so an older input never overwrites a
	// newer one.
	applyMu sync.Mutex
}

// NewSuggester creates a suggester feeding view. A non-positive delay uses
// DefaultDebounce.
func NewSuggester(catalog []domain.Product, view *View, delay time.Duration) *Suggester {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Suggester{
		catalog: catalog,
		view:    view,
		delay:   delay,
		last:    Suggestions{Titles: []string{}},
	}
}

// Input records new search text and restarts the quiet period.
func (s *Suggester) Input(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.pending = &q
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
}

// Flush applies pending input immediately.
func (s *Suggester) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	gen := s.gen
	q := s.pending
	s.pending = nil
	s.mu.Unlock()

	if q != nil {
		s.apply(*q, gen)
	}
}

// Last returns the last applied query and its suggestions.
func (s *Suggester) Last() Suggestions {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.last
	out.Titles = append([]string{}, s.last.Titles...)
	out.Pending = s.pending != nil
	return out
}

// Close cancels pending input. Later Input calls are ignored.
func (s *Suggester) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Suggester) fire(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen || s.pending == nil {
		s.mu.Unlock()
		return
	}
	q := *s.pending
	s.pending = nil
	s.timer = nil
	s.mu.Unlock()

	s.apply(q, gen)
}

// apply publishes input q taken at generation gen, unless input from a
// later generation has already been applied.
func (s *Suggester) apply(q string, gen uint64) {
	titles := Suggest(s.catalog, q, MaxSuggestions)

	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	s.mu.Lock()
	if s.closed || gen < s.applied {
		s.mu.Unlock()
		return
	}
	s.applied = gen
	s.last = Suggestions{Query: strings.TrimSpace(q), Titles: titles}
	s.mu.Unlock()

	s.view.SetQuery(q)
}

// Suggest returns up to limit distinct catalog titles containing q,
// case-insensitively, in catalog order. A blank query suggests nothing.
func Suggest(catalog []domain.Product, q string, limit int) []string {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []string{}
	if q == "" {
		return out
	}
	seen := map[string]struct{}{}
	for _, p := range catalog {
		if len(out) == limit {
			break
		}
		if !strings.Contains(strings.ToLower(p.Title), q) {
			continue
		}
		if _, dup := seen[p.Title]; dup {
			continue
		}
		seen[p.Title] = struct{}{}
		out = append(out, p.Title)
	}
	return out
}
