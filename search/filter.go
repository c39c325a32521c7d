package search

import "github.com/poiesic/medsearch/core"

// Filter reports whether a record may appear in results.
type Filter func(record *core.Record) bool

// WithFilter restricts results to records accepted by every filter.
// Filters run before scoring and do not change the order of what remains.
func WithFilter(filters ...Filter) Option {
	return func(s *Searcher) error {
		for _, f := range filters {
			if f != nil {
				s.filters = append(s.filters, f)
			}
		}
		return nil
	}
}

func (s *Searcher) accepts(record *core.Record) bool {
	for _, f := range s.filters {
		if !f(record) {
			return false
		}
	}
	return true
}
