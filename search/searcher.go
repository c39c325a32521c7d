package search

import (
	"context"
	"log/slog"
	"runtime"
	"sort"

	"github.com/poiesic/medsearch/core"
	"github.com/poiesic/medsearch/fuzzy"
	"github.com/poiesic/medsearch/index"
)

const (
	// DefaultSemanticWeight is the share of the final score taken from TF-IDF similarity.
	DefaultSemanticWeight = 0.7
	// DefaultFuzzyWeight is the share of the final score taken from name similarity.
	DefaultFuzzyWeight = 0.3
	// DefaultMinScore is the floor a final score must exceed to be returned.
	DefaultMinScore = 0.10
)

// Searcher ranks records with a blend of semantic and fuzzy name similarity.
type Searcher struct {
	index   *index.Index
	records []*core.Record
	names   []string // lowercased display names, indexed by row

	semanticWeight float64
	fuzzyWeight    float64
	minScore       float64
	limit          int
	poolSize       int
	filters        []Filter
	logger         *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithWeights sets the semantic and fuzzy blend weights.
// Default is 0.7 and 0.3.
func WithWeights(semantic, fuzzy float64) Option {
	return func(s *Searcher) error {
		if semantic < 0 || fuzzy < 0 || semantic+fuzzy == 0 {
			return ErrInvalidWeights
		}
		s.semanticWeight = semantic
		s.fuzzyWeight = fuzzy
		return nil
	}
}

// WithMinScore sets the exclusive score floor.
// Default is 0.10.
func WithMinScore(score float64) Option {
	return func(s *Searcher) error {
		if score < 0 || score >= 1 {
			return ErrInvalidMinScore
		}
		s.minScore = score
		return nil
	}
}

// WithLimit caps the number of results per query. Zero means unlimited.
func WithLimit(limit int) Option {
	return func(s *Searcher) error {
		if limit < 0 {
			return ErrInvalidLimit
		}
		s.limit = limit
		return nil
	}
}

// WithPoolSize sets the number of workers used by SearchBatch.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Searcher) error {
		if size < 1 {
			size = 1
		}
		s.poolSize = size
		return nil
	}
}

// NewSearcher creates a searcher over records. Row i of idx must have been
// built from records[i].Text.
func NewSearcher(idx *index.Index, records []*core.Record, opts ...Option) (*Searcher, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if len(records) == 0 {
		return nil, ErrRecordsRequired
	}
	if idx.Len() != len(records) {
		return nil, ErrIndexMismatch
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	s := &Searcher{
		index:          idx,
		records:        records,
		semanticWeight: DefaultSemanticWeight,
		fuzzyWeight:    DefaultFuzzyWeight,
		minScore:       DefaultMinScore,
		poolSize:       poolSize,
		logger:         slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.names = make([]string, len(records))
	for i, r := range records {
		if r == nil {
			return nil, core.ErrInvalidRecord
		}
		s.names[i] = index.Normalize(r.Name)
	}

	return s, nil
}

// Search returns the records matching query, best first.
func (s *Searcher) Search(ctx context.Context, query string) ([]*core.ScoredResult, error) {
	return s.SearchWithMonitor(ctx, query, nil)
}

// SearchWithMonitor is Search with stage callbacks.
// An empty result is not an error; an empty query is.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, monitor SearchMonitor) ([]*core.ScoredResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	q := index.Normalize(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	monitor.Start(q)

	// 1. Semantic similarity against every row
	semantic := s.index.Similarities(s.index.Transform(q))
	monitor.AfterSemanticScoring(semantic)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 2. Fuzzy similarity against every display name
	fz := make([]float64, len(s.records))
	for i, name := range s.names {
		fz[i] = fuzzy.PartialRatio(q, name) / 100
	}
	monitor.AfterFuzzyScoring(fz)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3. Blend and filter
	candidates := make([]*core.ScoredResult, 0)
	for i, record := range s.records {
		if !s.accepts(record) {
			continue
		}
		score := s.semanticWeight*semantic[i] + s.fuzzyWeight*fz[i]
		if score <= s.minScore {
			continue
		}
		candidates = append(candidates, &core.ScoredResult{
			Record:   record,
			Score:    score,
			Semantic: semantic[i],
			Fuzzy:    fz[i],
		})
	}
	monitor.AfterFilter(candidates)

	// 4. Sort by score descending, ties in row order
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	// 5. Keep the best row per display name
	results := dedupByName(candidates)
	monitor.AfterDedup(len(results), len(candidates)-len(results))

	if s.limit > 0 && len(results) > s.limit {
		results = results[:s.limit]
	}
	monitor.Finish(results)

	s.logger.Debug("search complete",
		"query", q,
		"candidates", len(candidates),
		"results", len(results))
	return results, nil
}

// dedupByName keeps the first result for each exact display name.
// Input must already be sorted best first.
func dedupByName(sorted []*core.ScoredResult) []*core.ScoredResult {
	seen := make(map[string]struct{}, len(sorted))
	results := make([]*core.ScoredResult, 0, len(sorted))
	for _, r := range sorted {
		if _, ok := seen[r.Record.Name]; ok {
			continue
		}
		seen[r.Record.Name] = struct{}{}
		results = append(results, r)
	}
	return results
}

// Stats describes the corpus a Searcher ranks over.
type Stats struct {
	Records       int
	DistinctNames int
	Terms         int
}

// Stats returns record, name and vocabulary counts.
func (s *Searcher) Stats() Stats {
	names := make(map[string]struct{}, len(s.records))
	for _, r := range s.records {
		names[r.Name] = struct{}{}
	}
	return Stats{
		Records:       len(s.records),
		DistinctNames: len(names),
		Terms:         s.index.Stats().Terms,
	}
}
