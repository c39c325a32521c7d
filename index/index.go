package index

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

// chunkSize is the number of texts tokenized by a single pool task.
const chunkSize = 256

// Index is an immutable TF-IDF representation of a corpus.
type Index struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
	rows       []Vector
}

// Stats summarizes an index.
type Stats struct {
	Documents int
	Terms     int
}

type builder struct {
	poolSize int
	logger   *slog.Logger
}

// Option configures index construction.
type Option func(*builder) error

// WithPoolSize sets the number of workers used to tokenize the corpus.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(b *builder) error {
		if size < 1 {
			size = 1
		}
		b.poolSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// Build creates an index from texts. Row i of the index corresponds to texts[i].
// A corpus whose texts contain no tokens is valid; every similarity is then 0.
func Build(ctx context.Context, texts []string, opts ...Option) (*Index, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyCorpus
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	b := &builder{
		poolSize: poolSize,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	started := time.Now()
	counts, err := b.countAll(ctx, texts)
	if err != nil {
		return nil, err
	}

	idx := assemble(counts)
	b.logger.Debug("corpus index built",
		"documents", len(idx.rows),
		"terms", len(idx.terms),
		"elapsed", time.Since(started))
	return idx, nil
}

// countAll tokenizes every text on a worker pool. Each task writes a disjoint
// range of the result slice.
func (b *builder) countAll(ctx context.Context, texts []string) ([]map[string]int, error) {
	counts := make([]map[string]int, len(texts))

	pool, err := ants.NewPool(b.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for start := 0; start < len(texts); start += chunkSize {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		end := min(start+chunkSize, len(texts))
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			for i := start; i < end; i++ {
				counts[i] = termCounts(texts[i])
			}
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return nil, submitErr
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// assemble derives the sorted vocabulary, idf weights and row vectors.
func assemble(counts []map[string]int) *Index {
	df := make(map[string]int)
	for _, c := range counts {
		for term := range c {
			df[term]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(counts))
	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		vocabulary[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	idx := &Index{
		vocabulary: vocabulary,
		terms:      terms,
		idf:        idf,
		rows:       make([]Vector, len(counts)),
	}
	for i, c := range counts {
		idx.rows[i] = idx.weigh(c)
	}
	return idx
}

// weigh converts raw term counts into a normalized TF-IDF vector,
// dropping terms outside the vocabulary.
func (idx *Index) weigh(counts map[string]int) Vector {
	weights := make(map[int]float64, len(counts))
	for term, tf := range counts {
		i, ok := idx.vocabulary[term]
		if !ok {
			continue
		}
		weights[i] = float64(tf) * idx.idf[i]
	}
	return newVector(weights)
}

// Transform maps text into the index vector space.
// The zero vector is returned when text shares no terms with the corpus.
func (idx *Index) Transform(text string) Vector {
	return idx.weigh(termCounts(text))
}

// Similarities returns the cosine similarity of v against every row, in row order.
// Row vectors are unit length, so only v needs normalizing.
func (idx *Index) Similarities(v Vector) []float64 {
	scores := make([]float64, len(idx.rows))
	n := v.Norm()
	if n == 0 {
		return scores
	}
	for i, row := range idx.rows {
		scores[i] = clamp01(v.Dot(row) / n)
	}
	return scores
}

// Len returns the number of rows in the index.
func (idx *Index) Len() int {
	return len(idx.rows)
}

// Vectors returns the precomputed row vectors. Callers must not modify them.
func (idx *Index) Vectors() []Vector {
	return idx.rows
}

// Vocabulary returns the sorted corpus vocabulary. Callers must not modify it.
func (idx *Index) Vocabulary() []string {
	return idx.terms
}

// IDF returns the inverse document frequency of term and whether it is in the vocabulary.
func (idx *Index) IDF(term string) (float64, bool) {
	i, ok := idx.vocabulary[term]
	if !ok {
		return 0, false
	}
	return idx.idf[i], true
}

// Stats returns the document and term counts.
func (idx *Index) Stats() Stats {
	return Stats{
		Documents: len(idx.rows),
		Terms:     len(idx.terms),
	}
}
