package search

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/medsearch/core"
)

// SearchBatch runs Search for every query on a worker pool.
// results[i] holds the matches for queries[i]. The first error encountered
// aborts the batch.
func (s *Searcher) SearchBatch(ctx context.Context, queries []string) ([][]*core.ScoredResult, error) {
	results := make([][]*core.ScoredResult, len(queries))
	if len(queries) == 0 {
		return results, nil
	}

	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i, query := range queries {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			matches, err := s.Search(ctx, query)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			results[i] = matches
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return nil, submitErr
		}
	}
	wg.Wait()

	if firstErr != nil {
		s.logger.Error("batch search failed", "queries", len(queries), "err", firstErr)
		return nil, firstErr
	}
	return results, nil
}
