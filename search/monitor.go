package search

import "github.com/poiesic/medsearch/core"

// SearchMonitor receives callbacks at each stage of a query.
// Score slices are indexed by record row and must not be retained or modified.
type SearchMonitor interface {
	Start(query string)
	AfterSemanticScoring(scores []float64)
	AfterFuzzyScoring(scores []float64)
	AfterFilter(candidates []*core.ScoredResult)
	AfterDedup(kept, dropped int)
	Finish(results []*core.ScoredResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                     {}
func (n *noopMonitor) AfterSemanticScoring(_ []float64)   {}
func (n *noopMonitor) AfterFuzzyScoring(_ []float64)      {}
func (n *noopMonitor) AfterFilter(_ []*core.ScoredResult) {}
func (n *noopMonitor) AfterDedup(_, _ int)                {}
func (n *noopMonitor) Finish(_ []*core.ScoredResult)      {}
