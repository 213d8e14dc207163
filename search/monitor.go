package search

import "github.com/poiesic/pageseek/core"

// Monitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type Monitor interface {
	Start(query string)
	PageScanned(pageID string, units int)
	UnitMatched(match *core.Match)
	Finish(results []*core.Match)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)              {}
func (n *noopMonitor) PageScanned(_ string, _ int) {}
func (n *noopMonitor) UnitMatched(_ *core.Match)   {}
func (n *noopMonitor) Finish(_ []*core.Match)      {}
