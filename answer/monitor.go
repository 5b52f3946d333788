package answer

import "github.com/poiesic/docgraph/core"

// AskMonitor provides hooks to observe the question-answering process.
// Implement this interface to track intermediate steps during a query.
type AskMonitor interface {
	Start(question string)
	AfterSearch(hits []*core.VectorHit)
	AfterSignals(signals *GraphSignals)
	AfterAssembly(assembled *AssembledContext)
	Finish(answer *Answer)
}

// noopMonitor is a no-op implementation of AskMonitor.
type noopMonitor struct{}

var _ AskMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                    {}
func (n *noopMonitor) AfterSearch(_ []*core.VectorHit)   {}
func (n *noopMonitor) AfterSignals(_ *GraphSignals)      {}
func (n *noopMonitor) AfterAssembly(_ *AssembledContext) {}
func (n *noopMonitor) Finish(_ *Answer)                  {}
