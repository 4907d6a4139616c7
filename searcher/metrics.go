package searcher

import "time"

type SearchMetric struct {
	Duration   time.Duration
	Iterations int
	Rollouts   int // Iterations that played out past the tree
	MaxDepth   int // Deepest node reached by selection
	TreeSize   int
	TreeReused bool
}

type Collector interface {
	Start(treeReused bool)
	AddIteration(depth int, rolledOut bool)
	Complete(treeSize int) SearchMetric
}

type collector struct {
	startTime  time.Time
	iterations int
	rollouts   int
	maxDepth   int
	treeReused bool
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(treeReused bool) {
	*c = collector{startTime: time.Now(), treeReused: treeReused}
}

func (c *collector) AddIteration(depth int, rolledOut bool) {
	c.iterations++
	if rolledOut {
		c.rollouts++
	}
	if depth > c.maxDepth {
		c.maxDepth = depth
	}
}

func (c *collector) Complete(treeSize int) SearchMetric {
	return SearchMetric{
		Duration:   time.Since(c.startTime),
		Iterations: c.iterations,
		Rollouts:   c.rollouts,
		MaxDepth:   c.maxDepth,
		TreeSize:   treeSize,
		TreeReused: c.treeReused,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return dummyCollector{}
}

func (dummyCollector) Start(bool)                {}
func (dummyCollector) AddIteration(int, bool)    {}
func (dummyCollector) Complete(int) SearchMetric { return SearchMetric{} }
