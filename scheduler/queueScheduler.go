package scheduler

// Expands the state space breadth first, one level at a time.
//
// A batch contains every node of one depth in the order they were added.
// Since nodes are added in discovery order this keeps node ids sorted by depth.
type QueueScheduler struct {
	currentLevel int
	pending      []int
	started      bool
}

func NewQueueScheduler() *QueueScheduler {
	return &QueueScheduler{
		currentLevel: 0,
		pending:      make([]int, 0),
	}
}

// Add a node to the next level
func (qs *QueueScheduler) Add(id int) {
	qs.pending = append(qs.pending, id)
}

// Get all nodes of the next level.
// The first batch has depth 0 and every following batch is one level deeper.
func (qs *QueueScheduler) NextBatch() ([]int, int, error) {
	if len(qs.pending) == 0 {
		return nil, 0, NoNodesError
	}
	if qs.started {
		qs.currentLevel++
	}
	qs.started = true

	batch := qs.pending
	qs.pending = make([]int, 0, len(batch))
	return batch, qs.currentLevel, nil
}

func (qs *QueueScheduler) Reset() {
	qs.currentLevel = 0
	qs.pending = make([]int, 0)
	qs.started = false
}
