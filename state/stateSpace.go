package state

// StateSpace is the explored configuration graph.
//
// Nodes are identified by their discovery index: the initial configuration is 0
// and ids increase in breadth-first order.
type StateSpace interface {
	// Number of discovered configurations
	Len() int
	Configuration(id int) Configuration
	// Ids of the successors of the node, in the order they were discovered
	Successors(id int) []int
	// The shortest sequence of configurations from the initial configuration to the node
	PathTo(id int) []Configuration
	// Number of transitions from the initial configuration to the node
	Depth(id int) int
	// False if exploration stopped before every reachable configuration was expanded
	Complete() bool
}
