// Package tree contains the spanning tree built while exploring a state space.
package tree

// A node in a rooted tree that only links upwards.
//
// Every node is numbered in the order it was added, starting with the root at 0.
// Following parent links from any node gives the path it was discovered by.
type Tree[T any] struct {
	payload T
	parent  *Tree[T]
	id      int
	depth   int
	// Shared by every node of the tree
	size *int
}

func New[T any](payload T) *Tree[T] {
	size := 1
	return &Tree[T]{payload: payload, size: &size}
}

// Adds a node with the provided payload below t and returns it.
func (t *Tree[T]) AddChild(payload T) *Tree[T] {
	child := &Tree[T]{
		payload: payload,
		parent:  t,
		id:      *t.size,
		depth:   t.depth + 1,
		size:    t.size,
	}
	*t.size++
	return child
}

// Returns the payloads on the path from the root to this node, both included.
func (t *Tree[T]) PathFromRoot() []T {
	out := make([]T, t.depth+1)
	for node := t; node != nil; node = node.parent {
		out[node.depth] = node.payload
	}
	return out
}

// Returns the number of nodes added to the tree t belongs to.
func (t *Tree[T]) Len() int {
	return *t.size
}

func (t *Tree[T]) Payload() T {
	return t.payload
}

// Returns nil for the root.
func (t *Tree[T]) Parent() *Tree[T] {
	return t.parent
}

func (t *Tree[T]) ID() int {
	return t.id
}

func (t *Tree[T]) Depth() int {
	return t.depth
}
