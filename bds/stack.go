package bds

// Stack is the classic treehash stack. Leaves are pushed left to right and
// whenever the top of the stack has the same height as the node being
// pushed the two are merged into their parent. After every push the stack
// holds the canonical partial tree for the leaves consumed so far, with
// heights strictly decreasing from the bottom of the stack to the top.
//
// The zero Stack is ready to use.
type Stack struct {
	nodes []Node
}

// MergeVisitor is called with the pending right node immediately before it
// is merged with its left sibling from the top of the stack. rowIndex is the
// position of the node among all nodes of the same height.
type MergeVisitor func(right Node, rowIndex uint64)

// PushLeaf pushes the leaf at index, merging as far as the stack allows.
// visit, if not nil, observes every right node that is merged.
func (s *Stack) PushLeaf(hasher TreeHasher, index uint64, visit MergeVisitor) {
	pending := leafNode(hasher, index)

	for len(s.nodes) > 0 && s.nodes[len(s.nodes)-1].height == pending.height {
		if visit != nil {
			visit(pending, index>>pending.height)
		}
		left := s.nodes[len(s.nodes)-1]
		s.nodes = s.nodes[:len(s.nodes)-1]
		pending = parentNode(hasher, left, pending)
	}
	s.nodes = append(s.nodes, pending)
}

// Len returns the number of nodes held
func (s *Stack) Len() int { return len(s.nodes) }

// Top returns the most recently pushed node, false if the stack is empty
func (s *Stack) Top() (Node, bool) {
	if len(s.nodes) == 0 {
		return Node{}, false
	}
	return s.nodes[len(s.nodes)-1], true
}

// Pop removes and returns the top node, false if the stack is empty
func (s *Stack) Pop() (Node, bool) {
	n, ok := s.Top()
	if ok {
		s.nodes[len(s.nodes)-1] = Node{}
		s.nodes = s.nodes[:len(s.nodes)-1]
	}
	return n, ok
}

// MinHeight returns the lowest height currently on the stack, false if the
// stack is empty. Because heights decrease towards the top this is the
// height of the top node.
func (s *Stack) MinHeight() (uint8, bool) {
	n, ok := s.Top()
	return n.height, ok
}

// Reset empties the stack, keeping its storage.
func (s *Stack) Reset() {
	clear(s.nodes)
	s.nodes = s.nodes[:0]
}
