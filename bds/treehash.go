package bds

import "fmt"

// Treehash is a resumable computation of the single node at a fixed height
// whose left most leaf is the start index. Each update consumes exactly one
// leaf. Once the private stack collapses to one node at the target height
// the instance is completed and holds that node until it is taken.
type Treehash struct {
	height    uint8
	next      uint64
	stack     Stack
	completed bool
	node      Node
}

func newTreehash(height uint8) Treehash {
	return Treehash{
		height:    height,
		completed: true,
		stack:     Stack{nodes: make([]Node, 0, int(height)+1)},
	}
}

// Height returns the target height of the instance
func (th *Treehash) Height() uint8 { return th.height }

// Completed is true when the instance has nothing left to compute
func (th *Treehash) Completed() bool { return th.completed }

// NextIndex returns the next leaf index update will consume
func (th *Treehash) NextIndex() uint64 { return th.next }

// Restart discards any previous result and begins computing the node whose
// left most leaf is start.
func (th *Treehash) Restart(start uint64) {
	th.next = start
	th.stack.Reset()
	th.completed = false
	th.node = Node{}
}

// update consumes one leaf. It does nothing once the instance has completed.
func (th *Treehash) update(hasher TreeHasher) {
	if th.completed {
		return
	}
	th.stack.PushLeaf(hasher, th.next, nil)
	th.next++

	if th.stack.Len() != 1 {
		return
	}
	if top, _ := th.stack.Top(); top.height == th.height {
		th.node, _ = th.stack.Pop()
		th.completed = true
	}
}

// MinHeight is the scheduling priority of the instance: the lowest height on
// its stack, or its own height when nothing has been pushed yet. Lower is
// more urgent.
func (th *Treehash) MinHeight() uint8 {
	if h, ok := th.stack.MinHeight(); ok {
		return h
	}
	return th.height
}

// seed installs the node computed during setup, leaving the instance
// completed.
func (th *Treehash) seed(n Node) {
	th.node = n
	th.completed = true
}

// take returns the completed node and clears it so that it is consumed
// exactly once.
func (th *Treehash) take() (Node, error) {
	if !th.completed {
		return Node{}, fmt.Errorf(
			"%w: treehash at height %d read before completion (next leaf %d)", ErrInconsistentState, th.height, th.next)
	}
	if th.node.IsZero() {
		return Node{}, fmt.Errorf(
			"%w: treehash at height %d has no node to read", ErrInconsistentState, th.height)
	}
	n := th.node
	th.node = Node{}
	return n, nil
}
