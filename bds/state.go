package bds

import (
	"fmt"

	"github.com/datatrails/go-datatrails-common/logger"
)

// State is the BDS traversal state of a single tree of height H. It owns the
// AUTH path, the KEEP buffer, the RETAIN table and the H-K treehash
// instances, each of which has its own private stack.
//
// The lifecycle is: NewState, Setup exactly once, then Traverse for the
// leaves 0, 1, 2 ... in order. A State is not safe for concurrent use.
type State struct {
	log    logger.Logger
	params Params
	addr   SubTreeAddress
	hasher TreeHasher
	budget int

	auth     []Node
	keep     []Node
	retain   []Node
	treehash []Treehash

	// the build stack, used by Setup and by background construction
	stack Stack
	built uint64
	root  Node

	// the leaf whose path AUTH currently holds
	next uint64

	err error
}

// NewState creates an empty state for a tree with the given parameters.
// Nothing is hashed until Setup.
func NewState(log logger.Logger, params Params, hasher TreeHasher, opts ...Option) (*State, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(params, opts...)
	return newState(log, params, SubTreeAddress{}, hasher, o.budget)
}

func newState(
	log logger.Logger, params Params, addr SubTreeAddress, hasher TreeHasher, budget int) (*State, error) {

	if hasher == nil {
		return nil, fmt.Errorf("%w: layer %d, tree %d", ErrNilHasher, addr.Layer, addr.Tree)
	}

	st := &State{
		log:      log,
		params:   params,
		addr:     addr,
		hasher:   hasher,
		budget:   budget,
		auth:     make([]Node, params.TreeHeight),
		keep:     make([]Node, params.KeepSize()),
		retain:   make([]Node, params.RetainSize()),
		treehash: make([]Treehash, params.TreehashCount()),
		stack:    Stack{nodes: make([]Node, 0, int(params.TreeHeight)+1)},
	}
	for h := range st.treehash {
		st.treehash[h] = newTreehash(uint8(h))
	}
	return st, nil
}

// Params returns the tree parameters
func (st *State) Params() Params { return st.params }

// Address returns the position of the tree in its forest, the zero address
// for a stand alone tree.
func (st *State) Address() SubTreeAddress { return st.addr }

// Complete is true once every leaf of the tree has been consumed by the
// build and the root is known.
func (st *State) Complete() bool { return !st.root.IsZero() }

// Root returns the root digest, nil until the state is complete.
func (st *State) Root() []byte { return st.root.digest }

// NextLeaf returns the index of the leaf whose authentication path AuthPath
// currently returns.
func (st *State) NextLeaf() uint64 { return st.next }

// AuthPath returns the current authentication path, ordered from the leaf
// level up. The digests are shared with the state and must not be modified.
func (st *State) AuthPath() [][]byte {
	path := make([][]byte, len(st.auth))
	for h, n := range st.auth {
		path[h] = n.digest
	}
	return path
}

// Setup builds the whole tree once, seeding AUTH with the path of leaf 0,
// the treehash instances with their first results and the RETAIN table with
// every right node of the top K levels. It returns the root digest.
func (st *State) Setup() ([]byte, error) {
	if st.err != nil {
		return nil, st.err
	}
	if st.built != 0 {
		return nil, ErrAlreadySetup
	}
	for !st.Complete() {
		if err := st.grow(); err != nil {
			return nil, err
		}
	}
	st.log.Debugf("bds setup: layer=%d tree=%d height=%d root=%x",
		st.addr.Layer, st.addr.Tree, st.params.TreeHeight, st.root.digest)
	return st.root.digest, nil
}

// grow consumes the next leaf of the build. Forests call this one leaf at a
// time to construct the next subtree of a layer in the background.
func (st *State) grow() error {
	if st.err != nil {
		return st.err
	}
	if st.Complete() {
		return st.fail(fmt.Errorf("%w: build of a complete tree continued", ErrInconsistentState))
	}

	st.stack.PushLeaf(st.hasher, st.built, st.classify)
	st.built++
	if st.err != nil {
		return st.err
	}

	if st.built < st.params.LeafCount() {
		return nil
	}
	st.root, _ = st.stack.Pop()
	if st.stack.Len() != 0 || st.root.height != st.params.TreeHeight {
		return st.fail(fmt.Errorf("%w: build finished without a single root", ErrInconsistentState))
	}
	return st.checkSeeded()
}

// classify records the right nodes produced by the build which are needed
// later by the traversal.
func (st *State) classify(right Node, rowIndex uint64) {
	h := int(right.height)

	switch {
	case rowIndex == 1:
		// the right child of the left most node one level up: on the path of leaf 0
		st.auth[h] = right

	case h < st.params.TreehashCount():
		// the first node each treehash instance would otherwise compute
		if rowIndex == 3 {
			st.treehash[h].seed(right)
		}

	default:
		i, err := st.retainIndex(h, retainSetupRow(rowIndex))
		if err != nil {
			st.fail(err)
			return
		}
		if !st.retain[i].IsZero() {
			st.fail(fmt.Errorf("%w: retain slot %d written twice", ErrInconsistentState, i))
			return
		}
		st.retain[i] = right
	}
}

func (st *State) checkSeeded() error {
	for h, n := range st.auth {
		if n.IsZero() {
			return st.fail(fmt.Errorf("%w: auth node at height %d not set by setup", ErrInconsistentState, h))
		}
	}
	for h := range st.treehash {
		if st.treehash[h].node.IsZero() {
			return st.fail(fmt.Errorf("%w: treehash at height %d not seeded by setup", ErrInconsistentState, h))
		}
	}
	for i, n := range st.retain {
		if n.IsZero() {
			return st.fail(fmt.Errorf("%w: retain slot %d not set by setup", ErrInconsistentState, i))
		}
	}
	return nil
}

// retainIndex returns the RETAIN slot for the given height and row, checking
// both are in range.
func (st *State) retainIndex(h int, row uint64) (int, error) {
	H := int(st.params.TreeHeight)
	if h < st.params.TreehashCount() || h > H-2 {
		return 0, fmt.Errorf("%w: height %d is not retained", ErrInconsistentState, h)
	}
	if row >= uint64(RetainRows(H, h)) {
		return 0, fmt.Errorf("%w: retain row %d out of range at height %d", ErrInconsistentState, row, h)
	}
	return RetainOffset(H, h) + int(row), nil
}

// Traverse returns the authentication path for leaf s and then prepares the
// path for leaf s+1, spending the scheduling budget on the treehash
// instances. It must be called for s = 0, 1, 2 ... with no gaps or repeats.
func (st *State) Traverse(s uint64) ([][]byte, error) {
	if st.err != nil {
		return nil, st.err
	}
	if !st.Complete() {
		return nil, ErrNotSetup
	}
	if s >= st.params.LeafCount() {
		return nil, fmt.Errorf("%w: leaf %d, tree has %d leaves", ErrExhausted, s, st.params.LeafCount())
	}
	if s != st.next {
		return nil, fmt.Errorf("%w: got leaf %d, expected leaf %d", ErrSequence, s, st.next)
	}

	path := st.AuthPath()

	// nothing follows the last leaf
	if s == st.params.LeafCount()-1 {
		st.next++
		return path, nil
	}

	if err := st.refresh(s); err != nil {
		return nil, err
	}
	st.Advance(st.budget)
	return path, nil
}

// refresh updates AUTH from the path of leaf s to the path of leaf s+1,
// and restarts the treehash instances whose results were just consumed.
func (st *State) refresh(s uint64) error {
	if st.err != nil {
		return st.err
	}
	if s != st.next || s+1 >= st.params.LeafCount() {
		return st.fail(fmt.Errorf("%w: refresh of leaf %d, expected leaf %d", ErrInconsistentState, s, st.next))
	}

	H := int(st.params.TreeHeight)
	nth := st.params.TreehashCount()
	tau := LowestUnsetBit(s)

	// Take the kept node before the slot can be overwritten below, the
	// levels 2j and 2j+1 share slot j.
	var kept Node
	if tau > 0 {
		slot := (tau - 1) >> 1
		kept = st.keep[slot]
		st.keep[slot] = Node{}
		if kept.IsZero() {
			return st.fail(fmt.Errorf("%w: keep slot %d read while empty (leaf %d)", ErrInconsistentState, slot, s))
		}
	}

	// Leaving a left subtree at height tau+1: the current auth node at tau
	// is needed again once the right half of that subtree is reached.
	if tau < H-1 && (s>>(tau+1))&1 == 0 {
		st.keep[tau>>1] = st.auth[tau]
	}

	if tau == 0 {
		st.auth[0] = leafNode(st.hasher, s)
		st.next++
		return nil
	}

	st.auth[tau] = parentNode(st.hasher, st.auth[tau-1], kept)

	for h := 0; h < tau; h++ {
		if h < nth {
			n, err := st.treehash[h].take()
			if err != nil {
				return st.fail(fmt.Errorf("%w (leaf %d)", err, s))
			}
			st.auth[h] = n
			continue
		}
		i, err := st.retainIndex(h, retainTraverseRow(s, h))
		if err != nil {
			return st.fail(err)
		}
		if st.retain[i].IsZero() {
			return st.fail(fmt.Errorf("%w: retain slot %d read while empty", ErrInconsistentState, i))
		}
		st.auth[h] = st.retain[i]
	}

	for h := 0; h < min(tau, nth); h++ {
		// the node needed at height h 3 * 2^h leaves from now
		start := s + 1 + (uint64(3) << h)
		if start < st.params.LeafCount() {
			st.treehash[h].Restart(start)
		}
	}

	st.next++
	return nil
}

func (st *State) fail(err error) error {
	if st.err == nil {
		st.err = err
	}
	return st.err
}
