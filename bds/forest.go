package bds

import (
	"fmt"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"
)

// Forest traverses D stacked layers of subtrees, as used by multi tree
// signature schemes. The bottom layer (0) is indexed by the low H bits of
// the global leaf index, layer i by bits [i*H, (i+1)*H).
//
// Each layer has a current State, whose paths are returned, and, while the
// layer has a following subtree, a next State which is built in the
// background one leaf at a time. When the current subtree of a layer is
// exhausted the prepared next State takes its place.
//
// A Forest is not safe for concurrent use.
type Forest struct {
	log     logger.Logger
	id      uuid.UUID
	params  ForestParams
	hashers HasherFactory
	budget  int

	current []*State
	next    []*State

	// the global leaf whose paths AuthPaths currently returns
	cursor uint64
	setup  bool

	err error
}

// NewForest creates the states for the first subtree of every layer, and
// for the subtree which follows it. Nothing is hashed until Setup.
func NewForest(log logger.Logger, params ForestParams, hashers HasherFactory, opts ...Option) (*Forest, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if hashers == nil {
		return nil, ErrNilHasher
	}
	o := newOptions(params.Params, opts...)
	if err := checkForestBudget(params, o.budget); err != nil {
		return nil, err
	}
	if o.forestID == uuid.Nil {
		o.forestID = uuid.New()
	}

	f := &Forest{
		log:     log,
		id:      o.forestID,
		params:  params,
		hashers: hashers,
		budget:  o.budget,
		current: make([]*State, params.Layers),
		next:    make([]*State, params.Layers),
	}

	if budgetShort(params, o.budget) {
		log.Infof(
			"bds forest %s: budget %d is less than layers - 1 (%d), upper layers may not be ready in time",
			f.id, o.budget, params.Layers-1)
	}

	for layer := range f.current {
		var err error
		if f.current[layer], err = f.newLayerState(layer, 0); err != nil {
			return nil, err
		}
		if params.SubtreeCount(uint8(layer)) > 1 {
			if f.next[layer], err = f.newLayerState(layer, 1); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// checkForestBudget rejects a budget with which the forest is certain to
// fail. With nothing left over after the bottom layer, the next subtree of
// layer 1 is never built, so any forest with a layer above that stops at the
// end of the first layer 1 subtree.
func checkForestBudget(params ForestParams, budget int) error {
	if budget <= 0 && params.Layers > 2 {
		return fmt.Errorf("%w: budget %d can not build the next subtrees of %d layers",
			ErrInvalidParams, budget, params.Layers)
	}
	return nil
}

// budgetShort is true when the budget is below one unit per upper layer,
// in which case the upper layers may not have their next subtree ready in
// time.
func budgetShort(params ForestParams, budget int) bool {
	return budget < int(params.Layers)-1
}

func (f *Forest) newLayerState(layer int, tree uint64) (*State, error) {
	addr := SubTreeAddress{Layer: uint32(layer), Tree: tree}
	return newState(f.log, f.params.Params, addr, f.hashers(addr), f.budget)
}

// ID returns the identity used in the forest's log lines
func (f *Forest) ID() uuid.UUID { return f.id }

// Params returns the forest parameters
func (f *Forest) Params() ForestParams { return f.params }

// Current returns the current state of a layer
func (f *Forest) Current(layer int) *State { return f.current[layer] }

// Roots returns the root of the current subtree of every layer, bottom up.
func (f *Forest) Roots() [][]byte {
	roots := make([][]byte, len(f.current))
	for i, st := range f.current {
		roots[i] = st.Root()
	}
	return roots
}

// AuthPaths returns the current authentication path of every layer, bottom
// up. The path of layer i is for leaf (s >> iH) mod 2^H of that layer's
// current subtree, where s is the next global leaf.
func (f *Forest) AuthPaths() [][][]byte {
	paths := make([][][]byte, len(f.current))
	for i, st := range f.current {
		paths[i] = st.AuthPath()
	}
	return paths
}

// Setup builds the first subtree of every layer and returns their roots,
// bottom up.
func (f *Forest) Setup() ([][]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.setup {
		return nil, ErrAlreadySetup
	}
	roots := make([][]byte, len(f.current))
	for i, st := range f.current {
		root, err := st.Setup()
		if err != nil {
			return nil, f.fail(err)
		}
		roots[i] = root
	}
	f.setup = true
	return roots, nil
}

// Traverse returns the authentication paths of every layer for the global
// leaf s, then prepares the paths for s+1. It must be called for s = 0, 1,
// 2 ... with no gaps or repeats.
func (f *Forest) Traverse(s uint64) ([][][]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !f.setup {
		return nil, ErrNotSetup
	}
	if s >= f.params.LeafCount() {
		return nil, fmt.Errorf("%w: leaf %d, forest has %d leaves", ErrExhausted, s, f.params.LeafCount())
	}
	if s != f.cursor {
		return nil, fmt.Errorf("%w: got leaf %d, expected leaf %d", ErrSequence, s, f.cursor)
	}

	paths := f.AuthPaths()
	f.cursor++

	if s == f.params.LeafCount()-1 {
		return paths, nil
	}
	if err := f.advance(s); err != nil {
		return nil, f.fail(err)
	}
	return paths, nil
}

// advance moves every layer from global leaf s to s+1.
//
// The bottom layer's next subtree gets one leaf every step, which is exactly
// enough for it to be complete when the current bottom subtree runs out.
// The scheduling budget is then spent bottom up, so what a layer does not
// need flows to the layers above it, where it also feeds the background
// build of their next subtrees.
func (f *Forest) advance(s uint64) error {
	H := f.params.TreeHeight
	updates := f.budget
	swapped := -1

	if err := f.grow(0); err != nil {
		return err
	}

	for i := range f.current {
		if endOfSubtree(s, H, i) {
			if err := f.swap(i, s); err != nil {
				return err
			}
			swapped = i

			// Linking the new subtree to the layer above costs one unit. The
			// signature on the new root is not produced here.
			if updates > 0 {
				updates--
			}
			continue
		}

		// Only the first layer above those that rolled over moves to its
		// next leaf, the layers above that are not affected by this step.
		if i == swapped+1 {
			if err := f.current[i].refresh(localIndex(s, H, i)); err != nil {
				return err
			}
		}
		updates = f.current[i].Advance(updates)

		if i > 0 && updates > 0 && f.next[i] != nil && !f.next[i].Complete() {
			if err := f.grow(i); err != nil {
				return err
			}
			updates--
		}
	}
	return nil
}

// grow adds one leaf to the next subtree of layer, if it has one to build.
func (f *Forest) grow(layer int) error {
	nxt := f.next[layer]
	if nxt == nil || nxt.Complete() {
		return nil
	}
	if err := nxt.grow(); err != nil {
		return err
	}
	if nxt.Complete() {
		f.log.Debugf("bds forest %s: next subtree ready: layer=%d tree=%d root=%x",
			f.id, nxt.addr.Layer, nxt.addr.Tree, nxt.Root())
	}
	return nil
}

// swap replaces the exhausted current subtree of layer with the prepared
// next one and starts a fresh next subtree, if the layer has one more.
func (f *Forest) swap(layer int, s uint64) error {
	nxt := f.next[layer]
	if nxt == nil || !nxt.Complete() {
		var built uint64
		if nxt != nil {
			built = nxt.built
		}
		return fmt.Errorf(
			"%w: next subtree of layer %d not ready at leaf %d (%d of %d leaves built)",
			ErrInconsistentState, layer, s, built, f.params.Params.LeafCount())
	}

	f.current[layer] = nxt
	f.next[layer] = nil

	tree := nxt.addr.Tree + 1
	if tree < f.params.SubtreeCount(uint8(layer)) {
		var err error
		if f.next[layer], err = f.newLayerState(layer, tree); err != nil {
			return err
		}
	}

	f.log.Debugf("bds forest %s: layer=%d now on tree=%d at leaf %d",
		f.id, layer, nxt.addr.Tree, s+1)
	return nil
}

func (f *Forest) fail(err error) error {
	if f.err == nil {
		f.err = err
	}
	return f.err
}
