package bds

import "fmt"

const (
	// MaxTreeHeight bounds H so that the leaf count and every restart index
	// fit comfortably in a uint64.
	MaxTreeHeight = 32

	// MinRetainHeight is the smallest K for which (H-K)/2 scheduler rounds
	// per leaf are sufficient.
	MinRetainHeight = 2

	// maxForestBits is the largest supported H*D.
	maxForestBits = 63
)

// Params are the shape parameters of a single BDS traversed tree.
type Params struct {
	// TreeHeight is H, the tree has 1 << H leaves.
	TreeHeight uint8
	// RetainHeight is K, the count of top levels whose right nodes are
	// precomputed into the RETAIN table at setup.
	RetainHeight uint8
}

// Validate rejects parameters for which the traversal is not defined or for
// which the scheduling budget is not sufficient.
func (p Params) Validate() error {
	if p.TreeHeight == 0 || p.TreeHeight > MaxTreeHeight {
		return fmt.Errorf("%w: tree height %d not in [1, %d]", ErrInvalidParams, p.TreeHeight, MaxTreeHeight)
	}
	if p.RetainHeight < MinRetainHeight {
		return fmt.Errorf("%w: retain height %d must be at least %d", ErrInvalidParams, p.RetainHeight, MinRetainHeight)
	}
	if p.RetainHeight > p.TreeHeight {
		return fmt.Errorf("%w: retain height %d exceeds tree height %d", ErrInvalidParams, p.RetainHeight, p.TreeHeight)
	}
	if (p.TreeHeight-p.RetainHeight)%2 != 0 {
		return fmt.Errorf("%w: tree height minus retain height (%d) must be even",
			ErrInvalidParams, p.TreeHeight-p.RetainHeight)
	}
	return nil
}

// LeafCount returns 1 << H
func (p Params) LeafCount() uint64 {
	return uint64(1) << p.TreeHeight
}

// TreehashCount returns H - K, the number of levels served by treehash
// instances rather than by RETAIN.
func (p Params) TreehashCount() int {
	return int(p.TreeHeight) - int(p.RetainHeight)
}

// RetainSize returns the number of RETAIN slots, 2^K - K - 1
func (p Params) RetainSize() int {
	return (1 << p.RetainHeight) - int(p.RetainHeight) - 1
}

// KeepSize returns the number of KEEP slots, ceil(H/2)
func (p Params) KeepSize() int {
	return (int(p.TreeHeight) + 1) / 2
}

// Budget returns the number of scheduler rounds spent after each traverse,
// (H-K)/2. This is the smallest budget for which every treehash instance is
// guaranteed to complete before its node is needed.
func (p Params) Budget() int {
	return p.TreehashCount() / 2
}

// ForestParams are the parameters of a multi tree (forest) traversal. Every
// layer is a tree of the same shape.
type ForestParams struct {
	Params
	// Layers is D, the number of stacked subtree layers.
	Layers uint8
}

func (p ForestParams) Validate() error {
	if err := p.Params.Validate(); err != nil {
		return err
	}
	if p.Layers == 0 {
		return fmt.Errorf("%w: a forest needs at least one layer", ErrInvalidParams)
	}
	if int(p.TreeHeight)*int(p.Layers) > maxForestBits {
		return fmt.Errorf("%w: %d layers of height %d exceed %d leaf index bits",
			ErrInvalidParams, p.Layers, p.TreeHeight, maxForestBits)
	}
	return nil
}

// LeafCount returns the total number of bottom layer leaves, 1 << (H*D)
func (p ForestParams) LeafCount() uint64 {
	return uint64(1) << (uint(p.TreeHeight) * uint(p.Layers))
}

// SubtreeCount returns the number of subtrees on the given layer. The bottom
// layer (0) has the most, the top layer exactly one.
func (p ForestParams) SubtreeCount(layer uint8) uint64 {
	return uint64(1) << (uint(p.TreeHeight) * uint(p.Layers-1-layer))
}
