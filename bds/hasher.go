package bds

// TreeHasher provides the two one-way functions a traversal is built from.
// Implementations must be deterministic for the lifetime of a tree.
type TreeHasher interface {
	// HashLeaf returns the leaf value for the leaf at index.
	HashLeaf(index uint64) []byte
	// HashChildren compresses two sibling values into their parent value.
	HashChildren(left, right []byte) []byte
}

// HasherFuncs adapts a pair of plain functions to TreeHasher.
type HasherFuncs struct {
	Leaf    func(index uint64) []byte
	Combine func(left, right []byte) []byte
}

func (f HasherFuncs) HashLeaf(index uint64) []byte { return f.Leaf(index) }

func (f HasherFuncs) HashChildren(left, right []byte) []byte { return f.Combine(left, right) }

// SubTreeAddress is the position of a subtree in a forest. The bottom layer
// is layer 0 and the left most subtree of each layer is tree 0.
type SubTreeAddress struct {
	Layer uint32
	Tree  uint64
}

// HasherFactory returns the hasher for the subtree at addr. Multi tree
// schemes typically tweak their hashes with the subtree address so that no
// two subtrees share leaves.
type HasherFactory func(addr SubTreeAddress) TreeHasher

// SameHasher returns a factory which uses hasher for every subtree.
func SameHasher(hasher TreeHasher) HasherFactory {
	return func(SubTreeAddress) TreeHasher { return hasher }
}
