package hashers

import (
	"encoding/binary"
	"errors"
	"hash"
)

var (
	ErrUnknownAlgorithm = errors.New("hashers: unknown hash algorithm")
)

const (
	leafPrefix     = 0x00
	childrenPrefix = 0x01
)

// TreeHasher derives leaf and interior node values from a hash algorithm, a
// seed and the address of the subtree. All values are domain separated:
//
//	leaf     = H(0x00 || seed || layer_be4 || tree_be8 || index_be8)
//	children = H(0x01 || seed || layer_be4 || tree_be8 || left || right)
//
// A TreeHasher reuses one hash.Hash and is not safe for concurrent use.
type TreeHasher struct {
	id      string
	newHash func() hash.Hash
	hasher  hash.Hash
	seed    []byte
	layer   uint32
	tree    uint64
}

// New returns a hasher for the left most subtree of the bottom layer using
// the registered algorithm id.
func New(id string, seed []byte) (*TreeHasher, error) {
	newHash, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	return &TreeHasher{
		id:      id,
		newHash: newHash,
		hasher:  newHash(),
		seed:    append([]byte(nil), seed...),
	}, nil
}

// ForSubtree returns a hasher with the same algorithm and seed for the
// subtree at (layer, tree).
func (t *TreeHasher) ForSubtree(layer uint32, tree uint64) *TreeHasher {
	return &TreeHasher{
		id:      t.id,
		newHash: t.newHash,
		hasher:  t.newHash(),
		seed:    t.seed,
		layer:   layer,
		tree:    tree,
	}
}

// ID returns the name of the hash algorithm
func (t *TreeHasher) ID() string { return t.id }

// Size returns the digest size in bytes
func (t *TreeHasher) Size() int { return t.hasher.Size() }

func (t *TreeHasher) HashLeaf(index uint64) []byte {
	t.start(leafPrefix)
	HashWriteUint64(t.hasher, index)
	return t.hasher.Sum(nil)
}

func (t *TreeHasher) HashChildren(left, right []byte) []byte {
	t.start(childrenPrefix)
	_, _ = t.hasher.Write(left)
	_, _ = t.hasher.Write(right)
	return t.hasher.Sum(nil)
}

func (t *TreeHasher) start(prefix byte) {
	t.hasher.Reset()
	_, _ = t.hasher.Write([]byte{prefix})
	_, _ = t.hasher.Write(t.seed)
	HashWriteUint32(t.hasher, t.layer)
	HashWriteUint64(t.hasher, t.tree)
}

// HashWriteUint64 writes a uint64 to a hasher in big-endian layout.
func HashWriteUint64(hasher hash.Hash, value uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], value)
	_, _ = hasher.Write(b[:])
}

// HashWriteUint32 writes a uint32 to a hasher in big-endian layout.
func HashWriteUint32(hasher hash.Hash, value uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], value)
	_, _ = hasher.Write(b[:])
}
