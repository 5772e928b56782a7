package authpath

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	ErrVerifyFailed = errors.New("authpath: path does not reproduce the root")
	ErrLeafRange    = errors.New("authpath: leaf index is out of range for the path length")
)

// Hasher is the pair of one-way functions a tree is built from. It is
// satisfied by bds.TreeHasher implementations.
type Hasher interface {
	HashLeaf(index uint64) []byte
	HashChildren(left, right []byte) []byte
}

// VerifyRoot folds the authentication path of the leaf at leafIndex into the
// root it commits to. Bit h of leafIndex selects the order at height h: when
// it is set the running node is a right child and the parent is
// HashChildren(path[h], running), otherwise HashChildren(running, path[h]).
//
// Exactly len(path) calls are made to HashChildren.
func VerifyRoot(hasher Hasher, leafIndex uint64, leafDigest []byte, path [][]byte) []byte {
	root := leafDigest
	for _, sibling := range path {
		if leafIndex&1 == 1 {
			root = hasher.HashChildren(sibling, root)
		} else {
			root = hasher.HashChildren(root, sibling)
		}
		leafIndex >>= 1
	}
	return root
}

// LeafRoot is VerifyRoot for a leaf given by index, the leaf value is
// computed with the hasher.
func LeafRoot(hasher Hasher, leafIndex uint64, path [][]byte) []byte {
	return VerifyRoot(hasher, leafIndex, hasher.HashLeaf(leafIndex), path)
}

// VerifyPath checks that the path of the leaf at leafIndex reproduces root.
func VerifyPath(hasher Hasher, leafIndex uint64, path [][]byte, root []byte) error {
	if len(path) < 64 && leafIndex>>len(path) != 0 {
		return fmt.Errorf("%w: leaf %d with a path of %d nodes", ErrLeafRange, leafIndex, len(path))
	}
	if got := LeafRoot(hasher, leafIndex, path); !bytes.Equal(got, root) {
		return fmt.Errorf("%w: leaf %d", ErrVerifyFailed, leafIndex)
	}
	return nil
}
