package authpath

import (
	"testing"

	"github.com/joostrijneveld/merkletreetraversal/hashers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHasher(t *testing.T, seed string) *hashers.TreeHasher {
	hasher, err := hashers.New(hashers.SHA256, []byte(seed))
	require.NoError(t, err)
	return hasher
}

func TestVerifyRoot(t *testing.T) {
	hasher := newTestHasher(t, "TestVerifyRoot")
	H := hasher.HashChildren
	L := hasher.HashLeaf

	//	2          r
	//	         /   \
	//	1      a       b
	//	      / \     / \
	//	0    0   1   2   3
	a := H(L(0), L(1))
	b := H(L(2), L(3))
	r := H(a, b)

	type args struct {
		leafIndex uint64
		path      [][]byte
	}
	tests := []struct {
		name string
		args args
	}{
		{"leaf 0", args{0, [][]byte{L(1), b}}},
		{"leaf 1", args{1, [][]byte{L(0), b}}},
		{"leaf 2", args{2, [][]byte{L(3), a}}},
		{"leaf 3", args{3, [][]byte{L(2), a}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerifyRoot(hasher, tt.args.leafIndex, L(tt.args.leafIndex), tt.args.path)
			assert.Equal(t, r, got)
			assert.Equal(t, r, LeafRoot(hasher, tt.args.leafIndex, tt.args.path))
			assert.NoError(t, VerifyPath(hasher, tt.args.leafIndex, tt.args.path, r))
		})
	}
}

func TestVerifyRootCost(t *testing.T) {
	hasher := hashers.NewCounting(newTestHasher(t, "TestVerifyRootCost"))

	for height := uint8(0); height <= 10; height++ {
		path := make([][]byte, height)
		for h := range path {
			path[h] = []byte{byte(h)}
		}

		hasher.Reset()
		first := VerifyRoot(hasher, 5, []byte("leaf"), path)
		assert.Equal(t, 0, hasher.Leaves())
		assert.Equal(t, int(height), hasher.Children())

		hasher.Reset()
		second := VerifyRoot(hasher, 5, []byte("leaf"), path)
		assert.Equal(t, first, second)

		hasher.Reset()
		LeafRoot(hasher, 5, path)
		assert.Equal(t, 1, hasher.Leaves())
		assert.Equal(t, int(height), hasher.Children())
	}
}

func TestVerifyPathErrors(t *testing.T) {
	hasher := newTestHasher(t, "TestVerifyPathErrors")
	const height = 5

	root := RecursiveRoot(hasher, height, 0)
	path := ReferencePath(hasher, height, 9)
	require.NoError(t, VerifyPath(hasher, 9, path, root))

	// the right path for the wrong leaf
	assert.ErrorIs(t, VerifyPath(hasher, 8, path, root), ErrVerifyFailed)

	// a corrupted sibling
	bad := append([][]byte(nil), path...)
	bad[3] = hasher.HashLeaf(1000)
	assert.ErrorIs(t, VerifyPath(hasher, 9, bad, root), ErrVerifyFailed)

	// a path too short to reach the leaf
	assert.ErrorIs(t, VerifyPath(hasher, 1<<height, path, root), ErrLeafRange)
	assert.ErrorIs(t, VerifyPath(hasher, 9, path[:3], root), ErrLeafRange)

	// a tree of a single leaf
	assert.NoError(t, VerifyPath(hasher, 0, nil, hasher.HashLeaf(0)))
}

func TestRecursiveRootMatchesTreehashRoot(t *testing.T) {
	hasher := newTestHasher(t, "TestRecursiveRoot")

	for height := uint8(0); height <= 8; height++ {
		assert.Equal(t, RecursiveRoot(hasher, height, 0), TreehashRoot(hasher, height), "height %d", height)
	}
}

func TestReferencePath(t *testing.T) {
	hasher := newTestHasher(t, "TestReferencePath")
	const height = 6

	root := TreehashRoot(hasher, height)
	for leaf := uint64(0); leaf < 1<<height; leaf++ {
		path := ReferencePath(hasher, height, leaf)
		require.Len(t, path, height)
		require.NoError(t, VerifyPath(hasher, leaf, path, root), "leaf %d", leaf)
	}
}
