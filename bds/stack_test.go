package bds

import (
	"testing"

	"github.com/joostrijneveld/merkletreetraversal/authpath"
	"github.com/joostrijneveld/merkletreetraversal/bdstesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackPushLeafMatchesTreehashRoot(t *testing.T) {
	tc := bdstesting.NewTestContext(t, bdstesting.TestConfig{TestLabelPrefix: "TestStackPushLeaf"})

	for height := uint8(0); height <= 6; height++ {
		var s Stack
		for i := uint64(0); i < uint64(1)<<height; i++ {
			s.PushLeaf(tc.Hasher, i, nil)
		}
		require.Equal(t, 1, s.Len())
		root, ok := s.Pop()
		require.True(t, ok)
		assert.Equal(t, height, root.Height())
		assert.Equal(t, authpath.TreehashRoot(tc.Hasher, height), root.Digest())
		assert.Equal(t, authpath.RecursiveRoot(tc.Hasher, height, 0), root.Digest())
	}
}

// TestStackHeightsStrictlyDecrease checks the stack holds one node per set
// bit of the leaf count, the largest at the bottom.
func TestStackHeightsStrictlyDecrease(t *testing.T) {
	tc := bdstesting.NewTestContext(t, bdstesting.TestConfig{TestLabelPrefix: "TestStackHeights"})

	var s Stack
	for i := uint64(0); i < 37; i++ {
		s.PushLeaf(tc.Hasher, i, nil)

		count := i + 1
		var want []uint8
		for h := 63; h >= 0; h-- {
			if count&(uint64(1)<<h) != 0 {
				want = append(want, uint8(h))
			}
		}
		var got []uint8
		for _, n := range s.nodes {
			got = append(got, n.Height())
		}
		require.Equal(t, want, got, "after %d leaves", count)

		low, ok := s.MinHeight()
		require.True(t, ok)
		assert.Equal(t, want[len(want)-1], low)
	}
}

func TestStackVisitSeesEveryMergedRightNode(t *testing.T) {
	tc := bdstesting.NewTestContext(t, bdstesting.TestConfig{TestLabelPrefix: "TestStackVisit"})

	type seen struct {
		height uint8
		row    uint64
	}
	var visited []seen

	var s Stack
	for i := uint64(0); i < 8; i++ {
		s.PushLeaf(tc.Hasher, i, func(right Node, row uint64) {
			// the visited node is the one committed at (height, row)
			require.Equal(t, authpath.RecursiveRoot(tc.Hasher, right.Height(), row<<right.Height()), right.Digest())
			visited = append(visited, seen{right.Height(), row})
		})
	}

	// row indices at each height, every odd row is a right node
	//
	//	2               0               1
	//	1       0       1       2       3
	//	0     0   1   2   3   4   5   6   7
	assert.Equal(t, []seen{
		{0, 1},
		{0, 3}, {1, 1},
		{0, 5},
		{0, 7}, {1, 3}, {2, 1},
	}, visited)
}

func TestStackPopReset(t *testing.T) {
	tc := bdstesting.NewTestContext(t, bdstesting.TestConfig{TestLabelPrefix: "TestStackPopReset"})

	var s Stack
	_, ok := s.Pop()
	assert.False(t, ok)
	_, ok = s.MinHeight()
	assert.False(t, ok)

	s.PushLeaf(tc.Hasher, 0, nil)
	s.PushLeaf(tc.Hasher, 1, nil)
	s.PushLeaf(tc.Hasher, 2, nil)
	require.Equal(t, 2, s.Len())

	top, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, uint8(0), top.Height())
	assert.Equal(t, tc.Hasher.HashLeaf(2), top.Digest())

	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.Greater(t, cap(s.nodes), 0)
}
