package bds

import "math/bits"

// LowestUnsetBit returns tau, the index of the least significant zero bit of
// s. Moving from leaf s to leaf s+1 changes the authentication path at every
// height up to and including tau.
//
//	s     = 0b0111  -> tau = 3
//	s + 1 = 0b1000
func LowestUnsetBit(s uint64) int {
	return bits.TrailingZeros64(^s)
}

// RetainOffset returns the first RETAIN slot used for height h of a tree of
// height treeHeight. Height h (with treeHeight-K <= h <= treeHeight-2) holds
// the right nodes with row index 3, 5, 7 ... which is 2^(H-1-h) - 1 nodes.
// The table is filled from the top down so
//
//	offset(H-2) = 0
//	offset(H-3) = 1
//	offset(H-4) = 1 + 3 = 4
//
// and in general offset(h) = 2^(H-1-h) + h - H.
func RetainOffset(treeHeight, h int) int {
	return (1 << (treeHeight - 1 - h)) + h - treeHeight
}

// RetainRows returns the number of RETAIN slots used for height h
func RetainRows(treeHeight, h int) int {
	return (1 << (treeHeight - 1 - h)) - 1
}

// retainSetupRow maps the row index of a right node (3, 5, 7 ...) to its
// RETAIN row.
func retainSetupRow(rowIndex uint64) uint64 {
	return (rowIndex - 3) >> 1
}

// retainTraverseRow returns the RETAIN row for height h which holds the
// authentication node needed by leaf s+1. For every h < tau, s>>h is odd and
// the node needed is the right node with row index (s>>h) + 2.
func retainTraverseRow(s uint64, h int) uint64 {
	return ((s >> h) - 1) >> 1
}

// endOfSubtree is true when leaf s is the last leaf of a subtree on layer
// (layer index zero is the bottom). Every layer below is then also at the end
// of its subtree.
func endOfSubtree(s uint64, treeHeight uint8, layer int) bool {
	mask := (uint64(1) << (uint(treeHeight) * uint(layer+1))) - 1
	return (s+1)&mask == 0
}

// localIndex returns the leaf index within the current subtree of layer for
// the global bottom layer leaf s.
func localIndex(s uint64, treeHeight uint8, layer int) uint64 {
	return (s >> (uint(treeHeight) * uint(layer))) & ((uint64(1) << treeHeight) - 1)
}
