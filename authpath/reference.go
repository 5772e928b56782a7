package authpath

// The functions in this file compute roots and paths from scratch, touching
// every leaf of the tree. They exist to check incremental traversals against
// and cost O(2^height) hashes per call.

// RecursiveRoot computes the root of the subtree of the given height whose
// left most leaf is first, by naive recursion.
func RecursiveRoot(hasher Hasher, height uint8, first uint64) []byte {
	if height == 0 {
		return hasher.HashLeaf(first)
	}
	half := uint64(1) << (height - 1)
	return hasher.HashChildren(
		RecursiveRoot(hasher, height-1, first),
		RecursiveRoot(hasher, height-1, first+half))
}

type stackNode struct {
	height uint8
	value  []byte
}

// TreehashRoot computes the root of the tree of the given height with a
// single left to right pass, merging equal height nodes on a stack.
func TreehashRoot(hasher Hasher, height uint8) []byte {
	stack := make([]stackNode, 0, int(height)+1)
	for i := uint64(0); i < uint64(1)<<height; i++ {
		n := stackNode{0, hasher.HashLeaf(i)}
		for len(stack) > 0 && stack[len(stack)-1].height == n.height {
			left := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n = stackNode{n.height + 1, hasher.HashChildren(left.value, n.value)}
		}
		stack = append(stack, n)
	}
	return stack[0].value
}

// ReferencePath computes the authentication path of leafIndex in the tree
// of the given height by recomputing every sibling subtree.
func ReferencePath(hasher Hasher, height uint8, leafIndex uint64) [][]byte {
	path := make([][]byte, height)
	for h := uint8(0); h < height; h++ {
		sibling := (leafIndex >> h) ^ 1
		path[h] = RecursiveRoot(hasher, h, sibling<<h)
	}
	return path
}
