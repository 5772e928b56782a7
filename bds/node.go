package bds

// Node is an immutable tree node value: a height and the digest at that
// height. Nodes are only created from a leaf index (height 0) or by combining
// two nodes of equal height.
type Node struct {
	height uint8
	digest []byte
}

// Height returns the level of the node, leaves are at height 0.
func (n Node) Height() uint8 { return n.height }

// Digest returns the node value. The returned slice must not be modified.
func (n Node) Digest() []byte { return n.digest }

// IsZero is true for the zero Node, which marks an empty slot.
func (n Node) IsZero() bool { return n.digest == nil }

func leafNode(hasher TreeHasher, index uint64) Node {
	return Node{height: 0, digest: hasher.HashLeaf(index)}
}

// parentNode combines a left and right sibling. Callers guarantee the
// heights are equal.
func parentNode(hasher TreeHasher, left, right Node) Node {
	return Node{height: left.height + 1, digest: hasher.HashChildren(left.digest, right.digest)}
}
