package hashers

// Hasher is the leaf and interior node hash pair counted by Counting. It is
// satisfied by bds.TreeHasher implementations.
type Hasher interface {
	HashLeaf(index uint64) []byte
	HashChildren(left, right []byte) []byte
}

// Counting wraps a Hasher and counts the calls made to it, so that the cost
// of an operation can be measured in hash evaluations.
type Counting struct {
	inner    Hasher
	leaves   int
	children int
}

func NewCounting(inner Hasher) *Counting {
	return &Counting{inner: inner}
}

func (c *Counting) HashLeaf(index uint64) []byte {
	c.leaves++
	return c.inner.HashLeaf(index)
}

func (c *Counting) HashChildren(left, right []byte) []byte {
	c.children++
	return c.inner.HashChildren(left, right)
}

// Leaves returns the number of HashLeaf calls since the last Reset
func (c *Counting) Leaves() int { return c.leaves }

// Children returns the number of HashChildren calls since the last Reset
func (c *Counting) Children() int { return c.children }

// Total returns the number of hash evaluations since the last Reset
func (c *Counting) Total() int { return c.leaves + c.children }

func (c *Counting) Reset() {
	c.leaves = 0
	c.children = 0
}
