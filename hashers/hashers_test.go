package hashers

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		id      string
		size    int
		wantErr bool
	}{
		{SHA256, 32, false},
		{SHA3_256, 32, false},
		{BLAKE3, 32, false},
		{"MD5", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			newHash, err := Lookup(tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownAlgorithm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.size, newHash().Size())

			hasher, err := New(tt.id, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.id, hasher.ID())
			assert.Equal(t, tt.size, hasher.Size())
			assert.Len(t, hasher.HashLeaf(0), tt.size)
		})
	}

	_, err := New("MD5", nil)
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestRegisterDuplicate(t *testing.T) {
	assert.Panics(t, func() { Register(SHA256, sha256.New) })
}

func TestTreeHasherLeaf(t *testing.T) {
	hasher, err := New(SHA256, []byte("seed"))
	require.NoError(t, err)

	// 0x00 || seed || layer || tree || index
	h := sha256.New()
	h.Write([]byte{0x00})
	h.Write([]byte("seed"))
	HashWriteUint32(h, 0)
	HashWriteUint64(h, 0)
	HashWriteUint64(h, 7)
	assert.Equal(t, h.Sum(nil), hasher.HashLeaf(7))

	// 0x01 || seed || layer || tree || left || right
	h.Reset()
	h.Write([]byte{0x01})
	h.Write([]byte("seed"))
	HashWriteUint32(h, 0)
	HashWriteUint64(h, 0)
	h.Write([]byte("left"))
	h.Write([]byte("right"))
	assert.Equal(t, h.Sum(nil), hasher.HashChildren([]byte("left"), []byte("right")))
}

func TestTreeHasherDeterministic(t *testing.T) {
	a, err := New(BLAKE3, []byte("seed"))
	require.NoError(t, err)
	b, err := New(BLAKE3, []byte("seed"))
	require.NoError(t, err)

	for i := uint64(0); i < 8; i++ {
		assert.Equal(t, a.HashLeaf(i), b.HashLeaf(i))
		assert.Equal(t, a.HashLeaf(i), a.HashLeaf(i))
	}
	left, right := a.HashLeaf(0), a.HashLeaf(1)
	assert.Equal(t, a.HashChildren(left, right), b.HashChildren(left, right))
}

func TestTreeHasherDomainSeparation(t *testing.T) {
	base, err := New(SHA3_256, []byte("seed"))
	require.NoError(t, err)
	other, err := New(SHA3_256, []byte("other seed"))
	require.NoError(t, err)

	leaf := base.HashLeaf(1)
	assert.NotEqual(t, leaf, base.HashLeaf(2))
	assert.NotEqual(t, leaf, other.HashLeaf(1))
	assert.NotEqual(t, leaf, base.ForSubtree(0, 1).HashLeaf(1))
	assert.NotEqual(t, leaf, base.ForSubtree(1, 0).HashLeaf(1))
	assert.Equal(t, leaf, base.ForSubtree(0, 0).HashLeaf(1))

	// a leaf and an interior node never collide on the same input bytes
	var index [8]byte
	index[7] = 1
	assert.NotEqual(t, leaf, base.HashChildren(index[:4], index[4:]))

	// ordering of children matters
	l, r := base.HashLeaf(0), base.HashLeaf(1)
	assert.NotEqual(t, base.HashChildren(l, r), base.HashChildren(r, l))

	sub := base.ForSubtree(2, 9)
	assert.Equal(t, SHA3_256, sub.ID())
	assert.Equal(t, base.Size(), sub.Size())
}

func TestNewCopiesSeed(t *testing.T) {
	seed := []byte("seed")
	hasher, err := New(SHA256, seed)
	require.NoError(t, err)
	before := hasher.HashLeaf(0)

	seed[0] = 'x'
	assert.Equal(t, before, hasher.HashLeaf(0))
}

func TestCounting(t *testing.T) {
	inner, err := New(SHA256, nil)
	require.NoError(t, err)
	c := NewCounting(inner)

	l := c.HashLeaf(0)
	r := c.HashLeaf(1)
	p := c.HashChildren(l, r)
	assert.Equal(t, inner.HashChildren(inner.HashLeaf(0), inner.HashLeaf(1)), p)
	assert.Equal(t, 2, c.Leaves())
	assert.Equal(t, 1, c.Children())
	assert.Equal(t, 3, c.Total())

	c.Reset()
	assert.Equal(t, 0, c.Total())
}
