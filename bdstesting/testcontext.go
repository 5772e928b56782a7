package bdstesting

import (
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/joostrijneveld/merkletreetraversal/authpath"
	"github.com/joostrijneveld/merkletreetraversal/hashers"
	"github.com/stretchr/testify/require"
)

type TestContext struct {
	Log    logger.Logger
	Hasher *hashers.TreeHasher
	T      *testing.T
}

type TestConfig struct {
	TestLabelPrefix string
	// Algorithm is a registered hashers id, defaults to SHA-256
	Algorithm string
	// Seed is mixed into every hash. It defaults to the label so that
	// different tests work with different trees.
	Seed []byte
}

func NewTestContext(t *testing.T, cfg TestConfig) TestContext {
	c := TestContext{
		T: t,
	}
	logger.New("TEST")
	c.Log = logger.Sugar.WithServiceName(cfg.TestLabelPrefix)

	algorithm := cfg.Algorithm
	if algorithm == "" {
		algorithm = hashers.SHA256
	}
	seed := cfg.Seed
	if seed == nil {
		seed = []byte(cfg.TestLabelPrefix)
	}

	var err error
	c.Hasher, err = hashers.New(algorithm, seed)
	require.NoError(t, err)
	return c
}

func (c *TestContext) GetLog() logger.Logger { return c.Log }

// SubtreeHasher returns the context hasher tweaked for a forest subtree
func (c *TestContext) SubtreeHasher(layer uint32, tree uint64) *hashers.TreeHasher {
	return c.Hasher.ForSubtree(layer, tree)
}

// RequirePath fails the test unless path authenticates leaf against root
func RequirePath(t *testing.T, hasher authpath.Hasher, leaf uint64, path [][]byte, root []byte) {
	t.Helper()
	require.NoError(t, authpath.VerifyPath(hasher, leaf, path, root), "leaf %d", leaf)
}
