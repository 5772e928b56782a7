package hashers

import (
	"crypto/sha256"
	"fmt"
	"hash"

	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

const (
	// SHA256 is the default algorithm
	SHA256   = "SHA-256"
	SHA3_256 = "SHA3-256"
	BLAKE3   = "BLAKE3-256"
)

var algorithms = make(map[string]func() hash.Hash)

func init() {
	Register(SHA256, sha256.New)
	Register(SHA3_256, sha3.New256)
	Register(BLAKE3, func() hash.Hash { return blake3.New(32, nil) })
}

// Register makes a hash constructor available under id. It panics if id is
// already registered, so it is meant to be called from init.
func Register(id string, newHash func() hash.Hash) {
	if _, ok := algorithms[id]; ok {
		panic(fmt.Sprintf("Register(%v) is already registered", id))
	}
	algorithms[id] = newHash
}

// Lookup returns the hash constructor registered under id
func Lookup(id string) (func() hash.Hash, error) {
	if f, ok := algorithms[id]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownAlgorithm, id)
}
