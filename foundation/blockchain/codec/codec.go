// Package codec provides the canonical serialization and hashing used for
// blocks and transactions. Every node must produce the same bytes for the
// same logical value so block hashes agree across the network.
package codec

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Canonicalize serializes the value as JSON with the keys of every object,
// at every depth, sorted lexicographically. Numbers keep the literal form
// produced by the first encoding pass so a value read back from the wire
// canonicalizes to the same bytes.
func Canonicalize(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	// Round trip through a generic value. Maps are marshaled in sorted
	// key order which gives us the canonical form for structs as well.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}

	return json.Marshal(generic)
}

// Hash returns the lowercase hex SHA-256 of the canonical form of the value.
// It panics if the value can't be encoded as JSON. Blocks and transactions
// always encode, so a failure here is a programming error. Use Digest to get
// the error back instead.
func Hash(value any) string {
	data, err := Canonicalize(value)
	if err != nil {
		panic(fmt.Sprintf("codec: hash: %s", err))
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Digest returns the raw SHA-256 of the canonical form of the value.
func Digest(value any) ([]byte, error) {
	data, err := Canonicalize(value)
	if err != nil {
		return nil, err
	}

	hash := sha256.Sum256(data)
	return hash[:], nil
}
