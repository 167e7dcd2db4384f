// Package signature provides helper functions for handling the blockchain
// signature needs. Keys live on the NIST P-256 curve and signatures are
// ECDSA over the SHA-256 digest of the value's canonical form.
package signature

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/ardanlabs/ledger/foundation/blockchain/codec"
)

// Byte lengths of the raw encodings exchanged with wallets.
const (
	PrivateKeyLength = 32
	PublicKeyLength  = 64
	SignatureLength  = 64
)

// =============================================================================

// GenerateKey produces a new private key on the P-256 curve.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
}

// Sign uses the specified private key to sign the value. The signature is
// returned as hex of the 64 byte [R|S] form.
func Sign(value any, privateKey *ecdsa.PrivateKey) (string, error) {
	digest, err := codec.Digest(value)
	if err != nil {
		return "", err
	}

	r, s, err := ecdsa.Sign(rand.Reader, privateKey, digest)
	if err != nil {
		return "", err
	}

	sig := make([]byte, SignatureLength)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])

	return hex.EncodeToString(sig), nil
}

// Verify reports whether the signature was produced over the value by the
// holder of the public key. Any malformed input is reported as false.
func Verify(publicKeyHex string, signatureHex string, value any) bool {
	publicKey, err := HexToPublicKey(publicKeyHex)
	if err != nil {
		return false
	}

	sig, err := hex.DecodeString(signatureHex)
	if err != nil || len(sig) != SignatureLength {
		return false
	}

	digest, err := codec.Digest(value)
	if err != nil {
		return false
	}

	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])

	return ecdsa.Verify(publicKey, digest, r, s)
}

// =============================================================================

// PublicKeyToHex returns the hex of the 64 byte [X|Y] form of the key.
func PublicKeyToHex(publicKey *ecdsa.PublicKey) (string, error) {
	b, err := publicKey.Bytes()
	if err != nil {
		return "", err
	}

	// Drop the 0x04 uncompressed point prefix.
	return hex.EncodeToString(b[1:]), nil
}

// HexToPublicKey parses the hex of the 64 byte [X|Y] form of a P-256 key.
func HexToPublicKey(publicKeyHex string) (*ecdsa.PublicKey, error) {
	raw, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decoding public key: %w", err)
	}

	if len(raw) != PublicKeyLength {
		return nil, fmt.Errorf("public key length %d, exp %d", len(raw), PublicKeyLength)
	}

	return ecdsa.ParseUncompressedPublicKey(elliptic.P256(), append([]byte{0x04}, raw...))
}

// PrivateKeyToHex returns the hex of the 32 byte scalar.
func PrivateKeyToHex(privateKey *ecdsa.PrivateKey) (string, error) {
	b, err := privateKey.Bytes()
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// HexToPrivateKey parses the hex of a 32 byte P-256 scalar.
func HexToPrivateKey(privateKeyHex string) (*ecdsa.PrivateKey, error) {
	raw, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decoding private key: %w", err)
	}

	if len(raw) != PrivateKeyLength {
		return nil, errors.New("invalid private key length")
	}

	return ecdsa.ParseRawPrivateKey(elliptic.P256(), raw)
}
