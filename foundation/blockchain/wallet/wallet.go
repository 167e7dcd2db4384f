// Package wallet manages the key pair and address a participant uses to
// sign transactions for the ledger.
package wallet

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck
)

// addressVersion is the network byte prepended to an address payload.
const addressVersion = 0x00

// Wallet holds a private key and the values derived from it.
type Wallet struct {
	privateKey   *ecdsa.PrivateKey
	publicKeyHex string
	address      string
}

// New generates a wallet with a fresh key pair.
func New() (*Wallet, error) {
	privateKey, err := signature.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	return fromPrivateKey(privateKey)
}

// FromHex constructs a wallet from the hex encoded private key scalar.
func FromHex(privateKeyHex string) (*Wallet, error) {
	privateKey, err := signature.HexToPrivateKey(strings.TrimSpace(privateKeyHex))
	if err != nil {
		return nil, err
	}

	return fromPrivateKey(privateKey)
}

// Load reads a hex encoded private key from the file.
func Load(path string) (*Wallet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	return FromHex(string(content))
}

// Save writes the hex encoded private key to the file.
func (w *Wallet) Save(path string) error {
	privateKeyHex, err := w.PrivateKeyHex()
	if err != nil {
		return err
	}

	return os.WriteFile(path, []byte(privateKeyHex), 0600)
}

func fromPrivateKey(privateKey *ecdsa.PrivateKey) (*Wallet, error) {
	publicKeyHex, err := signature.PublicKeyToHex(&privateKey.PublicKey)
	if err != nil {
		return nil, err
	}

	address, err := DeriveAddress(publicKeyHex)
	if err != nil {
		return nil, err
	}

	w := Wallet{
		privateKey:   privateKey,
		publicKeyHex: publicKeyHex,
		address:      address,
	}

	return &w, nil
}

// =============================================================================

// PrivateKeyHex returns the hex of the private key scalar.
func (w *Wallet) PrivateKeyHex() (string, error) {
	return signature.PrivateKeyToHex(w.privateKey)
}

// PublicKeyHex returns the hex of the [X|Y] public key.
func (w *Wallet) PublicKeyHex() string {
	return w.publicKeyHex
}

// Address returns the blockchain address for the wallet.
func (w *Wallet) Address() string {
	return w.address
}

// SignTx constructs and signs a transaction from this wallet to the
// recipient.
func (w *Wallet) SignTx(recipient string, value float64) (database.SignedTx, error) {
	if recipient == "" {
		return database.SignedTx{}, errors.New("recipient is required")
	}

	tx := database.NewTx(w.address, recipient, value)

	sign := func(value any) (string, error) {
		return signature.Sign(value, w.privateKey)
	}

	return tx.Sign(w.publicKeyHex, sign)
}

// =============================================================================

// DeriveAddress produces the Base58Check address for a hex encoded public
// key: RIPEMD-160 over SHA-256 of the raw key bytes.
func DeriveAddress(publicKeyHex string) (string, error) {
	publicKey, err := signature.HexToPublicKey(publicKeyHex)
	if err != nil {
		return "", err
	}

	raw, err := publicKey.Bytes()
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(raw[1:])

	h := ripemd160.New()
	h.Write(sum[:])

	return base58.CheckEncode(h.Sum(nil), addressVersion), nil
}
