package database

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Tx is the transactional information between two parties. Two transactions
// with the same fields are the same transaction.
type Tx struct {
	Sender    string  `json:"sender_blockchain_address" validate:"required"`
	Recipient string  `json:"recipient_blockchain_address" validate:"required"`
	Value     float64 `json:"value" validate:"gte=0"`
}

// NewTx constructs a new transaction.
func NewTx(sender string, recipient string, value float64) Tx {
	return Tx{
		Sender:    sender,
		Recipient: recipient,
		Value:     value,
	}
}

// Sign uses the specified wallet signer to produce a signed transaction.
func (tx Tx) Sign(publicKeyHex string, sign func(value any) (string, error)) (SignedTx, error) {
	sig, err := sign(tx)
	if err != nil {
		return SignedTx{}, err
	}

	signedTx := SignedTx{
		Tx:        tx,
		PublicKey: publicKeyHex,
		Signature: sig,
	}

	return signedTx, nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%g", tx.Sender, tx.Recipient, tx.Value)
}

// =============================================================================

// SignedTx is a signed version of the transaction. This is how clients like
// a wallet provide transactions for inclusion into the blockchain.
type SignedTx struct {
	Tx
	PublicKey string `json:"sender_public_key" validate:"required,hexadecimal,len=128"`
	Signature string `json:"signature" validate:"required,hexadecimal,len=128"`
}

// VerifySignature reports whether the signature over the transaction was
// produced by the holder of the public key.
func (tx SignedTx) VerifySignature() bool {
	return signature.Verify(tx.PublicKey, tx.Signature, tx.Tx)
}
