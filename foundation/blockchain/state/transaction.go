package state

import (
	"errors"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Set of errors returned when a transaction is refused admission.
var (
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidValue        = errors.New("value must not be negative")
	ErrReservedSender      = errors.New("sender is reserved for mining rewards")
)

// IsRejection reports whether the error is a refused admission.
func IsRejection(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidSignature),
		errors.Is(err, ErrInsufficientBalance),
		errors.Is(err, ErrInvalidValue),
		errors.Is(err, ErrReservedSender):
		return true
	}
	return false
}

// =============================================================================

// AddTransaction validates the transaction and appends it to the pool.
// Transactions from the mining sender are admitted unconditionally. Any
// other transaction needs a valid signature and a sender whose confirmed
// balance covers the value. Pending pool transactions are not counted.
func (s *State) AddTransaction(tx database.SignedTx) error {
	if tx.Sender == s.genesis.MiningSender {
		s.mu.Lock()
		n := s.mempool.Append(tx.Tx)
		s.mu.Unlock()

		s.evHandler("state: AddTransaction: reward: tx[%s] pool[%d]", tx.Tx, n)
		s.metrics.txAdmitted.Inc()
		return nil
	}

	if tx.Value < 0 {
		s.metrics.txRejected.WithLabelValues("value").Inc()
		return ErrInvalidValue
	}

	if !tx.VerifySignature() {
		s.metrics.txRejected.WithLabelValues("signature").Inc()
		return ErrInvalidSignature
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if balance := s.balance(tx.Sender); balance < tx.Value {
		s.evHandler("state: AddTransaction: refused: tx[%s] balance[%g]", tx.Tx, balance)
		s.metrics.txRejected.WithLabelValues("balance").Inc()
		return ErrInsufficientBalance
	}

	n := s.mempool.Append(tx.Tx)

	s.evHandler("viewer: transaction: admitted: tx[%s] pool[%d]", tx.Tx, n)
	s.metrics.txAdmitted.Inc()

	return nil
}

// SubmitWalletTransaction accepts a transaction from a wallet for inclusion
// and shares it with the neighbours.
func (s *State) SubmitWalletTransaction(tx database.SignedTx) error {
	if tx.Sender == s.genesis.MiningSender {
		return ErrReservedSender
	}

	if err := s.AddTransaction(tx); err != nil {
		return err
	}

	s.Worker.SignalShareTx(tx)

	return nil
}

// SubmitNodeTransaction accepts a transaction shared by a neighbour.
func (s *State) SubmitNodeTransaction(tx database.SignedTx) error {
	if tx.Sender == s.genesis.MiningSender {
		return ErrReservedSender
	}

	return s.AddTransaction(tx)
}

// ClearPool empties the transaction pool.
func (s *State) ClearPool() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mempool.Truncate()

	s.evHandler("state: ClearPool: pool emptied")
}
