// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/worker"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of wallet facing ledger endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	State  *state.State
	Worker *worker.Worker
	WS     websocket.Upgrader
	Evts   *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	id, ch := h.Evts.Acquire()
	defer h.Evts.Release(id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Chain returns the full local chain.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, chain{Chain: h.State.RetrieveChain()}, http.StatusOK)
}

// Mempool returns the set of pending transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	trans := h.State.RetrieveMempool()

	resp := mempool{
		Transactions: trans,
		Length:       len(trans),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitWalletTransaction adds a new wallet transaction to the pool and
// shares it with the neighbours.
func (h Handlers) SubmitWalletTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var signedTx database.SignedTx
	if err := web.Decode(r, &signedTx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(signedTx); err != nil {
		return err
	}

	h.Log.Infow("add wallet tran", "traceid", web.GetTraceID(ctx), "sender", signedTx.Sender, "recipient", signedTx.Recipient, "value", signedTx.Value)

	if err := h.State.SubmitWalletTransaction(signedTx); err != nil {
		return errs.Classify(err, http.StatusBadRequest, state.IsRejection)
	}

	return web.Respond(ctx, w, message{Message: "success"}, http.StatusCreated)
}

// ClearMempool empties the pool.
func (h Handlers) ClearMempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.State.ClearPool()

	return web.Respond(ctx, w, message{Message: "success"}, http.StatusOK)
}

// Mine runs one mining cycle and returns the new block.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.Worker.MineOnce()
	if err != nil {
		return errs.Classify(err, http.StatusConflict, isMiningConflict)
	}

	return web.Respond(ctx, w, mined{Message: "success", Block: block}, http.StatusOK)
}

// StartMining enables periodic mining.
func (h Handlers) StartMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.Worker.StartMining()

	return web.Respond(ctx, w, message{Message: "success"}, http.StatusOK)
}

// StopMining disables periodic mining.
func (h Handlers) StopMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.Worker.StopMining()

	return web.Respond(ctx, w, message{Message: "success"}, http.StatusOK)
}

// Consensus runs fork choice against the neighbours.
func (h Handlers) Consensus(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced := h.State.Resolve(ctx)

	return web.Respond(ctx, w, consensus{Replaced: replaced}, http.StatusOK)
}

// Amount returns the confirmed balance for an address.
func (h Handlers) Amount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Query(r, "blockchain_address")
	if address == "" {
		return errs.NewTrusted(errors.New("blockchain_address is required"), http.StatusBadRequest)
	}

	return web.Respond(ctx, w, amount{Amount: h.State.QueryBalance(address)}, http.StatusOK)
}

// isMiningConflict reports whether the mining run lost to another run or to
// a chain replacement.
func isMiningConflict(err error) bool {
	return errors.Is(err, worker.ErrMiningInProgress) || errors.Is(err, state.ErrStaleChainTip)
}
