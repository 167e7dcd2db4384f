// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"net/http"

	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Status returns a summary of this node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveStatus(), http.StatusOK)
}

// Chain returns the full local chain for fork choice.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Chain []database.Block `json:"chain"`
	}{
		Chain: h.State.RetrieveChain(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitNodeTransaction adds a transaction shared by a neighbour to the
// pool. It is not shared again.
func (h Handlers) SubmitNodeTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var signedTx database.SignedTx
	if err := web.Decode(r, &signedTx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(signedTx); err != nil {
		return err
	}

	h.Log.Infow("add node tran", "traceid", web.GetTraceID(ctx), "sender", signedTx.Sender, "recipient", signedTx.Recipient, "value", signedTx.Value)

	if err := h.State.SubmitNodeTransaction(signedTx); err != nil {
		return errs.Classify(err, http.StatusBadRequest, state.IsRejection)
	}

	resp := struct {
		Message string `json:"message"`
	}{
		Message: "success",
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// ClearMempool empties the pool after a neighbour produced a block.
func (h Handlers) ClearMempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.State.ClearPool()

	return web.Respond(ctx, w, nil, http.StatusNoContent)
}

// Consensus runs fork choice when a neighbour asks for it.
func (h Handlers) Consensus(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Replaced bool `json:"replaced"`
	}{
		Replaced: h.State.Resolve(ctx),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
