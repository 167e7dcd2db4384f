package state

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

const baseURL = "http://%s/v1/node"

// NetRequestPeerChain asks the neighbour for its full chain.
func (s *State) NetRequestPeerChain(ctx context.Context, pr peer.Peer) ([]database.Block, error) {
	s.evHandler("state: NetRequestPeerChain: started: %s", pr)
	defer s.evHandler("state: NetRequestPeerChain: completed: %s", pr)

	url := fmt.Sprintf("%s/chain", fmt.Sprintf(baseURL, pr.Host))

	var resp struct {
		Chain []database.Block `json:"chain"`
	}
	if err := s.send(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}

	s.evHandler("state: NetRequestPeerChain: peer[%s]: length[%d]", pr, len(resp.Chain))

	return resp.Chain, nil
}

// NetSendTxToPeers shares a transaction with the neighbours.
func (s *State) NetSendTxToPeers(ctx context.Context, tx database.SignedTx) {
	s.evHandler("state: NetSendTxToPeers: started")
	defer s.evHandler("state: NetSendTxToPeers: completed")

	for _, pr := range s.RetrieveKnownPeers() {
		url := fmt.Sprintf("%s/transactions", fmt.Sprintf(baseURL, pr.Host))
		if err := s.send(ctx, http.MethodPut, url, tx, nil); err != nil {
			s.evHandler("state: NetSendTxToPeers: peer[%s]: WARNING: %s", pr, err)
		}
	}
}

// NetSendClearPoolToPeers asks the neighbours to empty their pools after
// this node produced a block.
func (s *State) NetSendClearPoolToPeers(ctx context.Context) {
	s.evHandler("state: NetSendClearPoolToPeers: started")
	defer s.evHandler("state: NetSendClearPoolToPeers: completed")

	for _, pr := range s.RetrieveKnownPeers() {
		url := fmt.Sprintf("%s/transactions", fmt.Sprintf(baseURL, pr.Host))
		if err := s.send(ctx, http.MethodDelete, url, nil, nil); err != nil {
			s.evHandler("state: NetSendClearPoolToPeers: peer[%s]: WARNING: %s", pr, err)
		}
	}
}

// NetSendConsensusToPeers asks the neighbours to run fork choice.
func (s *State) NetSendConsensusToPeers(ctx context.Context) {
	s.evHandler("state: NetSendConsensusToPeers: started")
	defer s.evHandler("state: NetSendConsensusToPeers: completed")

	for _, pr := range s.RetrieveKnownPeers() {
		url := fmt.Sprintf("%s/consensus", fmt.Sprintf(baseURL, pr.Host))
		if err := s.send(ctx, http.MethodPut, url, nil, nil); err != nil {
			s.evHandler("state: NetSendConsensusToPeers: peer[%s]: WARNING: %s", pr, err)
		}
	}
}

// =============================================================================

// send is a helper function to send an HTTP request to a node.
func (s *State) send(ctx context.Context, method string, url string, dataSend any, dataRecv any) error {
	req := s.client.R().SetContext(ctx)

	if dataSend != nil {
		req = req.SetHeader("Content-Type", "application/json").SetBody(dataSend)
	}

	if dataRecv != nil {
		req = req.SetResult(dataRecv).ForceContentType("application/json")
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return err
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	}

	return fmt.Errorf("%s %s: status[%d]: %s", method, url, resp.StatusCode(), resp.String())
}
