// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/go-resty/resty/v2"
)

// ErrHelp is returned when the tool is run without a known command.
var ErrHelp = errors.New("provided help")

// Node fetches state from a running node's public API.
type Node struct {
	url    string
	client *resty.Client
}

// NewNode constructs a client for the node at the specified url.
func NewNode(url string, timeout time.Duration) *Node {
	return &Node{
		url:    url,
		client: resty.New().SetTimeout(timeout),
	}
}

// Chain returns the node's copy of the chain.
func (n *Node) Chain() ([]database.Block, error) {
	var resp struct {
		Chain []database.Block `json:"chain"`
	}

	r, err := n.client.R().
		SetResult(&resp).
		ForceContentType("application/json").
		Get(n.url + "/v1/chain")
	if err != nil {
		return nil, err
	}

	if r.IsError() {
		return nil, fmt.Errorf("node responded: %s", r.Status())
	}

	return resp.Chain, nil
}
