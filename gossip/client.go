// Package gossip fans outbound transaction, block-append, and
// consensus-trigger notifications out to every known peer, and implements
// resolve_conflicts longest-chain consensus against their advertised chains
// (spec.md §4.6).
package gossip

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/ikuhiroo/pyblockchain/chain"
	"github.com/ikuhiroo/pyblockchain/internal/log"
)

var logger = log.NewModuleLogger(log.ModuleGossip)

const peerRequestTimeout = 5 * time.Second

// PeerSource supplies the current peer snapshot; satisfied by *peers.Set.
type PeerSource interface {
	Snapshot() []string
}

// Client issues the peer-to-peer HTTP calls spec.md §4.6 names: transaction
// gossip, block-append DELETE, and the consensus trigger. It is also where
// resolve_conflicts runs, pulling /chain from every peer.
type Client struct {
	peers  PeerSource
	scheme string
	http   *http.Client
}

// New returns a Client that fans requests out to peers over scheme (for
// example "http").
func New(peers PeerSource, scheme string) *Client {
	return &Client{
		peers:  peers,
		scheme: scheme,
		http:   &http.Client{Timeout: peerRequestTimeout},
	}
}

type transactionPayload struct {
	Sender    string  `json:"sender_blockchain_address"`
	Recipient string  `json:"recipient_blockchain_address"`
	Value     float64 `json:"value"`
	PublicKey string  `json:"sender_public_key"`
	Signature string  `json:"signature"`
}

// BroadcastTransaction implements chain.Broadcaster: a PUT of the full
// transaction payload to every peer's /transactions endpoint. Unreachable
// peers are logged and ignored; there is no retry (spec.md §4.6).
func (c *Client) BroadcastTransaction(tx *chain.Transaction, publicKeyHex, signatureHex string) {
	body, err := json.Marshal(transactionPayload{
		Sender:    tx.Sender,
		Recipient: tx.Recipient,
		Value:     tx.Value,
		PublicKey: publicKeyHex,
		Signature: signatureHex,
	})
	if err != nil {
		logger.Error("failed to encode transaction gossip payload", "error", err)
		return
	}
	c.fanOut(http.MethodPut, "/transactions", body)
}

// NotifyBlockAppended issues a DELETE to every peer's /transactions,
// hinting that a block was produced locally so peers clear their pools
// (spec.md §4.6 "Block-gossip DELETE").
func (c *Client) NotifyBlockAppended() {
	c.fanOut(http.MethodDelete, "/transactions", nil)
}

// TriggerConsensus issues a PUT to every peer's /consensus endpoint,
// prompting each recipient to run its own resolve_conflicts (spec.md §4.6
// "Consensus trigger").
func (c *Client) TriggerConsensus() {
	c.fanOut(http.MethodPut, "/consensus", nil)
}

func (c *Client) fanOut(method, path string, body []byte) {
	requestID := uuid.NewV4().String()
	for _, address := range c.peers.Snapshot() {
		go c.send(requestID, method, address, path, body)
	}
}

func (c *Client) send(requestID, method, address, path string, body []byte) {
	url := c.scheme + "://" + address + path
	req, err := http.NewRequestWithContext(context.Background(), method, url, bytes.NewReader(body))
	if err != nil {
		err = errors.Wrapf(err, "build %s %s", method, url)
		logger.Warn("failed to build peer request", "request_id", requestID, "peer", address, "error", err)
		return
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		err = errors.Wrapf(err, "%s %s", method, url)
		logger.Debug("peer request failed", "request_id", requestID, "peer", address, "path", path, "error", err)
		return
	}
	resp.Body.Close()
	logger.Debug("peer request completed", "request_id", requestID, "peer", address, "path", path, "status", resp.StatusCode)
}
