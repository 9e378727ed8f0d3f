package gossip

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/ikuhiroo/pyblockchain/chain"
)

type chainResponse struct {
	Chain  []*chain.Block `json:"chain"`
	Length int            `json:"length"`
}

// ResolveConflicts implements spec.md's resolve_conflicts: it GETs /chain
// from every known peer, tracks the longest candidate that is strictly
// longer than local and passes chain.ValidChain, and returns it. It returns
// (nil, false) when no peer offered a strictly longer valid chain — ties
// retain the local chain, decided by the caller via chain.Ledger.ReplaceChain.
func (c *Client) ResolveConflicts(localLength int) (chain.Chain, bool) {
	var longest chain.Chain
	for _, address := range c.peers.Snapshot() {
		candidate, ok := c.fetchChain(address)
		if !ok {
			continue
		}
		if len(candidate) <= localLength {
			continue
		}
		if len(candidate) <= len(longest) {
			continue
		}
		if !chain.ValidChain(candidate) {
			logger.Warn("discarding invalid candidate chain from peer", "peer", address, "length", len(candidate))
			continue
		}
		longest = candidate
	}
	if longest == nil {
		return nil, false
	}
	return longest, true
}

func (c *Client) fetchChain(address string) (chain.Chain, bool) {
	url := c.scheme + "://" + address + "/chain"
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		logger.Warn("failed to build chain request", "peer", address, "error", errors.Wrap(err, "build GET /chain"))
		return nil, false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("chain fetch failed", "peer", address, "error", errors.Wrap(err, "GET /chain"))
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Debug("chain fetch returned non-200", "peer", address, "status", resp.StatusCode)
		return nil, false
	}

	var decoded chainResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		logger.Warn("failed to decode peer chain response", "peer", address, "error", errors.Wrap(err, "decode chain response"))
		return nil, false
	}
	return chain.Chain(decoded.Chain), true
}
