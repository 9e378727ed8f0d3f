// Package miner implements the proof-of-work search a node runs against its
// own pending-transaction pool, sealing a coinbase-credited block onto the
// ledger it owns (spec.md §4.4).
package miner

import (
	"time"

	"github.com/ikuhiroo/pyblockchain/chain"
	"github.com/ikuhiroo/pyblockchain/internal/log"
)

var logger = log.NewModuleLogger(log.ModuleMiner)

// Miner seals blocks onto a single Ledger, crediting selfAddress the mining
// reward. It holds no other state; single-flight scheduling lives in the
// scheduler package, not here (spec.md I6).
type Miner struct {
	ledger      *chain.Ledger
	selfAddress string
}

// New returns a Miner that seals blocks onto ledger, crediting selfAddress.
func New(ledger *chain.Ledger, selfAddress string) *Miner {
	return &Miner{ledger: ledger, selfAddress: selfAddress}
}

// MineOnce runs one proof-of-work search and appends the sealed block to the
// ledger, clearing the pool (I5). now is injected so tests can pin the
// sealed timestamp; production callers pass time.Now.
//
// The pool snapshot, nonce search, and append all run inside one
// Ledger.MineBlock call: MineBlock takes the snapshot and does the append,
// the closure handed to it adds the coinbase and searches for the nonce,
// and the ledger's one lock is held for the whole call (spec.md §5) — a transaction accepted concurrently via
// AddTransaction is serialized either before the snapshot (and so sealed
// into this block) or after the append (and so left pending for the next
// one), never lost in between.
//
// spec.md's Open Question 1 is resolved in favor of always mining, even when
// the pool is empty, producing a coinbase-only block: the networked revision
// this spec distills never skips a scheduled mining tick (see DESIGN.md).
func (m *Miner) MineOnce(now func() time.Time) (*chain.Block, bool) {
	block := m.ledger.MineBlock(func(pending []*chain.Transaction, previousHash string) *chain.Block {
		candidate := append(append([]*chain.Transaction(nil), pending...),
			chain.NewTransaction(chain.MiningSender, m.selfAddress, chain.MiningReward))
		nonce := findNonce(candidate, previousHash)
		return &chain.Block{
			Timestamp:    float64(now().UnixNano()) / 1e9,
			Transactions: candidate,
			Nonce:        nonce,
			PreviousHash: previousHash,
		}
	})
	logger.Info("mined block", "nonce", block.Nonce, "transactions", len(block.Transactions), "previous_hash", block.PreviousHash)
	return block, true
}

func findNonce(txs []*chain.Transaction, previousHash string) int64 {
	var nonce int64
	for !chain.ValidProof(txs, nonce, previousHash) {
		nonce++
	}
	return nonce
}
