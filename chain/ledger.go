package chain

import (
	"sync"

	"github.com/ikuhiroo/pyblockchain/crypto"
	"github.com/ikuhiroo/pyblockchain/internal/log"
)

var logger = log.NewModuleLogger(log.ModuleChain)

// SolvencyPolicy controls whether AddTransaction rejects a transaction whose
// sender's running balance is less than the transferred value. spec.md Open
// Question 2 treats this as a configurable policy; the networked revision of
// the source ships with it disabled, so SolvencyIgnored is the default (see
// DESIGN.md).
type SolvencyPolicy bool

const (
	SolvencyEnforced SolvencyPolicy = true
	SolvencyIgnored  SolvencyPolicy = false
)

// Broadcaster propagates an accepted transaction to a node's peers.
// chain.Ledger depends only on this interface, not on the gossip package,
// keeping the dependency order leaves-first as spec.md §2 lays out.
type Broadcaster interface {
	BroadcastTransaction(tx *Transaction, publicKeyHex, signatureHex string)
}

// Ledger exclusively owns the chain and the pending-transaction pool
// (spec.md §3 "Ownership"). Every read and compound mutation is serialized
// behind mu; fine-grained locking is not required (spec.md §5).
type Ledger struct {
	mu       sync.Mutex
	chain    Chain
	pool     []*Transaction
	solvency SolvencyPolicy
}

// NewLedger returns a Ledger seeded with the genesis block.
func NewLedger(solvency SolvencyPolicy) *Ledger {
	return &Ledger{
		chain:    Chain{NewGenesisBlock()},
		solvency: solvency,
	}
}

// AddTransaction validates and appends a transaction to the pool without
// gossiping it. A coinbase transaction (sender == MiningSender) bypasses
// signature verification (I4); everything else must carry a valid
// signature over {sender, recipient, value}. It returns false, never an
// error, on rejection (spec.md §7).
func (l *Ledger) AddTransaction(sender, recipient string, value float64, publicKeyHex, signatureHex string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.addTransactionLocked(sender, recipient, value, publicKeyHex, signatureHex)
}

func (l *Ledger) addTransactionLocked(sender, recipient string, value float64, publicKeyHex, signatureHex string) bool {
	tx := NewTransaction(sender, recipient, value)
	if !tx.IsCoinbase() {
		if !crypto.Verify(sender, recipient, value, publicKeyHex, signatureHex) {
			logger.Warn("rejected transaction: invalid signature", "sender", sender, "recipient", recipient)
			return false
		}
		if l.solvency == SolvencyEnforced && l.balanceLocked(sender) < value {
			logger.Warn("rejected transaction: insolvent sender", "sender", sender, "value", value)
			return false
		}
	}
	l.pool = append(l.pool, tx)
	return true
}

// CreateTransaction behaves like AddTransaction and, on success, hands the
// transaction to b for gossip to every known peer (spec.md §4.6). b may be
// nil, in which case the transaction is accepted but not propagated.
func (l *Ledger) CreateTransaction(sender, recipient string, value float64, publicKeyHex, signatureHex string, b Broadcaster) bool {
	l.mu.Lock()
	ok := l.addTransactionLocked(sender, recipient, value, publicKeyHex, signatureHex)
	l.mu.Unlock()

	if ok && b != nil {
		b.BroadcastTransaction(NewTransaction(sender, recipient, value), publicKeyHex, signatureHex)
	}
	return ok
}

// Pool returns a snapshot of the pending-transaction pool, in the order
// transactions were accepted.
func (l *Ledger) Pool() []*Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Transaction(nil), l.pool...)
}

// ClearPool drops all pending transactions. Called on local block append
// (I5) and on a peer's block-gossip DELETE.
func (l *Ledger) ClearPool() {
	l.mu.Lock()
	l.pool = nil
	l.mu.Unlock()
}

// Chain returns a snapshot of the chain.
func (l *Ledger) Chain() Chain {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append(Chain(nil), l.chain...)
}

// LastBlock returns the most recently appended block.
func (l *Ledger) LastBlock() *Block {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chain[len(l.chain)-1]
}

// MineBlock runs seal against a pending-pool snapshot and the current last
// block, then appends the result and clears the pool (I5), all under a
// single lock acquisition. spec.md §5 requires any compound mutation — here,
// snapshot-then-append — to be serialized behind the Ledger's one lock for
// its full duration: holding the lock across seal (and therefore across the
// proof-of-work search itself) is what guarantees a transaction accepted via
// AddTransaction mid-search is either in the sealed block's snapshot or still
// in the pool afterward, never neither.
func (l *Ledger) MineBlock(seal func(pending []*Transaction, previousHash string) *Block) *Block {
	l.mu.Lock()
	defer l.mu.Unlock()
	pending := append([]*Transaction(nil), l.pool...)
	previousHash := l.chain[len(l.chain)-1].Hash()
	block := seal(pending, previousHash)
	l.chain = append(l.chain, block)
	l.pool = nil
	return block
}

// CalculateTotalAmount sums +value for every sealed transaction crediting
// address and -value for every one debiting it. The pool is not included;
// a sender pays regardless of whether it is the coinbase sentinel.
func (l *Ledger) CalculateTotalAmount(address string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceLocked(address)
}

func (l *Ledger) balanceLocked(address string) float64 {
	var total float64
	for _, block := range l.chain {
		for _, tx := range block.Transactions {
			if tx.Recipient == address {
				total += tx.Value
			}
			if tx.Sender == address {
				total -= tx.Value
			}
		}
	}
	return total
}

// ValidChain reports whether candidate satisfies I2 (previous_hash linkage)
// and I3 (proof-of-work) for every block after the genesis block. The
// genesis block itself is not independently validated (spec.md §4.3).
func ValidChain(candidate Chain) bool {
	for i := 1; i < len(candidate); i++ {
		prev, cur := candidate[i-1], candidate[i]
		if cur.PreviousHash != prev.Hash() {
			return false
		}
		if !ValidProof(cur.Transactions, cur.Nonce, cur.PreviousHash) {
			return false
		}
	}
	return true
}

// ReplaceChain adopts candidate only if it is strictly longer than the
// current chain and passes ValidChain; ties keep the local chain (I1 bars
// replacing the genesis block individually, so any accepted replacement is
// whole-chain). It reports whether the chain was replaced. The pool is left
// untouched either way — only block-append paths clear it (spec.md §4.6).
func (l *Ledger) ReplaceChain(candidate Chain) bool {
	if len(candidate) == 0 {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(candidate) <= len(l.chain) {
		return false
	}
	if !ValidChain(candidate) {
		return false
	}
	l.chain = append(Chain(nil), candidate...)
	return true
}
