// Package chain implements the data model and Ledger described in spec.md
// §3 and §4.3: transactions, blocks, the chain, the pending-transaction
// pool, and the canonical hashing and proof-of-work rules that tie them
// together.
package chain

import "github.com/ikuhiroo/pyblockchain/codec"

// MiningSender is the sentinel sender address for a coinbase transaction.
const MiningSender = "THE BLOCKCHAIN"

// MiningReward is paid to the miner of every block.
const MiningReward = 1.0

// Transaction is an immutable transfer of value between two addresses.
// Signatures and public keys are never part of a Transaction; they are
// checked at submission time by the crypto package and discarded.
type Transaction struct {
	Sender    string  `json:"sender_blockchain_address"`
	Recipient string  `json:"recipient_blockchain_address"`
	Value     float64 `json:"value"`
}

// NewTransaction constructs a Transaction.
func NewTransaction(sender, recipient string, value float64) *Transaction {
	return &Transaction{Sender: sender, Recipient: recipient, Value: value}
}

// IsCoinbase reports whether t is the mining-reward transaction created by
// the miner, which bypasses signature verification (spec.md I4).
func (t *Transaction) IsCoinbase() bool {
	return t.Sender == MiningSender
}

// canonicalJSON is the key-sorted {sender, recipient, value} mapping used
// when a transaction is embedded in a block's canonical form. It is the
// same string crypto.SigningDigest builds on its own as signing material.
func (t *Transaction) canonicalJSON() string {
	return codec.Object(
		codec.Field{Key: "sender_blockchain_address", Value: codec.Str(t.Sender)},
		codec.Field{Key: "recipient_blockchain_address", Value: codec.Str(t.Recipient)},
		codec.Field{Key: "value", Value: codec.Float(t.Value)},
	)
}

func transactionsCanonicalArray(txs []*Transaction) string {
	items := make([]string, len(txs))
	for i, t := range txs {
		items[i] = t.canonicalJSON()
	}
	return codec.Array(items...)
}
