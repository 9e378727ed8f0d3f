package chain

import "github.com/ikuhiroo/pyblockchain/codec"

// Block is an ordered record sealed by the miner: the transactions it
// captures, the nonce that satisfies proof-of-work, and the hash of the
// block it extends. Once appended to a Chain, a Block is never mutated.
type Block struct {
	Timestamp    float64        `json:"timestamp"`
	Transactions []*Transaction `json:"transactions"`
	Nonce        int64          `json:"nonce"`
	PreviousHash string         `json:"previous_hash"`
}

// NewGenesisBlock returns block 0: nonce 0, previous_hash H({}), and no
// transactions (spec.md §3, I1). Its timestamp is fixed rather than
// wall-clock so a fresh node's genesis block is fully reproducible.
func NewGenesisBlock() *Block {
	return &Block{
		Timestamp:    0,
		Transactions: []*Transaction{},
		Nonce:        0,
		PreviousHash: codec.EmptyHash,
	}
}

// powCanonicalJSON is the three-key mapping {transactions, nonce,
// previous_hash} hashed while mining and while checking proof-of-work. It
// deliberately omits timestamp so the hash a miner searches for doesn't
// depend on when sealing happens (spec.md §4.4's "Subtlety").
func powCanonicalJSON(txs []*Transaction, nonce int64, previousHash string) string {
	return codec.Object(
		codec.Field{Key: "transactions", Value: transactionsCanonicalArray(txs)},
		codec.Field{Key: "nonce", Value: codec.Int(nonce)},
		codec.Field{Key: "previous_hash", Value: codec.Str(previousHash)},
	)
}

// canonicalJSON is the full four-key mapping {timestamp, transactions,
// nonce, previous_hash} hashed to produce the value the following block
// links to via previous_hash.
func (b *Block) canonicalJSON() string {
	return codec.Object(
		codec.Field{Key: "timestamp", Value: codec.Float(b.Timestamp)},
		codec.Field{Key: "transactions", Value: transactionsCanonicalArray(b.Transactions)},
		codec.Field{Key: "nonce", Value: codec.Int(b.Nonce)},
		codec.Field{Key: "previous_hash", Value: codec.Str(b.PreviousHash)},
	)
}

// Hash returns H(b): the hex digest the next block in the chain stores as
// its previous_hash.
func (b *Block) Hash() string {
	return codec.HashHex(b.canonicalJSON())
}

// PowHash returns the hex digest of the three-key mapping checked against
// the mining difficulty by ValidProof.
func PowHash(txs []*Transaction, nonce int64, previousHash string) string {
	return codec.HashHex(powCanonicalJSON(txs, nonce, previousHash))
}
