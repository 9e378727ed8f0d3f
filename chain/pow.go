package chain

import "strings"

// Difficulty is the required count of leading '0' hex characters in a
// block's three-key proof-of-work hash. Fixed; no adjustment (spec.md §4.4).
const Difficulty = 3

var difficultyPrefix = strings.Repeat("0", Difficulty)

// ValidProof reports whether nonce satisfies proof-of-work for txs sealed on
// top of previousHash: PowHash(txs, nonce, previousHash) must begin with
// Difficulty '0' hex characters (spec.md I3).
func ValidProof(txs []*Transaction, nonce int64, previousHash string) bool {
	return strings.HasPrefix(PowHash(txs, nonce, previousHash), difficultyPrefix)
}
