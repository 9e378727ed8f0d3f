package chain

import (
	"fmt"
	"strings"
)

// Chain is an ordered, hash-linked sequence of blocks; see Ledger for the
// mutable, concurrency-safe holder of one.
type Chain []*Block

// String renders the chain for human inspection (used by the "dump" CLI
// subcommand), mirroring the pprint helper from
// the original source this spec distills. It is never used on the wire.
func (c Chain) String() string {
	var b strings.Builder
	for i, block := range c {
		fmt.Fprintf(&b, "%s Block %d %s\n", strings.Repeat("=", 25), i, strings.Repeat("=", 25))
		fmt.Fprintf(&b, "timestamp      %v\n", block.Timestamp)
		fmt.Fprintf(&b, "nonce          %d\n", block.Nonce)
		fmt.Fprintf(&b, "previous_hash  %s\n", block.PreviousHash)
		fmt.Fprintln(&b, "transactions")
		for _, tx := range block.Transactions {
			fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 40))
			fmt.Fprintf(&b, "sender       %s\n", tx.Sender)
			fmt.Fprintf(&b, "recipient    %s\n", tx.Recipient)
			fmt.Fprintf(&b, "value        %v\n", tx.Value)
		}
	}
	fmt.Fprintf(&b, "%s\n", strings.Repeat("*", 25))
	return b.String()
}
