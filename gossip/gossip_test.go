package gossip

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikuhiroo/pyblockchain/chain"
)

type staticPeers []string

func (s staticPeers) Snapshot() []string { return []string(s) }

func TestBroadcastTransactionHitsEveryPeer(t *testing.T) {
	var mu sync.Mutex
	var hits []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, r.Method+" "+r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	address := strings.TrimPrefix(srv.URL, "http://")
	c := New(staticPeers{address}, "http")
	c.BroadcastTransaction(chain.NewTransaction("A", "B", 1.0), "pubkey", "sig")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(hits) == 1
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, "PUT /transactions", hits[0])
}

func TestResolveConflictsAdoptsLongestValidChain(t *testing.T) {
	ledger := chain.NewLedger(chain.SolvencyIgnored)
	mineTestBlock(t, ledger)
	mineTestBlock(t, ledger)

	remoteChain := ledger.Chain()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"chain":  remoteChain,
			"length": len(remoteChain),
		})
	}))
	defer srv.Close()

	address := strings.TrimPrefix(srv.URL, "http://")
	c := New(staticPeers{address}, "http")

	candidate, ok := c.ResolveConflicts(1)
	assert.True(t, ok)
	assert.Len(t, candidate, 3)
}

func TestResolveConflictsIgnoresShorterChain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		genesis := chain.NewGenesisBlock()
		json.NewEncoder(w).Encode(map[string]interface{}{
			"chain":  []*chain.Block{genesis},
			"length": 1,
		})
	}))
	defer srv.Close()

	address := strings.TrimPrefix(srv.URL, "http://")
	c := New(staticPeers{address}, "http")

	_, ok := c.ResolveConflicts(5)
	assert.False(t, ok)
}

func mineTestBlock(t *testing.T, ledger *chain.Ledger) *chain.Block {
	t.Helper()
	return ledger.MineBlock(func(pending []*chain.Transaction, previousHash string) *chain.Block {
		txs := []*chain.Transaction{chain.NewTransaction(chain.MiningSender, "M", chain.MiningReward)}
		var nonce int64
		for !chain.ValidProof(txs, nonce, previousHash) {
			nonce++
		}
		return &chain.Block{Timestamp: 1700000000, Transactions: txs, Nonce: nonce, PreviousHash: previousHash}
	})
}
