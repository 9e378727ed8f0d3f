package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikuhiroo/pyblockchain/chain"
)

type fakeNode struct {
	chain             chain.Chain
	pool              []*chain.Transaction
	createResult      bool
	addResult         bool
	mineResult        *chain.Block
	mineOK            bool
	startMiningCalled bool
	resolveResult     bool
	balance           float64
	clearPoolCalled   bool
}

func (f *fakeNode) Chain() chain.Chain { return f.chain }
func (f *fakeNode) Pool() []*chain.Transaction { return f.pool }
func (f *fakeNode) CreateTransaction(sender, recipient string, value float64, publicKeyHex, signatureHex string) bool {
	return f.createResult
}
func (f *fakeNode) AddTransaction(sender, recipient string, value float64, publicKeyHex, signatureHex string) bool {
	return f.addResult
}
func (f *fakeNode) ClearPool()                { f.clearPoolCalled = true }
func (f *fakeNode) MineOnce() (*chain.Block, bool) { return f.mineResult, f.mineOK }
func (f *fakeNode) StartMining()              { f.startMiningCalled = true }
func (f *fakeNode) ResolveConflicts() bool    { return f.resolveResult }
func (f *fakeNode) Balance(address string) float64 { return f.balance }

func TestGetChainReturnsCurrentChain(t *testing.T) {
	n := &fakeNode{chain: chain.Chain{chain.NewGenesisBlock()}}
	srv := httptest.NewServer(NewServer(n))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/chain")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.Equal(t, float64(1), decoded["length"])
}

func TestPostTransactionRejectsMissingFields(t *testing.T) {
	n := &fakeNode{}
	srv := httptest.NewServer(NewServer(n))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/transactions", "application/json", bytes.NewReader([]byte(`{}`)))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPostTransactionSuccess(t *testing.T) {
	n := &fakeNode{createResult: true}
	srv := httptest.NewServer(NewServer(n))
	defer srv.Close()

	body, _ := json.Marshal(transactionRequest{
		Sender: "A", Recipient: "B", Value: 1.0, PublicKey: "pk", Signature: "sig",
	})
	resp, err := http.Post(srv.URL+"/transactions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestMineStartInvokesNode(t *testing.T) {
	n := &fakeNode{}
	srv := httptest.NewServer(NewServer(n))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/mine/start")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, n.startMiningCalled)
}

func TestAmountRequiresQueryParam(t *testing.T) {
	n := &fakeNode{}
	srv := httptest.NewServer(NewServer(n))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/amount")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAmountReturnsBalance(t *testing.T) {
	n := &fakeNode{balance: 6.0}
	srv := httptest.NewServer(NewServer(n))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/amount?blockchain_address=M")
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]float64
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.Equal(t, 6.0, decoded["amount"])
}

func TestConsensusReportsReplaced(t *testing.T) {
	n := &fakeNode{resolveResult: true}
	srv := httptest.NewServer(NewServer(n))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/consensus", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.True(t, decoded["replaced"])
}
