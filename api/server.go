// Package api exposes the node's wire HTTP/JSON interface: chain and
// transaction reads, transaction submission and gossip relay, mining
// triggers, consensus triggers, and balance lookups (spec.md §6).
package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/ikuhiroo/pyblockchain/chain"
	"github.com/ikuhiroo/pyblockchain/internal/log"
)

var logger = log.NewModuleLogger(log.ModuleAPI)

// Node is the node-level surface the wire API drives. node.Node satisfies
// it; the interface exists so this package's handlers are testable against
// a fake without constructing a full node.
type Node interface {
	Chain() chain.Chain
	Pool() []*chain.Transaction
	CreateTransaction(sender, recipient string, value float64, publicKeyHex, signatureHex string) bool
	AddTransaction(sender, recipient string, value float64, publicKeyHex, signatureHex string) bool
	ClearPool()
	MineOnce() (*chain.Block, bool)
	StartMining()
	ResolveConflicts() bool
	Balance(address string) float64
}

// NewServer builds the wire API's http.Handler: an httprouter mux wrapped
// in permissive CORS, matching the teacher's browser-facing RPC surface.
func NewServer(n Node) http.Handler {
	router := httprouter.New()

	router.GET("/chain", handleGetChain(n))
	router.GET("/transactions", handleGetTransactions(n))
	router.POST("/transactions", handlePostTransaction(n))
	router.PUT("/transactions", handlePutTransaction(n))
	router.DELETE("/transactions", handleDeleteTransactions(n))
	router.GET("/mine", handleMine(n))
	router.GET("/mine/start", handleMineStart(n))
	router.PUT("/consensus", handleConsensus(n))
	router.GET("/amount", handleAmount(n))

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}).Handler(router)
}
