// Package node wires the ledger, miner, peer finder, gossip client, and
// scheduler together into a single running blockchain node, and implements
// chain.Broadcaster so the ledger can gossip transactions without importing
// the gossip package directly (spec.md §2's dependency order).
package node

import (
	"time"

	"github.com/ikuhiroo/pyblockchain/chain"
	"github.com/ikuhiroo/pyblockchain/gossip"
	"github.com/ikuhiroo/pyblockchain/internal/log"
	"github.com/ikuhiroo/pyblockchain/miner"
	"github.com/ikuhiroo/pyblockchain/peers"
	"github.com/ikuhiroo/pyblockchain/scheduler"
)

var logger = log.NewModuleLogger(log.ModuleNode)

const (
	miningInterval      = 20 * time.Second
	peerRefreshInterval = 20 * time.Second
)

// Node owns every collaborator a running blockchain node needs and exposes
// the surface api.Node depends on.
type Node struct {
	selfAddress string

	ledger *chain.Ledger
	miner  *miner.Miner
	finder *peers.Finder
	peers  *peers.Set
	gossip *gossip.Client

	miningTask *scheduler.Task
	peersTask  *scheduler.Task
}

// Config collects the construction-time parameters a node needs: its own
// wallet address (mining reward recipient), its host:port for peer
// discovery self-exclusion, and the subnet scan range.
type Config struct {
	SelfAddress string
	Host        string
	Port        int
	PeerRange   peers.Range
	Solvency    chain.SolvencyPolicy
}

// New builds a Node ready to Run.
func New(cfg Config) *Node {
	ledger := chain.NewLedger(cfg.Solvency)
	peerSet := peers.NewSet()
	gossipClient := gossip.New(peerSet, "http")

	n := &Node{
		selfAddress: cfg.SelfAddress,
		ledger:      ledger,
		miner:       miner.New(ledger, cfg.SelfAddress),
		finder:      peers.New(cfg.Host, cfg.Port, cfg.PeerRange),
		peers:       peerSet,
		gossip:      gossipClient,
	}

	n.miningTask = scheduler.New("mining", miningInterval, n.mineTick)
	n.peersTask = scheduler.New("peer-refresh", peerRefreshInterval, n.peerRefreshTick)

	logger.Info("node identity", "address", cfg.SelfAddress, "host", cfg.Host, "port", cfg.Port)
	return n
}

// Run starts the peer-discovery loop immediately (there is no wire endpoint
// gating it, unlike mining) and returns; it does not block.
func (n *Node) Run() {
	n.peersTask.Start()
	logger.Info("node started", "self", n.selfAddress)
}

// Stop halts both background loops.
func (n *Node) Stop() {
	n.peersTask.Stop()
	n.miningTask.Stop()
}

func (n *Node) mineTick() {
	if _, ok := n.miner.MineOnce(time.Now); ok {
		n.gossip.NotifyBlockAppended()
		n.gossip.TriggerConsensus()
	}
}

func (n *Node) peerRefreshTick() {
	found := n.finder.Discover()
	n.peers.Replace(found)
	logger.Debug("peer discovery complete", "count", len(found))
}

// Chain returns the current chain.
func (n *Node) Chain() chain.Chain {
	return n.ledger.Chain()
}

// Pool returns the current pending-transaction pool.
func (n *Node) Pool() []*chain.Transaction {
	return n.ledger.Pool()
}

// CreateTransaction validates and pools a transaction, gossiping it to
// every known peer on success.
func (n *Node) CreateTransaction(sender, recipient string, value float64, publicKeyHex, signatureHex string) bool {
	return n.ledger.CreateTransaction(sender, recipient, value, publicKeyHex, signatureHex, n)
}

// AddTransaction validates and pools a transaction without gossiping it;
// used for inbound peer PUTs.
func (n *Node) AddTransaction(sender, recipient string, value float64, publicKeyHex, signatureHex string) bool {
	return n.ledger.AddTransaction(sender, recipient, value, publicKeyHex, signatureHex)
}

// ClearPool drops the pending-transaction pool.
func (n *Node) ClearPool() {
	n.ledger.ClearPool()
}

// MineOnce runs a single synchronous mining attempt, subject to the mining
// task's single-flight permit (I6); the gossip fan-out for a successful
// seal happens inside mineTick. It reports false, with no side effects,
// when a mining operation was already in flight.
func (n *Node) MineOnce() (*chain.Block, bool) {
	if !n.miningTask.RunNow() {
		return nil, false
	}
	return n.ledger.LastBlock(), true
}

// StartMining begins the periodic mining loop.
func (n *Node) StartMining() {
	n.miningTask.Start()
}

// ResolveConflicts runs longest-chain consensus against every known peer
// and adopts the winner, if any.
func (n *Node) ResolveConflicts() bool {
	candidate, ok := n.gossip.ResolveConflicts(len(n.ledger.Chain()))
	if !ok {
		return false
	}
	return n.ledger.ReplaceChain(candidate)
}

// Balance returns address's current confirmed balance.
func (n *Node) Balance(address string) float64 {
	return n.ledger.CalculateTotalAmount(address)
}

// BroadcastTransaction implements chain.Broadcaster.
func (n *Node) BroadcastTransaction(tx *chain.Transaction, publicKeyHex, signatureHex string) {
	n.gossip.BroadcastTransaction(tx, publicKeyHex, signatureHex)
}
