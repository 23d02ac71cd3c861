// Package hub implements the chain registry and proof gateway of the relay.
//
// The hub owns two pieces of state: the set of registered remote chains,
// each bound to the single validation module allowed to submit blocks for
// it, and the immutable {blockHash -> txRoot, receiptRoot} records those
// modules commit. Inclusion queries are answered exclusively against
// committed roots; the hub never inspects or mutates validation-module
// state.
package hub

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"

	"github.com/tos-network/grelay/rawdb"
	"github.com/tos-network/grelay/relaydb"
	"github.com/tos-network/grelay/types"
)

// Hub is the root registry shared by all validation modules of a relay.
type Hub struct {
	db      relaydb.Database
	localID common.Hash // id of the hosting chain, never registrable

	proofFeed event.Feed
	scope     event.SubscriptionScope

	mu sync.RWMutex
}

// New creates a hub for the chain identified by localID, persisting into db.
func New(db relaydb.Database, localID common.Hash) *Hub {
	return &Hub{db: db, localID: localID}
}

// AddChain registers a remote chain and records from as the only module
// allowed to commit blocks for it. The binding is permanent.
func (h *Hub) AddChain(from common.Address, chainID common.Hash) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if chainID == h.localID {
		return errSelfChain
	}
	if rawdb.HasHubChain(h.db, chainID) {
		return errChainExists
	}
	rawdb.WriteChainModule(h.db, chainID, from)
	log.Info("Chain registered with hub", "chainid", chainID, "module", from)
	return nil
}

// AddBlock commits the root pair of an accepted block. Only the chain's
// authorized validation module may call it, each block hash commits at most
// once, and headerBytes must digest to blockHash: the hub re-checks the
// submitting module rather than trusting it.
func (h *Hub) AddBlock(from common.Address, chainID, blockHash, txRoot, receiptRoot common.Hash, headerBytes []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	module, ok := rawdb.ReadChainModule(h.db, chainID)
	if !ok {
		return errUnknownChain
	}
	if from != module {
		return errNotAuthority
	}
	if rawdb.HasBlockRoots(h.db, blockHash) {
		return errKnownBlock
	}
	if keccak256(headerBytes) != blockHash {
		return errHashMismatch
	}
	rawdb.WriteBlockRoots(h.db, blockHash, &types.RootPair{TxRoot: txRoot, ReceiptRoot: receiptRoot})
	log.Debug("Block roots committed", "chainid", chainID, "hash", blockHash)
	return nil
}

// HasChain reports whether chainID is registered.
func (h *Hub) HasChain(chainID common.Hash) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return rawdb.HasHubChain(h.db, chainID)
}

// RegisteredChains returns the ids of all registered chains.
func (h *Hub) RegisteredChains() []common.Hash {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return rawdb.ReadHubChains(h.db)
}

// BlockRoots returns the committed root pair of a block, if any.
func (h *Hub) BlockRoots(chainID, blockHash common.Hash) (*types.RootPair, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.blockRoots(chainID, blockHash)
}

// blockRoots is the lock-free variant shared with the proof checks.
func (h *Hub) blockRoots(chainID, blockHash common.Hash) (*types.RootPair, error) {
	if !rawdb.HasHubChain(h.db, chainID) {
		return nil, errUnknownChain
	}
	roots := rawdb.ReadBlockRoots(h.db, blockHash)
	if roots == nil {
		return nil, errUnknownBlock
	}
	return roots, nil
}

// SubscribeProofEvents registers a subscription for successful proof checks.
func (h *Hub) SubscribeProofEvents(ch chan<- types.ProofVerifiedEvent) event.Subscription {
	return h.scope.Track(h.proofFeed.Subscribe(ch))
}

// Close tears down the hub's event subscriptions.
func (h *Hub) Close() {
	h.scope.Close()
}
