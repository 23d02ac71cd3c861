// Package validation implements the per-chain header-chain validator of the
// relay.
//
// A Module owns the validator sets, vote tallies and append-only header
// chains of every remote chain registered through it. Submitted headers are
// admitted only when their seal recovers to a current validator and their
// parent is already stored; accepted headers advance the chain's latest
// pointer and forward their trie roots to the hub. The validator set of a
// chain mutates through exactly one path: a quorum of current validators
// repeatedly naming the same candidate in the proposer field, which toggles
// that candidate's membership. The quorum threshold is fixed at registration
// and never recomputed, even as voting grows or shrinks the set.
//
// Every public operation validates all preconditions before its first write
// and commits its writes in one batch, so a failed call leaves no trace.
package validation

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru"

	"github.com/tos-network/grelay/params"
	"github.com/tos-network/grelay/rawdb"
	"github.com/tos-network/grelay/relaydb"
	"github.com/tos-network/grelay/types"
)

// inmemorySignatures is the number of recovered seals to keep cached.
const inmemorySignatures = 4096

// RootWriter is the hub surface a validation module forwards accepted state
// to. Calls run synchronously inside the submitting operation, so a
// rejection here unwinds the whole submission.
type RootWriter interface {
	AddChain(from common.Address, chainID common.Hash) error
	AddBlock(from common.Address, chainID, blockHash, txRoot, receiptRoot common.Hash, headerBytes []byte) error
}

// Module validates and stores remote chain headers on behalf of the hub.
type Module struct {
	db      relaydb.Database
	hub     RootWriter
	self    common.Address // caller identity presented to the hub
	localID common.Hash

	sigcache *lru.ARCCache // blockHash -> common.Address

	chainFeed     event.Feed
	validatorFeed event.Feed
	scope         event.SubscriptionScope

	mu sync.RWMutex
}

// New creates a validation module persisting into db and committing roots
// through hub under the identity self.
func New(db relaydb.Database, hub RootWriter, self common.Address, localID common.Hash) *Module {
	sigcache, _ := lru.NewARC(inmemorySignatures)
	return &Module{
		db:       db,
		hub:      hub,
		self:     self,
		localID:  localID,
		sigcache: sigcache,
	}
}

// RegisterChain registers a remote chain: it fixes the validator set and
// quorum threshold, registers the chain with the hub and inserts the genesis
// header as the root of the header chain. The genesis header is admitted
// without signature checks. Chains register at most once and never include
// the local chain.
func (m *Module) RegisterChain(chainID common.Hash, validators []common.Address, genesisHash common.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if chainID == m.localID {
		return errSelfRegistration
	}
	if rawdb.HasChainConfig(m.db, chainID) {
		return errChainExists
	}
	if len(validators) == 0 {
		return errNoValidators
	}
	// The hub registers first: its rejection aborts the call before any
	// module-side write.
	if err := m.hub.AddChain(m.self, chainID); err != nil {
		return err
	}
	batch := m.db.NewBatch()
	seen := make(map[common.Address]struct{}, len(validators))
	var listed uint64
	for _, v := range validators {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		rawdb.WriteValidatorAt(batch, chainID, listed, v)
		rawdb.WriteKnownValidator(batch, chainID, v)
		rawdb.WriteValidatorActive(batch, chainID, v, true)
		listed++
	}
	rawdb.WriteValidatorCount(batch, chainID, listed)
	rawdb.WriteChainConfig(batch, chainID, params.VoteThreshold(len(validators)))
	rawdb.WriteHeader(batch, chainID, genesisHash, types.Genesis())
	rawdb.WriteLatestBlockHash(batch, chainID, genesisHash)
	if err := batch.Write(); err != nil {
		log.Crit("Failed to commit chain registration", "err", err)
	}
	log.Info("Registered remote chain", "chainid", chainID, "validators", len(validators),
		"threshold", params.VoteThreshold(len(validators)), "genesis", genesisHash)
	m.chainFeed.Send(types.ChainRegisteredEvent{ChainID: chainID})
	return nil
}

// SubmitBlock authenticates one logical header submitted in two
// serializations, the canonical form and the signed form carrying a trailing
// seal inside the extension field, and appends it to the chain. On
// acceptance the new block hash unconditionally becomes the chain's latest
// and the header's trie roots are committed to the hub.
func (m *Module) SubmitBlock(chainID common.Hash, canonicalBytes, signedBytes []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	threshold, ok := rawdb.ReadChainThreshold(m.db, chainID)
	if !ok {
		return errUnknownChain
	}
	canonical, err := splitHeaderFields(canonicalBytes)
	if err != nil {
		return fmt.Errorf("%w: %v", errShortHeader, err)
	}
	signed, err := splitHeaderFields(signedBytes)
	if err != nil {
		return fmt.Errorf("%w: %v", errShortHeader, err)
	}
	if err := compareHeaderFields(canonical, signed); err != nil {
		return err
	}
	parentHash := canonical.parentHash()
	if !rawdb.HasHeader(m.db, chainID, parentHash) {
		return errUnknownParent
	}
	// The digest of the signed serialization is the block hash; the seal is
	// taken over the digest of the canonical serialization.
	blockHash := headerDigest(signedBytes)
	signer, err := m.recoverSigner(blockHash, headerDigest(canonicalBytes), signed.seal())
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidSeal, err)
	}
	if !rawdb.IsActiveValidator(m.db, chainID, signer) {
		return errUnknownSigner
	}

	// All preconditions hold; stage the mutations.
	batch := m.db.NewBatch()
	change := m.tallyVote(batch, chainID, threshold, canonical.proposer())
	header := &types.Header{
		Number:      new(big.Int).SetBytes(canonical.number()),
		ParentHash:  parentHash,
		TxRoot:      canonical.txRoot(),
		ReceiptRoot: canonical.receiptRoot(),
	}
	rawdb.WriteHeader(batch, chainID, blockHash, header)
	rawdb.WriteLatestBlockHash(batch, chainID, blockHash)

	// Commit to the hub first: its rejection (duplicate hash, digest
	// mismatch) must unwind the whole submission.
	if err := m.hub.AddBlock(m.self, chainID, blockHash, header.TxRoot, header.ReceiptRoot, signedBytes); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		log.Crit("Failed to commit submitted header", "err", err)
	}
	log.Info("Accepted remote header", "chainid", chainID, "number", header.Number,
		"hash", blockHash, "signer", signer)
	if change != nil {
		log.Info("Validator set changed", "chainid", chainID, "validator", change.Validator, "added", change.Added)
		m.validatorFeed.Send(*change)
	}
	return nil
}

// tallyVote stages the vote bookkeeping for one accepted header. A zero
// proposer is no vote. When the tally reaches the chain's fixed threshold
// the candidate's membership toggles and the tally resets; the returned
// event describes the toggle, or nil if none happened.
func (m *Module) tallyVote(batch relaydb.Batch, chainID common.Hash, threshold uint64, candidate common.Address) *types.ValidatorChangeEvent {
	if candidate == (common.Address{}) {
		return nil
	}
	tally := rawdb.ReadVoteTally(m.db, chainID, candidate) + 1
	if tally < threshold {
		rawdb.WriteVoteTally(batch, chainID, candidate, tally)
		return nil
	}
	added := !rawdb.IsActiveValidator(m.db, chainID, candidate)
	if added && !rawdb.IsKnownValidator(m.db, chainID, candidate) {
		count := rawdb.ReadValidatorCount(m.db, chainID)
		rawdb.WriteValidatorAt(batch, chainID, count, candidate)
		rawdb.WriteValidatorCount(batch, chainID, count+1)
		rawdb.WriteKnownValidator(batch, chainID, candidate)
	}
	rawdb.WriteValidatorActive(batch, chainID, candidate, added)
	rawdb.WriteVoteTally(batch, chainID, candidate, 0)
	return &types.ValidatorChangeEvent{ChainID: chainID, Validator: candidate, Added: added}
}

// recoverSigner recovers the sealing address from a header digest, caching
// results by block hash.
func (m *Module) recoverSigner(blockHash, digest common.Hash, seal []byte) (common.Address, error) {
	if cached, ok := m.sigcache.Get(blockHash); ok {
		return cached.(common.Address), nil
	}
	pub, err := crypto.Ecrecover(digest.Bytes(), seal)
	if err != nil {
		return common.Address{}, err
	}
	var signer common.Address
	copy(signer[:], crypto.Keccak256(pub[1:])[12:])
	m.sigcache.Add(blockHash, signer)
	return signer, nil
}

// LatestBlockHash returns the most recently accepted block hash of a chain.
func (m *Module) LatestBlockHash(chainID common.Hash) (common.Hash, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hash, ok := rawdb.ReadLatestBlockHash(m.db, chainID)
	if !ok {
		return common.Hash{}, errUnknownChain
	}
	return hash, nil
}

// Validators returns the current validator set of a chain in list order.
func (m *Module) Validators(chainID common.Hash) ([]common.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !rawdb.HasChainConfig(m.db, chainID) {
		return nil, errUnknownChain
	}
	return rawdb.ReadActiveValidators(m.db, chainID), nil
}

// Threshold returns the quorum threshold fixed when the chain registered.
func (m *Module) Threshold(chainID common.Hash) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	threshold, ok := rawdb.ReadChainThreshold(m.db, chainID)
	if !ok {
		return 0, errUnknownChain
	}
	return threshold, nil
}

// HasHeader reports whether a header is stored for the chain.
func (m *Module) HasHeader(chainID, blockHash common.Hash) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return rawdb.HasHeader(m.db, chainID, blockHash)
}

// GetHeader returns a stored header, or nil if absent.
func (m *Module) GetHeader(chainID, blockHash common.Hash) *types.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return rawdb.ReadHeader(m.db, chainID, blockHash)
}

// SubscribeChainRegistrations registers a subscription for chain
// registrations.
func (m *Module) SubscribeChainRegistrations(ch chan<- types.ChainRegisteredEvent) event.Subscription {
	return m.scope.Track(m.chainFeed.Subscribe(ch))
}

// SubscribeValidatorChanges registers a subscription for tally-triggered
// membership toggles.
func (m *Module) SubscribeValidatorChanges(ch chan<- types.ValidatorChangeEvent) event.Subscription {
	return m.scope.Track(m.validatorFeed.Subscribe(ch))
}

// Close tears down the module's event subscriptions.
func (m *Module) Close() {
	m.scope.Close()
}
