package rawdb

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/tos-network/grelay/relaydb"
	"github.com/tos-network/grelay/types"
)

// HasHubChain reports whether the hub owning db has the chain registered.
func HasHubChain(db relaydb.KeyValueReader, chainID common.Hash) bool {
	ok, _ := db.Has(hubChainKey(chainID))
	return ok
}

// ReadChainModule retrieves the validation module authorized to submit
// blocks for a chain.
func ReadChainModule(db relaydb.KeyValueReader, chainID common.Hash) (common.Address, bool) {
	data, err := db.Get(hubChainKey(chainID))
	if err != nil || len(data) != common.AddressLength {
		return common.Address{}, false
	}
	return common.BytesToAddress(data), true
}

// WriteChainModule records the sole authorized validation module of a chain.
// Written once at registration and never changed.
func WriteChainModule(db relaydb.KeyValueWriter, chainID common.Hash, module common.Address) {
	if err := db.Put(hubChainKey(chainID), module.Bytes()); err != nil {
		log.Crit("Failed to store chain module", "err", err)
	}
}

// ReadHubChains returns the ids of all chains registered with the hub, in
// key order.
func ReadHubChains(db relaydb.Iteratee) []common.Hash {
	var chains []common.Hash
	it := db.NewIterator(hubChainPrefix, nil)
	defer it.Release()
	for it.Next() {
		if key := it.Key(); len(key) == len(hubChainPrefix)+common.HashLength {
			chains = append(chains, common.BytesToHash(key[len(hubChainPrefix):]))
		}
	}
	return chains
}

// HasBlockRoots reports whether roots have been committed under a block hash.
func HasBlockRoots(db relaydb.KeyValueReader, blockHash common.Hash) bool {
	ok, _ := db.Has(hubRootsKey(blockHash))
	return ok
}

// ReadBlockRoots retrieves the committed root pair of a block, or nil.
func ReadBlockRoots(db relaydb.KeyValueReader, blockHash common.Hash) *types.RootPair {
	data, err := db.Get(hubRootsKey(blockHash))
	if err != nil || len(data) == 0 {
		return nil
	}
	roots := new(types.RootPair)
	if err := rlp.DecodeBytes(data, roots); err != nil {
		log.Error("Invalid root pair RLP", "hash", blockHash, "err", err)
		return nil
	}
	return roots
}

// WriteBlockRoots commits the root pair of a block. Callers must ensure the
// block hash is unused; committed roots are immutable.
func WriteBlockRoots(db relaydb.KeyValueWriter, blockHash common.Hash, roots *types.RootPair) {
	data, err := rlp.EncodeToBytes(roots)
	if err != nil {
		log.Crit("Failed to RLP encode root pair", "err", err)
	}
	if err := db.Put(hubRootsKey(blockHash), data); err != nil {
		log.Crit("Failed to store root pair", "err", err)
	}
}
