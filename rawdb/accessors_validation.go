package rawdb

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/tos-network/grelay/relaydb"
	"github.com/tos-network/grelay/types"
)

// HasChainConfig reports whether a chain has been registered with the
// validation module owning db.
func HasChainConfig(db relaydb.KeyValueReader, chainID common.Hash) bool {
	ok, _ := db.Has(chainConfigKey(chainID))
	return ok
}

// ReadChainThreshold retrieves the quorum threshold fixed at registration.
func ReadChainThreshold(db relaydb.KeyValueReader, chainID common.Hash) (uint64, bool) {
	data, err := db.Get(chainConfigKey(chainID))
	if err != nil || len(data) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(data), true
}

// WriteChainConfig stores the quorum threshold for a newly registered chain.
func WriteChainConfig(db relaydb.KeyValueWriter, chainID common.Hash, threshold uint64) {
	var enc [8]byte
	binary.BigEndian.PutUint64(enc[:], threshold)
	if err := db.Put(chainConfigKey(chainID), enc[:]); err != nil {
		log.Crit("Failed to store chain config", "err", err)
	}
}

// ReadLatestBlockHash retrieves the most recently accepted block hash.
func ReadLatestBlockHash(db relaydb.KeyValueReader, chainID common.Hash) (common.Hash, bool) {
	data, err := db.Get(latestHashKey(chainID))
	if err != nil || len(data) != common.HashLength {
		return common.Hash{}, false
	}
	return common.BytesToHash(data), true
}

// WriteLatestBlockHash advances the latest pointer of a chain.
func WriteLatestBlockHash(db relaydb.KeyValueWriter, chainID, blockHash common.Hash) {
	if err := db.Put(latestHashKey(chainID), blockHash.Bytes()); err != nil {
		log.Crit("Failed to store latest block hash", "err", err)
	}
}

// HasHeader reports whether a header is stored for the given chain.
func HasHeader(db relaydb.KeyValueReader, chainID, blockHash common.Hash) bool {
	ok, _ := db.Has(headerKey(chainID, blockHash))
	return ok
}

// ReadHeader retrieves a stored header, or nil if absent.
func ReadHeader(db relaydb.KeyValueReader, chainID, blockHash common.Hash) *types.Header {
	data, err := db.Get(headerKey(chainID, blockHash))
	if err != nil || len(data) == 0 {
		return nil
	}
	header := new(types.Header)
	if err := rlp.DecodeBytes(data, header); err != nil {
		log.Error("Invalid header RLP", "chainid", chainID, "hash", blockHash, "err", err)
		return nil
	}
	return header
}

// WriteHeader stores a header keyed by chain id and block hash.
func WriteHeader(db relaydb.KeyValueWriter, chainID, blockHash common.Hash, header *types.Header) {
	data, err := rlp.EncodeToBytes(header)
	if err != nil {
		log.Crit("Failed to RLP encode header", "err", err)
	}
	if err := db.Put(headerKey(chainID, blockHash), data); err != nil {
		log.Crit("Failed to store header", "err", err)
	}
}

// ReadValidatorCount retrieves the length of a chain's validator list. The
// list is append-only; evicted validators stay listed with a cleared active
// flag.
func ReadValidatorCount(db relaydb.KeyValueReader, chainID common.Hash) uint64 {
	data, err := db.Get(validatorCountKey(chainID))
	if err != nil || len(data) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}

// WriteValidatorCount stores the length of a chain's validator list.
func WriteValidatorCount(db relaydb.KeyValueWriter, chainID common.Hash, count uint64) {
	var enc [8]byte
	binary.BigEndian.PutUint64(enc[:], count)
	if err := db.Put(validatorCountKey(chainID), enc[:]); err != nil {
		log.Crit("Failed to store validator count", "err", err)
	}
}

// ReadValidatorAt retrieves the i-th listed validator of a chain.
func ReadValidatorAt(db relaydb.KeyValueReader, chainID common.Hash, index uint64) common.Address {
	data, err := db.Get(validatorListKey(chainID, index))
	if err != nil {
		return common.Address{}
	}
	return common.BytesToAddress(data)
}

// WriteValidatorAt stores the i-th listed validator of a chain.
func WriteValidatorAt(db relaydb.KeyValueWriter, chainID common.Hash, index uint64, validator common.Address) {
	if err := db.Put(validatorListKey(chainID, index), validator.Bytes()); err != nil {
		log.Crit("Failed to store validator list entry", "err", err)
	}
}

// IsKnownValidator reports whether an address has ever been listed for the
// chain, regardless of its current active flag.
func IsKnownValidator(db relaydb.KeyValueReader, chainID common.Hash, validator common.Address) bool {
	ok, _ := db.Has(validatorKnownKey(chainID, validator))
	return ok
}

// WriteKnownValidator marks an address as listed for the chain.
func WriteKnownValidator(db relaydb.KeyValueWriter, chainID common.Hash, validator common.Address) {
	if err := db.Put(validatorKnownKey(chainID, validator), []byte{1}); err != nil {
		log.Crit("Failed to store validator marker", "err", err)
	}
}

// IsActiveValidator reports whether an address is currently authorized to
// sign headers for the chain.
func IsActiveValidator(db relaydb.KeyValueReader, chainID common.Hash, validator common.Address) bool {
	data, err := db.Get(validatorActiveKey(chainID, validator))
	return err == nil && len(data) == 1 && data[0] != 0
}

// WriteValidatorActive sets or clears the active flag of a listed validator.
func WriteValidatorActive(db relaydb.KeyValueWriter, chainID common.Hash, validator common.Address, active bool) {
	flag := []byte{0}
	if active {
		flag[0] = 1
	}
	if err := db.Put(validatorActiveKey(chainID, validator), flag); err != nil {
		log.Crit("Failed to store validator flag", "err", err)
	}
}

// ReadActiveValidators assembles the currently active validator set of a
// chain, in list (registration then admission) order.
func ReadActiveValidators(db relaydb.KeyValueReader, chainID common.Hash) []common.Address {
	count := ReadValidatorCount(db, chainID)
	var active []common.Address
	for i := uint64(0); i < count; i++ {
		if v := ReadValidatorAt(db, chainID, i); IsActiveValidator(db, chainID, v) {
			active = append(active, v)
		}
	}
	return active
}

// ReadVoteTally retrieves the running vote count for a candidate.
func ReadVoteTally(db relaydb.KeyValueReader, chainID common.Hash, candidate common.Address) uint64 {
	data, err := db.Get(voteTallyKey(chainID, candidate))
	if err != nil || len(data) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}

// WriteVoteTally stores the running vote count for a candidate.
func WriteVoteTally(db relaydb.KeyValueWriter, chainID common.Hash, candidate common.Address, tally uint64) {
	var enc [8]byte
	binary.BigEndian.PutUint64(enc[:], tally)
	if err := db.Put(voteTallyKey(chainID, candidate), enc[:]); err != nil {
		log.Crit("Failed to store vote tally", "err", err)
	}
}
