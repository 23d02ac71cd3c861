// Package rawdb contains the keyed accessors the relay components use to
// persist their state. Validation-module and hub records live under disjoint
// key prefixes, so both components can share one backing store without ever
// touching each other's state.
package rawdb

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
)

// Key prefixes of the persisted schema.
var (
	// Validation module, all scoped by chain id.
	chainConfigPrefix     = []byte("vc") // chainConfigPrefix + chainID -> quorum threshold
	latestHashPrefix      = []byte("vl") // latestHashPrefix + chainID -> latest accepted block hash
	headerPrefix          = []byte("vh") // headerPrefix + chainID + blockHash -> RLP(types.Header)
	validatorCountPrefix  = []byte("vn") // validatorCountPrefix + chainID -> list length
	validatorListPrefix   = []byte("vi") // validatorListPrefix + chainID + index -> address
	validatorActivePrefix = []byte("va") // validatorActivePrefix + chainID + address -> active flag
	validatorKnownPrefix  = []byte("vk") // validatorKnownPrefix + chainID + address -> ever-listed flag
	voteTallyPrefix       = []byte("vt") // voteTallyPrefix + chainID + address -> vote count

	// Hub.
	hubChainPrefix = []byte("hc") // hubChainPrefix + chainID -> authorized module address
	hubRootsPrefix = []byte("hr") // hubRootsPrefix + blockHash -> RLP(types.RootPair)
)

func chainConfigKey(chainID common.Hash) []byte {
	return append(chainConfigPrefix, chainID.Bytes()...)
}

func latestHashKey(chainID common.Hash) []byte {
	return append(latestHashPrefix, chainID.Bytes()...)
}

func headerKey(chainID, blockHash common.Hash) []byte {
	return append(append(headerPrefix, chainID.Bytes()...), blockHash.Bytes()...)
}

func validatorCountKey(chainID common.Hash) []byte {
	return append(validatorCountPrefix, chainID.Bytes()...)
}

func validatorListKey(chainID common.Hash, index uint64) []byte {
	return append(append(validatorListPrefix, chainID.Bytes()...), encodeIndex(index)...)
}

func validatorActiveKey(chainID common.Hash, validator common.Address) []byte {
	return append(append(validatorActivePrefix, chainID.Bytes()...), validator.Bytes()...)
}

func validatorKnownKey(chainID common.Hash, validator common.Address) []byte {
	return append(append(validatorKnownPrefix, chainID.Bytes()...), validator.Bytes()...)
}

func voteTallyKey(chainID common.Hash, candidate common.Address) []byte {
	return append(append(voteTallyPrefix, chainID.Bytes()...), candidate.Bytes()...)
}

func hubChainKey(chainID common.Hash) []byte {
	return append(hubChainPrefix, chainID.Bytes()...)
}

func hubRootsKey(blockHash common.Hash) []byte {
	return append(hubRootsPrefix, blockHash.Bytes()...)
}

// encodeIndex encodes a list index as big endian uint64, keeping list keys
// binary-sortable.
func encodeIndex(index uint64) []byte {
	enc := make([]byte, 8)
	binary.BigEndian.PutUint64(enc, index)
	return enc
}
