package rawdb

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tos-network/grelay/relaydb/memorydb"
	"github.com/tos-network/grelay/types"
)

var testChainID = common.HexToHash("0xdeadbeef")

func TestChainConfigAccessors(t *testing.T) {
	db := memorydb.New()

	if HasChainConfig(db, testChainID) {
		t.Fatal("config present before write")
	}
	if _, ok := ReadChainThreshold(db, testChainID); ok {
		t.Fatal("threshold present before write")
	}
	WriteChainConfig(db, testChainID, 7)
	if !HasChainConfig(db, testChainID) {
		t.Fatal("written config not found")
	}
	if threshold, ok := ReadChainThreshold(db, testChainID); !ok || threshold != 7 {
		t.Fatalf("wrong threshold: have %d (%v), want 7", threshold, ok)
	}
}

func TestHeaderAccessors(t *testing.T) {
	db := memorydb.New()
	hash := common.HexToHash("0xaa")
	header := &types.Header{
		Number:      big.NewInt(42),
		ParentHash:  common.HexToHash("0xbb"),
		TxRoot:      common.HexToHash("0xcc"),
		ReceiptRoot: common.HexToHash("0xdd"),
	}

	if HasHeader(db, testChainID, hash) || ReadHeader(db, testChainID, hash) != nil {
		t.Fatal("header present before write")
	}
	WriteHeader(db, testChainID, hash, header)
	if !HasHeader(db, testChainID, hash) {
		t.Fatal("written header not found")
	}
	stored := ReadHeader(db, testChainID, hash)
	if stored == nil {
		t.Fatal("written header unreadable")
	}
	if stored.Number.Cmp(header.Number) != 0 || stored.ParentHash != header.ParentHash ||
		stored.TxRoot != header.TxRoot || stored.ReceiptRoot != header.ReceiptRoot {
		t.Fatalf("header roundtrip mismatch: have %+v, want %+v", stored, header)
	}
	// Same hash under another chain stays invisible.
	if HasHeader(db, common.HexToHash("0x02"), hash) {
		t.Fatal("header visible under foreign chain")
	}
}

func TestLatestBlockHashAccessors(t *testing.T) {
	db := memorydb.New()

	if _, ok := ReadLatestBlockHash(db, testChainID); ok {
		t.Fatal("latest hash present before write")
	}
	WriteLatestBlockHash(db, testChainID, common.HexToHash("0xaa"))
	WriteLatestBlockHash(db, testChainID, common.HexToHash("0xbb"))
	if hash, ok := ReadLatestBlockHash(db, testChainID); !ok || hash != common.HexToHash("0xbb") {
		t.Fatalf("wrong latest hash: have %x (%v)", hash, ok)
	}
}

func TestValidatorAccessors(t *testing.T) {
	db := memorydb.New()
	validators := []common.Address{
		common.HexToAddress("0x01"),
		common.HexToAddress("0x02"),
		common.HexToAddress("0x03"),
	}

	for i, v := range validators {
		WriteValidatorAt(db, testChainID, uint64(i), v)
		WriteKnownValidator(db, testChainID, v)
		WriteValidatorActive(db, testChainID, v, true)
	}
	WriteValidatorCount(db, testChainID, uint64(len(validators)))

	if count := ReadValidatorCount(db, testChainID); count != 3 {
		t.Fatalf("wrong validator count: have %d, want 3", count)
	}
	for i, v := range validators {
		if have := ReadValidatorAt(db, testChainID, uint64(i)); have != v {
			t.Fatalf("validator %d mismatch: have %x, want %x", i, have, v)
		}
		if !IsKnownValidator(db, testChainID, v) || !IsActiveValidator(db, testChainID, v) {
			t.Fatalf("validator %x not known/active", v)
		}
	}

	// Deactivation keeps the validator listed but drops it from the active
	// set.
	WriteValidatorActive(db, testChainID, validators[1], false)
	if IsActiveValidator(db, testChainID, validators[1]) {
		t.Fatal("deactivated validator still active")
	}
	if !IsKnownValidator(db, testChainID, validators[1]) {
		t.Fatal("deactivated validator forgotten")
	}
	if count := ReadValidatorCount(db, testChainID); count != 3 {
		t.Fatalf("deactivation changed list length: have %d, want 3", count)
	}
	active := ReadActiveValidators(db, testChainID)
	if len(active) != 2 || active[0] != validators[0] || active[1] != validators[2] {
		t.Fatalf("wrong active set: %x", active)
	}
}

func TestVoteTallyAccessors(t *testing.T) {
	db := memorydb.New()
	candidate := common.HexToAddress("0xca")

	if tally := ReadVoteTally(db, testChainID, candidate); tally != 0 {
		t.Fatalf("tally present before write: %d", tally)
	}
	WriteVoteTally(db, testChainID, candidate, 2)
	if tally := ReadVoteTally(db, testChainID, candidate); tally != 2 {
		t.Fatalf("wrong tally: have %d, want 2", tally)
	}
	WriteVoteTally(db, testChainID, candidate, 0)
	if tally := ReadVoteTally(db, testChainID, candidate); tally != 0 {
		t.Fatalf("tally not reset: have %d", tally)
	}
}

func TestHubAccessors(t *testing.T) {
	db := memorydb.New()
	module := common.HexToAddress("0x42")

	if HasHubChain(db, testChainID) {
		t.Fatal("chain present before write")
	}
	WriteChainModule(db, testChainID, module)
	if !HasHubChain(db, testChainID) {
		t.Fatal("written chain not found")
	}
	if have, ok := ReadChainModule(db, testChainID); !ok || have != module {
		t.Fatalf("wrong module: have %x (%v), want %x", have, ok, module)
	}

	other := common.HexToHash("0x02")
	WriteChainModule(db, other, module)
	chains := ReadHubChains(db)
	if len(chains) != 2 {
		t.Fatalf("wrong chain listing: %x", chains)
	}

	hash := common.HexToHash("0xaa")
	roots := &types.RootPair{TxRoot: common.HexToHash("0xcc"), ReceiptRoot: common.HexToHash("0xdd")}
	if HasBlockRoots(db, hash) || ReadBlockRoots(db, hash) != nil {
		t.Fatal("roots present before write")
	}
	WriteBlockRoots(db, hash, roots)
	stored := ReadBlockRoots(db, hash)
	if stored == nil || stored.TxRoot != roots.TxRoot || stored.ReceiptRoot != roots.ReceiptRoot {
		t.Fatalf("roots roundtrip mismatch: have %+v, want %+v", stored, roots)
	}
}
