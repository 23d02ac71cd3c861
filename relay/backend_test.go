package relay

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/tos-network/grelay/relay/relayconfig"
)

func testConfig() *relayconfig.Config {
	cfg := relayconfig.Defaults
	cfg.ChainID = common.HexToHash("0x01")
	cfg.Module = common.HexToAddress("0x4242424242424242424242424242424242424242")
	return &cfg
}

func TestNewMemoryRelay(t *testing.T) {
	relay, err := New(testConfig())
	if err != nil {
		t.Fatalf("failed to create relay: %v", err)
	}
	defer relay.Close()

	chainID := common.HexToHash("0xdeadbeef")
	validator := common.HexToAddress("0xaa")
	genesis := common.HexToHash("0xf003")
	if err := relay.Module().RegisterChain(chainID, []common.Address{validator}, genesis); err != nil {
		t.Fatalf("failed to register chain: %v", err)
	}
	if !relay.Hub().HasChain(chainID) {
		t.Fatal("registered chain missing from hub")
	}
	if latest, err := relay.Module().LatestBlockHash(chainID); err != nil || latest != genesis {
		t.Fatalf("wrong latest hash: have %x (%v), want %x", latest, err, genesis)
	}
}

func TestNewRejectsUnsanitizedConfig(t *testing.T) {
	cfg := relayconfig.Defaults
	if _, err := New(&cfg); err == nil {
		t.Fatal("zero config accepted")
	}
}

func TestPersistentRelayReopens(t *testing.T) {
	cfg := testConfig()
	cfg.DataDir = t.TempDir()

	chainID := common.HexToHash("0xdeadbeef")
	genesis := common.HexToHash("0xf003")
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	validator := crypto.PubkeyToAddress(key.PublicKey)

	relay, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create relay: %v", err)
	}
	if err := relay.Module().RegisterChain(chainID, []common.Address{validator}, genesis); err != nil {
		t.Fatalf("failed to register chain: %v", err)
	}
	if err := relay.Close(); err != nil {
		t.Fatalf("failed to close relay: %v", err)
	}

	// Reopening the same data dir restores the registered chain.
	relay, err = New(cfg)
	if err != nil {
		t.Fatalf("failed to reopen relay: %v", err)
	}
	defer relay.Close()
	if !relay.Hub().HasChain(chainID) {
		t.Fatal("chain lost across restart")
	}
	validators, err := relay.Module().Validators(chainID)
	if err != nil || len(validators) != 1 || validators[0] != validator {
		t.Fatalf("validator set lost across restart: %x (%v)", validators, err)
	}
}
