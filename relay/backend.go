// Package relay assembles a hub and a validation module over one backing
// store, as configured by relayconfig.
package relay

import (
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"

	"github.com/tos-network/grelay/hub"
	"github.com/tos-network/grelay/relay/relayconfig"
	"github.com/tos-network/grelay/relaydb"
	"github.com/tos-network/grelay/relaydb/leveldb"
	"github.com/tos-network/grelay/relaydb/memorydb"
	"github.com/tos-network/grelay/validation"
)

// Relay is a running relay instance: one hub plus one validation module
// sharing a backing store under disjoint key prefixes.
type Relay struct {
	config *relayconfig.Config
	db     relaydb.Database

	hub    *hub.Hub
	module *validation.Module
}

// New creates a relay from cfg, opening the configured store.
func New(cfg *relayconfig.Config) (*Relay, error) {
	if err := cfg.Sanitize(); err != nil {
		return nil, err
	}
	var (
		db  relaydb.Database
		err error
	)
	if cfg.DataDir == "" {
		db = memorydb.New()
	} else {
		db, err = leveldb.New(filepath.Join(cfg.DataDir, "relay"), cfg.DatabaseCache, cfg.DatabaseHandles)
		if err != nil {
			return nil, err
		}
	}
	h := hub.New(db, cfg.ChainID)
	m := validation.New(db, h, cfg.Module, cfg.ChainID)
	log.Info("Relay initialised", "chainid", cfg.ChainID, "module", cfg.Module, "persistent", cfg.DataDir != "")
	return &Relay{config: cfg, db: db, hub: h, module: m}, nil
}

// Hub returns the chain registry and proof gateway.
func (r *Relay) Hub() *hub.Hub {
	return r.hub
}

// Module returns the validation module.
func (r *Relay) Module() *validation.Module {
	return r.module
}

// Close tears down the relay and its store.
func (r *Relay) Close() error {
	r.module.Close()
	r.hub.Close()
	return r.db.Close()
}
