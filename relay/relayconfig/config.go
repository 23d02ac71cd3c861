// Package relayconfig contains the configuration of a relay instance.
package relayconfig

import (
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/ethereum/go-ethereum/common"
	"github.com/naoina/toml"
)

// Defaults contains the default settings of a relay.
var Defaults = Config{
	DatabaseCache:   64,
	DatabaseHandles: 64,
}

// Config contains the configuration options of a relay: the identity of the
// hosting chain, the caller identity its validation module presents to the
// hub, and the backing store parameters.
type Config struct {
	// ChainID is the id of the hosting chain. Remote chains with this id
	// can never be registered.
	ChainID common.Hash

	// Module is the caller identity of the validation module. The hub binds
	// each registered chain to the module identity that registered it.
	Module common.Address

	// DataDir is the directory holding the leveldb store. Empty selects an
	// in-memory store.
	DataDir string `toml:",omitempty"`

	DatabaseCache   int `toml:",omitempty"` // leveldb cache, in megabytes
	DatabaseHandles int `toml:",omitempty"` // leveldb open file handles
}

// tomlSettings ensures that TOML keys use the same names as Go struct fields
// and that unknown keys are rejected instead of silently dropped.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		id := fmt.Sprintf("%s.%s", rt.String(), field)
		return fmt.Errorf("field '%s' is not defined in %s", field, id)
	},
}

// Load reads a TOML config file on top of the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := Defaults
	if err := tomlSettings.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%v in file %s", err, path)
	}
	return &cfg, nil
}

// Dump encodes the config as TOML.
func (c *Config) Dump() ([]byte, error) {
	return tomlSettings.Marshal(c)
}

// Sanitize checks the config for nonsensical values.
func (c *Config) Sanitize() error {
	if c.ChainID == (common.Hash{}) {
		return fmt.Errorf("relayconfig: ChainID must be set")
	}
	if c.Module == (common.Address{}) {
		return fmt.Errorf("relayconfig: Module must be set")
	}
	for _, r := range c.DataDir {
		if unicode.IsControl(r) {
			return fmt.Errorf("relayconfig: DataDir contains control characters")
		}
	}
	return nil
}
