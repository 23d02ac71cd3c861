package validation

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"

	"github.com/tos-network/grelay/params"
)

// headerFields is the ordered field contents of one header serialization.
// Field i holds the payload bytes of the i-th RLP element, without its
// type/length header.
type headerFields [][]byte

// splitHeaderFields decodes a header serialization into its ordered field
// sequence. The outer element must be a list; nothing beyond list structure
// is interpreted here.
func splitHeaderFields(enc []byte) (headerFields, error) {
	payload, _, err := rlp.SplitList(enc)
	if err != nil {
		return nil, err
	}
	count, err := rlp.CountValues(payload)
	if err != nil {
		return nil, err
	}
	fields := make(headerFields, 0, count)
	for len(payload) > 0 {
		_, content, rest, err := rlp.Split(payload)
		if err != nil {
			return nil, err
		}
		fields = append(fields, content)
		payload = rest
	}
	return fields, nil
}

// Typed projections of the fixed header fields.

func (f headerFields) parentHash() common.Hash {
	return common.BytesToHash(f[params.ParentHashField])
}

func (f headerFields) proposer() common.Address {
	return common.BytesToAddress(f[params.ProposerField])
}

func (f headerFields) txRoot() common.Hash {
	return common.BytesToHash(f[params.TxRootField])
}

func (f headerFields) receiptRoot() common.Hash {
	return common.BytesToHash(f[params.ReceiptRootField])
}

func (f headerFields) number() []byte {
	return f[params.NumberField]
}

func (f headerFields) extra() []byte {
	return f[params.ExtraField]
}

// compareHeaderFields checks that two serializations describe the same
// logical header: equal field counts, byte-equal fields everywhere except
// the extension field, where the signed form must equal the canonical form
// plus a trailing seal.
func compareHeaderFields(canonical, signed headerFields) error {
	if len(canonical) != len(signed) {
		return errFieldCount
	}
	if len(canonical) < params.HeaderFieldCount {
		return errShortHeader
	}
	for i := range canonical {
		if i == params.ExtraField {
			continue
		}
		if !bytes.Equal(canonical[i], signed[i]) {
			return errFieldMismatch
		}
	}
	sealed := signed[params.ExtraField]
	if len(sealed) < params.ExtraSealLength {
		return errMissingSeal
	}
	if !bytes.Equal(canonical[params.ExtraField], sealed[:len(sealed)-params.ExtraSealLength]) {
		return errFieldMismatch
	}
	return nil
}

// seal returns the trailing signature bytes of the signed extension field.
// Callers must have run compareHeaderFields first.
func (f headerFields) seal() []byte {
	extra := f.extra()
	return extra[len(extra)-params.ExtraSealLength:]
}

// headerDigest is the legacy keccak digest of a full header serialization.
// The digest of the signed form doubles as the block hash.
func headerDigest(enc []byte) (hash common.Hash) {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(enc)
	hasher.(crypto.KeccakState).Read(hash[:])
	return hash
}
