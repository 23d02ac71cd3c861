package validation

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/tos-network/grelay/params"
)

func TestSplitHeaderFields(t *testing.T) {
	desc := headerDesc{
		parent:      common.HexToHash("0xaa"),
		number:      42,
		proposer:    common.HexToAddress("0xbb"),
		txRoot:      common.HexToHash("0xcc"),
		receiptRoot: common.HexToHash("0xdd"),
		extra:       []byte("vanity"),
	}
	enc, err := rlp.EncodeToBytes(desc.fields(desc.extra))
	if err != nil {
		t.Fatalf("failed to encode header: %v", err)
	}
	fields, err := splitHeaderFields(enc)
	if err != nil {
		t.Fatalf("failed to split header: %v", err)
	}
	if len(fields) != params.HeaderFieldCount {
		t.Fatalf("wrong field count: have %d, want %d", len(fields), params.HeaderFieldCount)
	}
	if fields.parentHash() != desc.parent {
		t.Errorf("parent hash mismatch: have %x, want %x", fields.parentHash(), desc.parent)
	}
	if fields.proposer() != desc.proposer {
		t.Errorf("proposer mismatch: have %x, want %x", fields.proposer(), desc.proposer)
	}
	if fields.txRoot() != desc.txRoot {
		t.Errorf("tx root mismatch: have %x, want %x", fields.txRoot(), desc.txRoot)
	}
	if fields.receiptRoot() != desc.receiptRoot {
		t.Errorf("receipt root mismatch: have %x, want %x", fields.receiptRoot(), desc.receiptRoot)
	}
	if n := new(big.Int).SetBytes(fields.number()); n.Uint64() != desc.number {
		t.Errorf("number mismatch: have %d, want %d", n, desc.number)
	}
	if !bytes.Equal(fields.extra(), desc.extra) {
		t.Errorf("extension mismatch: have %x, want %x", fields.extra(), desc.extra)
	}
}

func TestSplitHeaderFieldsRejectsNonList(t *testing.T) {
	for _, enc := range [][]byte{
		nil,
		{},
		{0x80},                   // empty string, not a list
		{0xc2, 0x01},             // truncated list
		{0x83, 'a', 'b', 'c'},    // string
		{0xf8, 0xff, 0x01, 0x02}, // bogus long list
	} {
		if _, err := splitHeaderFields(enc); err == nil {
			t.Errorf("malformed input %x accepted", enc)
		}
	}
}

func TestCompareHeaderFields(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	desc := headerDesc{parent: common.HexToHash("0xaa"), number: 1, extra: []byte("vanity")}
	canonicalBytes, signedBytes, _ := desc.seal(t, key)
	canonical, err := splitHeaderFields(canonicalBytes)
	if err != nil {
		t.Fatalf("failed to split canonical form: %v", err)
	}
	signed, err := splitHeaderFields(signedBytes)
	if err != nil {
		t.Fatalf("failed to split signed form: %v", err)
	}

	if err := compareHeaderFields(canonical, signed); err != nil {
		t.Fatalf("matching serializations rejected: %v", err)
	}
	if len(signed.seal()) != params.ExtraSealLength {
		t.Fatalf("wrong seal length: have %d, want %d", len(signed.seal()), params.ExtraSealLength)
	}
	if err := compareHeaderFields(canonical, canonical); !errors.Is(err, errMissingSeal) {
		t.Fatalf("sealless signed form: have %v, want %v", err, errMissingSeal)
	}
	if err := compareHeaderFields(canonical, signed[:params.ExtraField]); !errors.Is(err, errFieldCount) {
		t.Fatalf("truncated signed form: have %v, want %v", err, errFieldCount)
	}

	mutated := append(headerFields{}, signed...)
	mutated[params.NumberField] = []byte{0x7f}
	if err := compareHeaderFields(canonical, mutated); !errors.Is(err, errFieldMismatch) {
		t.Fatalf("mutated number field: have %v, want %v", err, errFieldMismatch)
	}
}

func TestHeaderDigest(t *testing.T) {
	payload := []byte("arbitrary header bytes")
	if have, want := headerDigest(payload), crypto.Keccak256Hash(payload); have != want {
		t.Fatalf("digest mismatch: have %x, want %x", have, want)
	}
}

func FuzzSplitHeaderFields(f *testing.F) {
	desc := headerDesc{parent: common.HexToHash("0xaa"), number: 1, extra: []byte("vanity")}
	if enc, err := rlp.EncodeToBytes(desc.fields(desc.extra)); err == nil {
		f.Add(enc)
	}
	f.Add([]byte{0xc0})
	f.Add([]byte{0x80})
	f.Fuzz(func(t *testing.T, data []byte) {
		fields, err := splitHeaderFields(data)
		if err != nil {
			return
		}
		// A successful split must never alias outside the input.
		for _, content := range fields {
			if len(content) > len(data) {
				t.Fatalf("field longer than input: %d > %d", len(content), len(data))
			}
		}
	})
}
