// Package types holds the data model shared by the validation modules and
// the hub: stored headers, root records, event payloads and the error
// categories every public operation reports under.
package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Header is the light-client view of a remote chain block header. Only the
// fields needed to extend the chain and answer proof queries are retained;
// the full serialization is never stored. Headers form an append-only
// singly-linked chain keyed by block hash.
type Header struct {
	Number      *big.Int
	ParentHash  common.Hash
	TxRoot      common.Hash
	ReceiptRoot common.Hash
}

// Genesis returns the chain-root header record inserted at registration.
// It carries no roots: proofs can only be checked against submitted headers.
func Genesis() *Header {
	return &Header{Number: new(big.Int)}
}

// RootPair is the pair of trie roots the hub commits per accepted block hash.
// Created exactly once per block hash and immutable afterwards.
type RootPair struct {
	TxRoot      common.Hash
	ReceiptRoot common.Hash
}
