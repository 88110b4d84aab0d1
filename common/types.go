// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package common

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/zeebo/errs"
)

// Address is an account or contract address on an eth chain.
type Address = common.Address

// AddrLength is byte length of eth account address.
const AddrLength = 20

// ErrAddrLength represents the error that the address is the wrong length.
var ErrAddrLength = errs.Class("Address must be 20 bytes in length")

// ErrInvalidAddress represents the error that an address hex string is malformed.
var ErrInvalidAddress = errs.Class("invalid address hex string")

// ErrInvalidHash represents the error that a transaction hash hex string is malformed.
var ErrInvalidHash = errs.Class("invalid transaction hash hex string")

// AddressFromHex creates new address from hex string.
//
// Any syntactically valid hex address is accepted regardless of letter case
// and maps to the same canonical 20-byte value, so two spellings of one
// address produce identical call data downstream. Malformed input fails here,
// before any network interaction.
func AddressFromHex(hex string) (Address, error) {
	if !common.IsHexAddress(hex) {
		return Address{}, ErrInvalidAddress.New("%q", hex)
	}
	return common.HexToAddress(hex), nil
}

// AddressFromBytes creates a new address from hex bytes.
func AddressFromBytes(byteAddr []byte) (Address, error) {
	// sanity check that the address is the correct length
	length := len(byteAddr)
	addr := common.BytesToAddress(byteAddr)
	if length != AddrLength {
		return Address{}, ErrAddrLength.New("%v is %d bytes", addr, length)
	}
	return addr, nil
}

// Hash represent cryptographic hash.
type Hash = common.Hash

// HashLength is byte length of cryptographic hash.
const HashLength = 32

// HashFromHex creates hash from hex string.
func HashFromHex(hex string) (Hash, error) {
	if has0xPrefix(hex) {
		hex = hex[2:]
	}
	if len(hex) != 2*HashLength || !isHex(hex) {
		return Hash{}, ErrInvalidHash.New("%q", hex)
	}
	return common.HexToHash(hex), nil
}

// HashFromBytes creates hash from byte slice.
func HashFromBytes(b []byte) Hash {
	return common.BytesToHash(b)
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func isHex(s string) bool {
	for _, c := range []byte(s) {
		switch {
		case '0' <= c && c <= '9':
		case 'a' <= c && c <= 'f':
		case 'A' <= c && c <= 'F':
		default:
			return false
		}
	}
	return true
}
