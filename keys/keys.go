// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package keys

import (
	"crypto/ecdsa"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcutil/hdkeychain"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
	"github.com/zeebo/errs"

	"github.com/erc20kit/erc20kit/common"
)

// ErrKeys - signing key error class.
var ErrKeys = errs.Class("keys")

// Signer holds an ECDSA private key used to sign token transactions.
type Signer struct {
	key *ecdsa.PrivateKey
}

// FromHex creates a signer from a raw hex encoded private key.
// A 0x prefix is accepted and stripped.
func FromHex(hexkey string) (*Signer, error) {
	hexkey = strings.TrimPrefix(hexkey, "0x")
	key, err := crypto.HexToECDSA(hexkey)
	if err != nil {
		return nil, ErrKeys.Wrap(err)
	}
	return &Signer{key: key}, nil
}

// FromMnemonic creates a signer from a BIP39 mnemonic by deriving the account
// at the given index of the default ethereum derivation path.
func FromMnemonic(mnemonic string, index uint32) (*Signer, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, ErrKeys.Wrap(err)
	}

	masterKey, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, ErrKeys.Wrap(err)
	}

	path := make(accounts.DerivationPath, len(accounts.DefaultBaseDerivationPath))
	copy(path, accounts.DefaultBaseDerivationPath)
	path[len(path)-1] = index

	key := masterKey
	for _, n := range path {
		key, err = key.Derive(n)
		if err != nil {
			return nil, ErrKeys.Wrap(err)
		}
	}

	privateKey, err := key.ECPrivKey()
	if err != nil {
		return nil, ErrKeys.Wrap(err)
	}
	return &Signer{key: privateKey.ToECDSA()}, nil
}

// Address returns the account address of the signing key.
func (signer *Signer) Address() common.Address {
	return crypto.PubkeyToAddress(signer.key.PublicKey)
}

// TransactOpts creates transaction signing options bound to the given chain id.
func (signer *Signer) TransactOpts(chainID *big.Int) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(signer.key, chainID)
	if err != nil {
		return nil, ErrKeys.Wrap(err)
	}
	return opts, nil
}
