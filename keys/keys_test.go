// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package keys_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erc20kit/erc20kit/keys"
)

// well known development key, first account of the "test junk" mnemonic.
const (
	devKey      = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	devMnemonic = "test test test test test test test test test test test junk"
	devAddress  = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestFromHex(t *testing.T) {
	signer, err := keys.FromHex(devKey)
	require.NoError(t, err)
	require.Equal(t, devAddress, signer.Address().Hex())
}

func TestFromHexStripsPrefix(t *testing.T) {
	signer, err := keys.FromHex("0x" + devKey)
	require.NoError(t, err)
	require.Equal(t, devAddress, signer.Address().Hex())
}

func TestFromHexInvalid(t *testing.T) {
	_, err := keys.FromHex("not a key")
	require.Error(t, err)
	require.True(t, keys.ErrKeys.Has(err))
}

func TestFromMnemonic(t *testing.T) {
	signer, err := keys.FromMnemonic(devMnemonic, 0)
	require.NoError(t, err)
	require.Equal(t, devAddress, signer.Address().Hex())
}

func TestFromMnemonicAccountIndex(t *testing.T) {
	signer, err := keys.FromMnemonic(devMnemonic, 1)
	require.NoError(t, err)
	require.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", signer.Address().Hex())
}

func TestFromMnemonicInvalid(t *testing.T) {
	_, err := keys.FromMnemonic("horse battery staple", 0)
	require.Error(t, err)
	require.True(t, keys.ErrKeys.Has(err))
}

func TestTransactOpts(t *testing.T) {
	signer, err := keys.FromHex(devKey)
	require.NoError(t, err)

	opts, err := signer.TransactOpts(big.NewInt(1337))
	require.NoError(t, err)
	require.Equal(t, signer.Address(), opts.From)
}
