// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package common_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erc20kit/erc20kit/common"
)

func TestAddressFromHex(t *testing.T) {
	addr, err := common.AddressFromHex("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.NoError(t, err)
	require.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", addr.Hex())

	for _, invalid := range []string{
		"",
		"0x",
		"5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAe",
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAe",
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed0",
		"0xzzzeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"not an address",
	} {
		_, err := common.AddressFromHex(invalid)
		require.Error(t, err, invalid)
	}
}

func TestAddressFromHexNormalizesCase(t *testing.T) {
	mixed := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

	lower, err := common.AddressFromHex(strings.ToLower(mixed))
	require.NoError(t, err)
	upper, err := common.AddressFromHex("0x" + strings.ToUpper(mixed[2:]))
	require.NoError(t, err)
	checksummed, err := common.AddressFromHex(mixed)
	require.NoError(t, err)

	// all spellings collapse to the identical canonical value and
	// render back as the same checksummed form.
	require.Equal(t, checksummed, lower)
	require.Equal(t, checksummed, upper)
	require.Equal(t, mixed, lower.Hex())
}

func TestAddressFromBytes(t *testing.T) {
	addr, err := common.AddressFromHex("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.NoError(t, err)

	fromBytes, err := common.AddressFromBytes(addr.Bytes())
	require.NoError(t, err)
	require.Equal(t, addr, fromBytes)

	_, err = common.AddressFromBytes(addr.Bytes()[:19])
	require.Error(t, err)
	_, err = common.AddressFromBytes(append(addr.Bytes(), 0))
	require.Error(t, err)
}

func TestHashFromHex(t *testing.T) {
	hash, err := common.HashFromHex("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")
	require.NoError(t, err)
	require.Equal(t, "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef", hash.Hex())

	// without prefix
	same, err := common.HashFromHex("ddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")
	require.NoError(t, err)
	require.Equal(t, hash, same)

	for _, invalid := range []string{
		"",
		"0xddf252ad",
		"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3",
		"0xgdf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
	} {
		_, err := common.HashFromHex(invalid)
		require.Error(t, err, invalid)
	}
}
