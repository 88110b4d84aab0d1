// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package tokens_test

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/erc20kit/erc20kit/tokens/erc20"
)

func TestABIDescriptor(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(erc20.ERC20ABI))
	require.NoError(t, err)

	reads := []string{"totalSupply", "balanceOf", "allowance"}
	for _, name := range reads {
		method, ok := parsed.Methods[name]
		require.True(t, ok, name)
		require.True(t, method.IsConstant(), name)
	}

	writes := []string{"approve", "transfer", "transferFrom"}
	for _, name := range writes {
		method, ok := parsed.Methods[name]
		require.True(t, ok, name)
		require.False(t, method.IsConstant(), name)
	}

	require.Contains(t, parsed.Events, "Transfer")
	require.Contains(t, parsed.Events, "Approval")

	transfer := parsed.Events["Transfer"]
	require.Equal(t, crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)")), transfer.ID)
	approval := parsed.Events["Approval"]
	require.Equal(t, crypto.Keccak256Hash([]byte("Approval(address,address,uint256)")), approval.ID)

	// selectors the contract is deployed with
	require.Equal(t, "approve(address,uint256)", erc20.ERC20FuncSigs["095ea7b3"])
	require.Equal(t, "transfer(address,uint256)", erc20.ERC20FuncSigs["a9059cbb"])
	require.Equal(t, "transferFrom(address,address,uint256)", erc20.ERC20FuncSigs["23b872dd"])
	require.Equal(t, "totalSupply()", erc20.ERC20FuncSigs["18160ddd"])
	require.Equal(t, "balanceOf(address)", erc20.ERC20FuncSigs["70a08231"])
	require.Equal(t, "allowance(address,address)", erc20.ERC20FuncSigs["dd62ed3e"])
}
