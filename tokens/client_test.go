// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package tokens_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storj.io/common/testcontext"

	"github.com/erc20kit/erc20kit/keys"
	"github.com/erc20kit/erc20kit/private/testeth"
	"github.com/erc20kit/erc20kit/private/testeth/testtoken"
	"github.com/erc20kit/erc20kit/tokens"
)

func TestClientReads(t *testing.T) {
	testeth.Run(t, nil, func(ctx *testcontext.Context, t *testing.T, tokenAddress common.Address, network *testeth.Network) {
		logger := zaptest.NewLogger(t)

		backend := network.Dial()
		defer backend.Close()

		tk, err := testtoken.NewTestToken(tokenAddress, backend)
		require.NoError(t, err)

		accs := network.Accounts()

		opts := network.TransactOptions(ctx, accs[0], 1)
		tx, err := tk.Transfer(opts, accs[1].Address, big.NewInt(12345))
		require.NoError(t, err)
		_, err = network.WaitForTx(ctx, tx.Hash())
		require.NoError(t, err)

		client := tokens.NewClient(logger, network.HTTPEndpoint(), tokenAddress, nil)

		t.Run("total supply", func(t *testing.T) {
			supply, err := client.TotalSupply(ctx)
			require.NoError(t, err)
			require.Positive(t, supply.Sign())
		})

		t.Run("balance", func(t *testing.T) {
			balance, err := client.BalanceOf(ctx, accs[1].Address.Hex())
			require.NoError(t, err)
			require.EqualValues(t, 12345, balance.Int64())
		})

		t.Run("balance accepts any letter case", func(t *testing.T) {
			lower, err := client.BalanceOf(ctx, "0x"+lowercaseHex(accs[1].Address))
			require.NoError(t, err)
			require.EqualValues(t, 12345, lower.Int64())
		})

		t.Run("zero balance for untouched account", func(t *testing.T) {
			balance, err := client.BalanceOf(ctx, accs[5].Address.Hex())
			require.NoError(t, err)
			require.EqualValues(t, 0, balance.Int64())
		})

		t.Run("invalid address fails without network call", func(t *testing.T) {
			_, err := client.BalanceOf(ctx, "not an address")
			require.Error(t, err)
			require.True(t, tokens.ErrClient.Has(err))
		})

		t.Run("ping", func(t *testing.T) {
			require.NoError(t, client.Ping(ctx))
		})
	})
}

func TestClientTransactions(t *testing.T) {
	testeth.Run(t, nil, func(ctx *testcontext.Context, t *testing.T, tokenAddress common.Address, network *testeth.Network) {
		logger := zaptest.NewLogger(t)

		backend := network.Dial()
		defer backend.Close()

		tk, err := testtoken.NewTestToken(tokenAddress, backend)
		require.NoError(t, err)

		accs := network.Accounts()

		owner := newFundedSigner(ctx, t, network, accs[0])
		spender := newFundedSigner(ctx, t, network, accs[0])
		recipient := newFundedSigner(ctx, t, network, accs[0])

		// seed the owner with tokens from the developer account
		nonce, err := backend.PendingNonceAt(ctx, accs[0].Address)
		require.NoError(t, err)
		opts := network.TransactOptions(ctx, accs[0], int64(nonce))
		tx, err := tk.Transfer(opts, owner.Address(), big.NewInt(1000))
		require.NoError(t, err)
		_, err = network.WaitForTx(ctx, tx.Hash())
		require.NoError(t, err)

		ownerClient := tokens.NewClient(logger, network.HTTPEndpoint(), tokenAddress, owner)
		spenderClient := tokens.NewClient(logger, network.HTTPEndpoint(), tokenAddress, spender)

		var approveTx, transferFromTx common.Hash

		t.Run("simulate approve", func(t *testing.T) {
			ok, err := ownerClient.SimulateApprove(ctx, spender.Address().Hex(), decimal.NewFromInt(100), nil)
			require.NoError(t, err)
			require.True(t, ok)

			// simulation does not grant the allowance
			allowance, err := ownerClient.AllowanceOf(ctx, owner.Address().Hex(), spender.Address().Hex())
			require.NoError(t, err)
			require.EqualValues(t, 0, allowance.Int64())
		})

		t.Run("approve", func(t *testing.T) {
			approveTx, err = ownerClient.Approve(ctx, spender.Address().Hex(), decimal.NewFromInt(100), nil)
			require.NoError(t, err)
			_, err = network.WaitForTx(ctx, approveTx)
			require.NoError(t, err)

			allowance, err := ownerClient.AllowanceOf(ctx, owner.Address().Hex(), spender.Address().Hex())
			require.NoError(t, err)
			require.EqualValues(t, 100, allowance.Int64())
		})

		t.Run("simulate transfer from", func(t *testing.T) {
			ok, err := spenderClient.SimulateTransferFrom(ctx, owner.Address().Hex(), recipient.Address().Hex(), decimal.NewFromInt(40), nil)
			require.NoError(t, err)
			require.True(t, ok)

			// simulation does not move funds
			balance, err := ownerClient.BalanceOf(ctx, recipient.Address().Hex())
			require.NoError(t, err)
			require.EqualValues(t, 0, balance.Int64())
		})

		t.Run("simulate transfer", func(t *testing.T) {
			ok, err := ownerClient.SimulateTransfer(ctx, recipient.Address().Hex(), decimal.NewFromInt(5), nil)
			require.NoError(t, err)
			require.True(t, ok)

			balance, err := ownerClient.BalanceOf(ctx, recipient.Address().Hex())
			require.NoError(t, err)
			require.EqualValues(t, 0, balance.Int64())
		})

		t.Run("transfer from", func(t *testing.T) {
			transferFromTx, err = spenderClient.TransferFrom(ctx, owner.Address().Hex(), recipient.Address().Hex(), decimal.NewFromInt(40), nil)
			require.NoError(t, err)
			_, err = network.WaitForTx(ctx, transferFromTx)
			require.NoError(t, err)

			balance, err := ownerClient.BalanceOf(ctx, recipient.Address().Hex())
			require.NoError(t, err)
			require.EqualValues(t, 40, balance.Int64())

			allowance, err := ownerClient.AllowanceOf(ctx, owner.Address().Hex(), spender.Address().Hex())
			require.NoError(t, err)
			require.EqualValues(t, 60, allowance.Int64())
		})

		t.Run("fractional transfer amount is truncated", func(t *testing.T) {
			amount, err := decimal.NewFromString("10.7")
			require.NoError(t, err)

			hash, err := ownerClient.Transfer(ctx, recipient.Address().Hex(), amount, nil)
			require.NoError(t, err)
			_, err = network.WaitForTx(ctx, hash)
			require.NoError(t, err)

			balance, err := ownerClient.BalanceOf(ctx, recipient.Address().Hex())
			require.NoError(t, err)
			require.EqualValues(t, 50, balance.Int64())
		})

		t.Run("negative amount is rejected locally", func(t *testing.T) {
			_, err := ownerClient.Transfer(ctx, recipient.Address().Hex(), decimal.NewFromInt(-1), nil)
			require.Error(t, err)
			require.True(t, tokens.ErrClient.Has(err))
		})

		t.Run("no signing key", func(t *testing.T) {
			readOnly := tokens.NewClient(logger, network.HTTPEndpoint(), tokenAddress, nil)
			_, err := readOnly.Transfer(ctx, recipient.Address().Hex(), decimal.NewFromInt(1), nil)
			require.Error(t, err)
			require.True(t, tokens.ErrClient.Has(err))
		})

		t.Run("approval events", func(t *testing.T) {
			events, err := ownerClient.ApprovalEvents(ctx, tokenAddress.Hex(), approveTx)
			require.NoError(t, err)
			require.Len(t, events, 1)
			require.Equal(t, owner.Address(), events[0].Owner)
			require.Equal(t, spender.Address(), events[0].Spender)
			require.EqualValues(t, 100, events[0].TokenValue.Int64())
			require.Equal(t, approveTx, events[0].Transaction)
		})

		t.Run("transfer events", func(t *testing.T) {
			events, err := ownerClient.TransferEvents(ctx, tokenAddress.Hex(), transferFromTx)
			require.NoError(t, err)
			require.Len(t, events, 1)
			require.Equal(t, owner.Address(), events[0].From)
			require.Equal(t, recipient.Address(), events[0].To)
			require.EqualValues(t, 40, events[0].TokenValue.Int64())
		})

		t.Run("no matching events yields empty slice", func(t *testing.T) {
			events, err := ownerClient.TransferEvents(ctx, tokenAddress.Hex(), approveTx)
			require.NoError(t, err)
			require.Empty(t, events)
		})

		t.Run("transfer events batch", func(t *testing.T) {
			events, err := ownerClient.TransferEventsBatch(ctx, tokenAddress.Hex(), []common.Hash{transferFromTx, approveTx})
			require.NoError(t, err)
			require.Len(t, events, 1)
			require.EqualValues(t, 40, events[0].TokenValue.Int64())
		})

		t.Run("approval events batch", func(t *testing.T) {
			events, err := ownerClient.ApprovalEventsBatch(ctx, tokenAddress.Hex(), []common.Hash{approveTx, transferFromTx})
			require.NoError(t, err)
			require.Len(t, events, 1)
			require.Equal(t, owner.Address(), events[0].Owner)
			require.EqualValues(t, 100, events[0].TokenValue.Int64())
		})
	})
}

// newFundedSigner generates a fresh signing key and funds its account with
// ether from the faucet so it can pay for gas.
func newFundedSigner(ctx *testcontext.Context, t *testing.T, network *testeth.Network, faucet accounts.Account) *keys.Signer {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	signer, err := keys.FromHex(common.Bytes2Hex(crypto.FromECDSA(key)))
	require.NoError(t, err)

	backend := network.Dial()
	defer backend.Close()

	nonce, err := backend.PendingNonceAt(ctx, faucet.Address)
	require.NoError(t, err)
	gasPrice, err := backend.SuggestGasPrice(ctx)
	require.NoError(t, err)

	to := signer.Address()
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    new(big.Int).Mul(big.NewInt(10), big.NewInt(1e18)),
		Gas:      21000,
		GasPrice: gasPrice,
	})

	opts := network.TransactOptions(ctx, faucet, int64(nonce))
	signedTx, err := opts.Signer(faucet.Address, tx)
	require.NoError(t, err)

	require.NoError(t, backend.SendTransaction(ctx, signedTx))
	_, err = network.WaitForTx(ctx, signedTx.Hash())
	require.NoError(t, err)

	return signer
}

func lowercaseHex(addr common.Address) string {
	return common.Bytes2Hex(addr.Bytes())
}
