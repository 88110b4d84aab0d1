// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package blockchain_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"storj.io/common/testcontext"

	"github.com/erc20kit/erc20kit/blockchain"
	"github.com/erc20kit/erc20kit/private/testeth"
	"github.com/erc20kit/erc20kit/private/testeth/testtoken"
)

func TestReceipts(t *testing.T) {
	testeth.Run(t, nil, func(ctx *testcontext.Context, t *testing.T, tokenAddress common.Address, network *testeth.Network) {
		backend := network.Dial()
		defer backend.Close()

		tk, err := testtoken.NewTestToken(tokenAddress, backend)
		require.NoError(t, err)

		accs := network.Accounts()

		var hashes []common.Hash
		for i := 0; i < 3; i++ {
			nonce, err := backend.PendingNonceAt(ctx, accs[0].Address)
			require.NoError(t, err)

			opts := network.TransactOptions(ctx, accs[0], int64(nonce))
			tx, err := tk.Transfer(opts, accs[1].Address, big.NewInt(int64(100+i)))
			require.NoError(t, err)

			_, err = network.WaitForTx(ctx, tx.Hash())
			require.NoError(t, err)
			hashes = append(hashes, tx.Hash())
		}

		client, err := blockchain.Dial(ctx, network.HTTPEndpoint())
		require.NoError(t, err)
		defer client.Close()

		t.Run("single receipt", func(t *testing.T) {
			receipt, err := client.Receipt(ctx, hashes[0])
			require.NoError(t, err)
			require.Equal(t, hashes[0], receipt.TxHash)
			require.EqualValues(t, 1, receipt.Status)
		})

		t.Run("batch preserves request order", func(t *testing.T) {
			receipts, err := client.Receipts(ctx, hashes)
			require.NoError(t, err)
			require.Len(t, receipts, len(hashes))
			for i, receipt := range receipts {
				require.Equal(t, hashes[i], receipt.TxHash)
			}
		})

		t.Run("empty batch", func(t *testing.T) {
			receipts, err := client.Receipts(ctx, nil)
			require.NoError(t, err)
			require.Empty(t, receipts)
		})
	})
}
