// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package testeth

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/erc20kit/erc20kit/private/testeth/testtoken"
)

// DeployToken deploys test token to provided network using developer account.
// The entire supply is minted to the developer.
func DeployToken(ctx context.Context, network *Network) (common.Address, error) {
	client := network.Dial()
	defer client.Close()

	nonce, err := client.PendingNonceAt(ctx, network.developer.Address)
	if err != nil {
		return common.Address{}, err
	}

	opts := network.TransactOptions(ctx, network.developer, int64(nonce))
	addr, tx, _, err := testtoken.DeployTestToken(opts, client)
	if err != nil {
		return common.Address{}, err
	}

	if _, err = network.WaitForTx(ctx, tx.Hash()); err != nil {
		return common.Address{}, err
	}
	return addr, nil
}
