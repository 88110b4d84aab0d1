// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package tokens

import (
	"math/big"

	"github.com/spacemonkeygo/monkit/v3"

	"github.com/erc20kit/erc20kit/common"
)

var mon = monkit.Package()

// TxParams holds optional overrides applied to a submitted transaction.
// Zero fields fall back to what the node estimates or the signer derives.
// From is only honored by simulations, where it overrides the caller account.
type TxParams struct {
	Nonce    *big.Int
	GasLimit uint64
	GasPrice *big.Int
	Value    *big.Int
	From     *common.Address
}

// TransferEvent is a decoded Transfer log entry emitted by the token contract.
type TransferEvent struct {
	Token       common.Address
	From        common.Address
	To          common.Address
	TokenValue  *big.Int
	BlockHash   common.Hash
	BlockNumber int64
	Transaction common.Hash
	LogIndex    int
}

// ApprovalEvent is a decoded Approval log entry emitted by the token contract.
type ApprovalEvent struct {
	Token       common.Address
	Owner       common.Address
	Spender     common.Address
	TokenValue  *big.Int
	BlockHash   common.Hash
	BlockNumber int64
	Transaction common.Hash
	LogIndex    int
}
