// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package testeth

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/errs"
)

func TestReceiptPending(t *testing.T) {
	require.True(t, receiptPending(ethereum.NotFound))
	require.True(t, receiptPending(fmt.Errorf("receipt: %w", ethereum.NotFound)))
	require.True(t, receiptPending(errs.New("transaction indexing is in progress")))

	require.False(t, receiptPending(nil))
	require.False(t, receiptPending(errs.New("connection refused")))
}
