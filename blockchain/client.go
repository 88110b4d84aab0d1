// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package blockchain

import (
	"context"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/zeebo/errs"

	"github.com/erc20kit/erc20kit/common"
)

// ErrClient is client error class.
var ErrClient = errs.Class("Client")

// Client is ethereum rpc client for making batch transaction receipt requests.
type Client struct {
	conn *rpc.Client
}

// Dial dials endpoint and initiates new rpc client.
func Dial(ctx context.Context, endpoint string) (*Client, error) {
	c, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	return &Client{conn: c}, nil
}

// Receipt retrieves the receipt of a single mined transaction.
func (client *Client) Receipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	var receipt types.Receipt
	err := client.conn.CallContext(ctx, &receipt, "eth_getTransactionReceipt", hash)
	if err != nil {
		return nil, ErrClient.Wrap(err)
	}
	return &receipt, nil
}

// Receipts retrieves receipts of all given transactions in one batch.
// Receipts are returned in the order of the requested hashes.
func (client *Client) Receipts(ctx context.Context, hashes []common.Hash) ([]*types.Receipt, error) {
	if len(hashes) == 0 {
		return []*types.Receipt{}, nil
	}

	var batch batchRequest

	for _, hash := range hashes {
		batch.Add(hash)
	}
	receipts, err := client.batchCall(ctx, batch)
	if err != nil {
		return nil, ErrClient.Wrap(err)
	}

	return receipts, nil
}

// Close closes underlying rpc connection.
func (client *Client) Close() {
	client.conn.Close()
}

// batchRequest holds batch elements and receipts needed to execute batch call.
type batchRequest struct {
	Elements []rpc.BatchElem
	Receipts []*types.Receipt
}

// Add adds new transaction receipt to batch request.
func (batch *batchRequest) Add(hash common.Hash) {
	receipt := new(types.Receipt)

	elem := rpc.BatchElem{
		Method: "eth_getTransactionReceipt",
		Args:   []interface{}{hash},
		Result: receipt,
	}
	batch.Elements = append(batch.Elements, elem)
	batch.Receipts = append(batch.Receipts, receipt)
}

// batchCall executes transaction receipt batch request. Fails if any request returned error.
func (client *Client) batchCall(ctx context.Context, batch batchRequest) ([]*types.Receipt, error) {
	err := client.conn.BatchCallContext(ctx, batch.Elements)
	if err != nil {
		return nil, err
	}

	for _, elem := range batch.Elements {
		err = errs.Combine(err, elem.Error)
		if err != nil {
			continue
		}
	}
	if err != nil {
		return nil, err
	}

	return batch.Receipts, nil
}
