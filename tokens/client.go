// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package tokens

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"github.com/erc20kit/erc20kit/blockchain"
	"github.com/erc20kit/erc20kit/common"
	"github.com/erc20kit/erc20kit/keys"
	"github.com/erc20kit/erc20kit/tokens/erc20"
)

// ErrClient - tokens client error class.
var ErrClient = errs.Class("tokens client")

var erc20ABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc20.ERC20ABI))
	if err != nil {
		panic(err)
	}
	return parsed
}()

var (
	transferTopic = erc20ABI.Events["Transfer"].ID
	approvalTopic = erc20ABI.Events["Approval"].ID
)

// Client is a typed client bound to a single deployed ERC20 token contract.
//
// The client holds no state beyond its construction parameters: every
// operation dials the configured endpoint, performs exactly one round trip
// and returns. Node side failures are passed through unmodified apart from
// the package error class wrap.
//
// architecture: Service
type Client struct {
	log      *zap.Logger
	endpoint string
	token    common.Address
	signer   *keys.Signer
}

// NewClient creates new token client instance. Signer may be nil, in which
// case only read operations, simulations and event retrieval are available.
func NewClient(log *zap.Logger, endpoint string, token common.Address, signer *keys.Signer) *Client {
	return &Client{
		log:      log,
		endpoint: endpoint,
		token:    token,
		signer:   signer,
	}
}

// ContractAddress returns the address of the bound token contract.
func (client *Client) ContractAddress() common.Address {
	return client.token
}

// Approve submits a transaction authorizing spender to move value tokens on
// behalf of the signing account and returns the transaction hash.
func (client *Client) Approve(ctx context.Context, spender string, value decimal.Decimal, params *TxParams) (_ common.Hash, err error) {
	defer mon.Task()(&ctx)(&err)

	spenderAddr, err := common.AddressFromHex(spender)
	if err != nil {
		return common.Hash{}, ErrClient.Wrap(err)
	}
	amount, err := client.amount(value)
	if err != nil {
		return common.Hash{}, err
	}

	return client.submit(ctx, func(token *erc20.ERC20, opts *bind.TransactOpts) (*types.Transaction, error) {
		return token.Approve(opts, spenderAddr, amount)
	}, params)
}

// Transfer submits a transaction moving value tokens from the signing account
// to the given address and returns the transaction hash.
func (client *Client) Transfer(ctx context.Context, to string, value decimal.Decimal, params *TxParams) (_ common.Hash, err error) {
	defer mon.Task()(&ctx)(&err)

	toAddr, err := common.AddressFromHex(to)
	if err != nil {
		return common.Hash{}, ErrClient.Wrap(err)
	}
	amount, err := client.amount(value)
	if err != nil {
		return common.Hash{}, err
	}

	return client.submit(ctx, func(token *erc20.ERC20, opts *bind.TransactOpts) (*types.Transaction, error) {
		return token.Transfer(opts, toAddr, amount)
	}, params)
}

// TransferFrom submits a transaction moving value tokens between the two
// given addresses, authorized by a prior approval for the signing account,
// and returns the transaction hash. No allowance or balance precheck is done
// locally, an insufficient approval surfaces as a reverted execution.
func (client *Client) TransferFrom(ctx context.Context, from, to string, value decimal.Decimal, params *TxParams) (_ common.Hash, err error) {
	defer mon.Task()(&ctx)(&err)

	fromAddr, err := common.AddressFromHex(from)
	if err != nil {
		return common.Hash{}, ErrClient.Wrap(err)
	}
	toAddr, err := common.AddressFromHex(to)
	if err != nil {
		return common.Hash{}, ErrClient.Wrap(err)
	}
	amount, err := client.amount(value)
	if err != nil {
		return common.Hash{}, err
	}

	return client.submit(ctx, func(token *erc20.ERC20, opts *bind.TransactOpts) (*types.Transaction, error) {
		return token.TransferFrom(opts, fromAddr, toAddr, amount)
	}, params)
}

// SimulateApprove simulates an approve call without altering chain state and
// returns the boolean the contract would return.
func (client *Client) SimulateApprove(ctx context.Context, spender string, value decimal.Decimal, params *TxParams) (_ bool, err error) {
	defer mon.Task()(&ctx)(&err)

	spenderAddr, err := common.AddressFromHex(spender)
	if err != nil {
		return false, ErrClient.Wrap(err)
	}
	amount, err := client.amount(value)
	if err != nil {
		return false, err
	}
	return client.simulate(ctx, params, "approve", spenderAddr, amount)
}

// SimulateTransfer simulates a transfer call without altering chain state and
// returns the boolean the contract would return.
func (client *Client) SimulateTransfer(ctx context.Context, to string, value decimal.Decimal, params *TxParams) (_ bool, err error) {
	defer mon.Task()(&ctx)(&err)

	toAddr, err := common.AddressFromHex(to)
	if err != nil {
		return false, ErrClient.Wrap(err)
	}
	amount, err := client.amount(value)
	if err != nil {
		return false, err
	}
	return client.simulate(ctx, params, "transfer", toAddr, amount)
}

// SimulateTransferFrom simulates a transferFrom call without altering chain
// state and returns the boolean the contract would return.
func (client *Client) SimulateTransferFrom(ctx context.Context, from, to string, value decimal.Decimal, params *TxParams) (_ bool, err error) {
	defer mon.Task()(&ctx)(&err)

	fromAddr, err := common.AddressFromHex(from)
	if err != nil {
		return false, ErrClient.Wrap(err)
	}
	toAddr, err := common.AddressFromHex(to)
	if err != nil {
		return false, ErrClient.Wrap(err)
	}
	amount, err := client.amount(value)
	if err != nil {
		return false, err
	}
	return client.simulate(ctx, params, "transferFrom", fromAddr, toAddr, amount)
}

// TotalSupply queries total issued supply of the token.
func (client *Client) TotalSupply(ctx context.Context) (_ *big.Int, err error) {
	defer mon.Task()(&ctx)(&err)

	backend, err := ethclient.DialContext(ctx, client.endpoint)
	if err != nil {
		return nil, err
	}
	defer backend.Close()

	token, err := erc20.NewERC20(client.token, backend)
	if err != nil {
		return nil, ErrClient.Wrap(err)
	}
	supply, err := token.TotalSupply(&bind.CallOpts{Context: ctx})
	return supply, ErrClient.Wrap(err)
}

// BalanceOf queries the token balance of the owner address.
func (client *Client) BalanceOf(ctx context.Context, owner string) (_ *big.Int, err error) {
	defer mon.Task()(&ctx)(&err)

	ownerAddr, err := common.AddressFromHex(owner)
	if err != nil {
		return nil, ErrClient.Wrap(err)
	}

	backend, err := ethclient.DialContext(ctx, client.endpoint)
	if err != nil {
		return nil, err
	}
	defer backend.Close()

	token, err := erc20.NewERC20(client.token, backend)
	if err != nil {
		return nil, ErrClient.Wrap(err)
	}
	balance, err := token.BalanceOf(&bind.CallOpts{Context: ctx}, ownerAddr)
	return balance, ErrClient.Wrap(err)
}

// AllowanceOf queries the amount of tokens the owner has approved the
// spender to transfer on its behalf.
func (client *Client) AllowanceOf(ctx context.Context, owner, spender string) (_ *big.Int, err error) {
	defer mon.Task()(&ctx)(&err)

	ownerAddr, err := common.AddressFromHex(owner)
	if err != nil {
		return nil, ErrClient.Wrap(err)
	}
	spenderAddr, err := common.AddressFromHex(spender)
	if err != nil {
		return nil, ErrClient.Wrap(err)
	}

	backend, err := ethclient.DialContext(ctx, client.endpoint)
	if err != nil {
		return nil, err
	}
	defer backend.Close()

	token, err := erc20.NewERC20(client.token, backend)
	if err != nil {
		return nil, ErrClient.Wrap(err)
	}
	allowance, err := token.Allowance(&bind.CallOpts{Context: ctx}, ownerAddr, spenderAddr)
	return allowance, ErrClient.Wrap(err)
}

// TransferEvents fetches the receipt of the given transaction and decodes all
// Transfer log entries the token contract emitted in it. A receipt without
// matching entries yields an empty slice.
func (client *Client) TransferEvents(ctx context.Context, tokenAddress string, txHash common.Hash) (_ []TransferEvent, err error) {
	defer mon.Task()(&ctx)(&err)

	tokenAddr, err := common.AddressFromHex(tokenAddress)
	if err != nil {
		return nil, ErrClient.Wrap(err)
	}

	backend, err := ethclient.DialContext(ctx, client.endpoint)
	if err != nil {
		return nil, err
	}
	defer backend.Close()

	receipt, err := backend.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, ErrClient.Wrap(err)
	}
	return client.transferEvents(tokenAddr, receipt)
}

// ApprovalEvents fetches the receipt of the given transaction and decodes all
// Approval log entries the token contract emitted in it. A receipt without
// matching entries yields an empty slice.
func (client *Client) ApprovalEvents(ctx context.Context, tokenAddress string, txHash common.Hash) (_ []ApprovalEvent, err error) {
	defer mon.Task()(&ctx)(&err)

	tokenAddr, err := common.AddressFromHex(tokenAddress)
	if err != nil {
		return nil, ErrClient.Wrap(err)
	}

	backend, err := ethclient.DialContext(ctx, client.endpoint)
	if err != nil {
		return nil, err
	}
	defer backend.Close()

	receipt, err := backend.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, ErrClient.Wrap(err)
	}
	return client.approvalEvents(tokenAddr, receipt)
}

// TransferEventsBatch decodes Transfer log entries of several transactions,
// fetching all receipts in a single rpc batch request.
func (client *Client) TransferEventsBatch(ctx context.Context, tokenAddress string, txHashes []common.Hash) (_ []TransferEvent, err error) {
	defer mon.Task()(&ctx)(&err)

	tokenAddr, err := common.AddressFromHex(tokenAddress)
	if err != nil {
		return nil, ErrClient.Wrap(err)
	}

	conn, err := blockchain.Dial(ctx, client.endpoint)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	receipts, err := conn.Receipts(ctx, txHashes)
	if err != nil {
		return nil, ErrClient.Wrap(err)
	}

	events := make([]TransferEvent, 0)
	for _, receipt := range receipts {
		decoded, err := client.transferEvents(tokenAddr, receipt)
		if err != nil {
			return nil, err
		}
		events = append(events, decoded...)
	}
	return events, nil
}

// ApprovalEventsBatch decodes Approval log entries of several transactions,
// fetching all receipts in a single rpc batch request.
func (client *Client) ApprovalEventsBatch(ctx context.Context, tokenAddress string, txHashes []common.Hash) (_ []ApprovalEvent, err error) {
	defer mon.Task()(&ctx)(&err)

	tokenAddr, err := common.AddressFromHex(tokenAddress)
	if err != nil {
		return nil, ErrClient.Wrap(err)
	}

	conn, err := blockchain.Dial(ctx, client.endpoint)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	receipts, err := conn.Receipts(ctx, txHashes)
	if err != nil {
		return nil, ErrClient.Wrap(err)
	}

	events := make([]ApprovalEvent, 0)
	for _, receipt := range receipts {
		decoded, err := client.approvalEvents(tokenAddr, receipt)
		if err != nil {
			return nil, err
		}
		events = append(events, decoded...)
	}
	return events, nil
}

// Ping checks if the configured rpc endpoint is reachable.
func (client *Client) Ping(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)

	backend, err := ethclient.DialContext(ctx, client.endpoint)
	if err != nil {
		return err
	}
	defer backend.Close()

	_, err = backend.ChainID(ctx)
	return err
}

// amount truncates the token amount toward zero to a whole number of base
// units before it is encoded into call data. Fractional inputs are a
// frequent source of fund loss bugs, so truncation is logged.
func (client *Client) amount(value decimal.Decimal) (*big.Int, error) {
	truncated := value.Truncate(0)
	if !truncated.Equal(value) {
		client.log.Warn("fractional token amount truncated",
			zap.String("value", value.String()),
			zap.String("truncated", truncated.String()))
	}
	if truncated.Sign() < 0 {
		return nil, ErrClient.New("negative token amount %s", value.String())
	}
	return truncated.BigInt(), nil
}

func (client *Client) submit(ctx context.Context, invoke func(*erc20.ERC20, *bind.TransactOpts) (*types.Transaction, error), params *TxParams) (common.Hash, error) {
	if client.signer == nil {
		return common.Hash{}, ErrClient.New("no signing key configured")
	}

	backend, err := ethclient.DialContext(ctx, client.endpoint)
	if err != nil {
		return common.Hash{}, err
	}
	defer backend.Close()

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return common.Hash{}, ErrClient.Wrap(err)
	}
	opts, err := client.signer.TransactOpts(chainID)
	if err != nil {
		return common.Hash{}, ErrClient.Wrap(err)
	}
	opts.Context = ctx
	if params != nil {
		opts.Nonce = params.Nonce
		opts.GasLimit = params.GasLimit
		opts.GasPrice = params.GasPrice
		opts.Value = params.Value
	}

	token, err := erc20.NewERC20(client.token, backend)
	if err != nil {
		return common.Hash{}, ErrClient.Wrap(err)
	}
	tx, err := invoke(token, opts)
	if err != nil {
		return common.Hash{}, ErrClient.Wrap(err)
	}
	return tx.Hash(), nil
}

func (client *Client) simulate(ctx context.Context, params *TxParams, method string, args ...interface{}) (bool, error) {
	backend, err := ethclient.DialContext(ctx, client.endpoint)
	if err != nil {
		return false, err
	}
	defer backend.Close()

	token, err := erc20.NewERC20(client.token, backend)
	if err != nil {
		return false, ErrClient.Wrap(err)
	}

	opts := &bind.CallOpts{Context: ctx}
	if params != nil && params.From != nil {
		opts.From = *params.From
	} else if client.signer != nil {
		opts.From = client.signer.Address()
	}

	var out []interface{}
	raw := &erc20.ERC20Raw{Contract: token}
	if err := raw.Call(opts, &out, method, args...); err != nil {
		return false, ErrClient.Wrap(err)
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// transferEvents decodes all Transfer logs the given token emitted in the
// receipt. Logs of other contracts and other event signatures are skipped.
func (client *Client) transferEvents(token common.Address, receipt *types.Receipt) ([]TransferEvent, error) {
	filterer, err := erc20.NewERC20Filterer(token, nil)
	if err != nil {
		return nil, ErrClient.Wrap(err)
	}

	events := make([]TransferEvent, 0)
	for _, entry := range receipt.Logs {
		if entry.Address != token {
			continue
		}
		if len(entry.Topics) == 0 || entry.Topics[0] != transferTopic {
			continue
		}
		decoded, err := filterer.ParseTransfer(*entry)
		if err != nil {
			client.log.Warn("skipping undecodable transfer log",
				zap.String("tx", entry.TxHash.String()),
				zap.Uint("log index", entry.Index),
				zap.Error(err))
			continue
		}
		events = append(events, TransferEvent{
			Token:       token,
			From:        decoded.From,
			To:          decoded.To,
			TokenValue:  decoded.Value,
			BlockHash:   decoded.Raw.BlockHash,
			BlockNumber: int64(decoded.Raw.BlockNumber),
			Transaction: decoded.Raw.TxHash,
			LogIndex:    int(decoded.Raw.Index),
		})
	}
	return events, nil
}

// approvalEvents decodes all Approval logs the given token emitted in the
// receipt. Logs of other contracts and other event signatures are skipped.
func (client *Client) approvalEvents(token common.Address, receipt *types.Receipt) ([]ApprovalEvent, error) {
	filterer, err := erc20.NewERC20Filterer(token, nil)
	if err != nil {
		return nil, ErrClient.Wrap(err)
	}

	events := make([]ApprovalEvent, 0)
	for _, entry := range receipt.Logs {
		if entry.Address != token {
			continue
		}
		if len(entry.Topics) == 0 || entry.Topics[0] != approvalTopic {
			continue
		}
		decoded, err := filterer.ParseApproval(*entry)
		if err != nil {
			client.log.Warn("skipping undecodable approval log",
				zap.String("tx", entry.TxHash.String()),
				zap.Uint("log index", entry.Index),
				zap.Error(err))
			continue
		}
		events = append(events, ApprovalEvent{
			Token:       token,
			Owner:       decoded.Owner,
			Spender:     decoded.Spender,
			TokenValue:  decoded.Value,
			BlockHash:   decoded.Raw.BlockHash,
			BlockNumber: int64(decoded.Raw.BlockNumber),
			Transaction: decoded.Raw.TxHash,
			LogIndex:    int(decoded.Raw.Index),
		})
	}
	return events, nil
}
