// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package tokens_test

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storj.io/common/testcontext"

	"github.com/erc20kit/erc20kit/api"
	"github.com/erc20kit/erc20kit/private/testeth"
	"github.com/erc20kit/erc20kit/private/testeth/testtoken"
	"github.com/erc20kit/erc20kit/tokens"
)

func TestEndpoint(t *testing.T) {
	testeth.Run(t, nil, func(ctx *testcontext.Context, t *testing.T, tokenAddress common.Address, network *testeth.Network) {
		logger := zaptest.NewLogger(t)

		lis, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		client := tokens.NewClient(logger.Named("client"), network.HTTPEndpoint(), tokenAddress, nil)
		endpoint := tokens.NewEndpoint(logger.Named("endpoint"), client)

		apiServer := api.NewServer(logger, lis, map[string]string{"eu1": "eu1secret"})
		apiServer.NewAPI("/tokens", endpoint.Register)
		ctx.Go(func() error {
			return apiServer.Run(ctx)
		})
		defer ctx.Check(apiServer.Close)

		backend := network.Dial()
		defer backend.Close()

		tk, err := testtoken.NewTestToken(tokenAddress, backend)
		require.NoError(t, err)

		accounts := network.Accounts()

		opts := network.TransactOptions(ctx, accounts[0], 1)
		tx, err := tk.Transfer(opts, accounts[1].Address, big.NewInt(1000000))
		require.NoError(t, err)
		_, err = network.WaitForTx(ctx, tx.Hash())
		require.NoError(t, err)

		get := func(t *testing.T, path string) *http.Response {
			url := fmt.Sprintf("http://%s/api/v0/tokens%s", lis.Addr().String(), path)
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			require.NoError(t, err)
			req.SetBasicAuth("eu1", "eu1secret")

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			return resp
		}

		t.Run("requires authentication", func(t *testing.T) {
			url := fmt.Sprintf("http://%s/api/v0/tokens/supply", lis.Addr().String())
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer ctx.Check(resp.Body.Close)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})

		t.Run("balance", func(t *testing.T) {
			resp := get(t, "/balance/"+accounts[1].Address.Hex())
			defer ctx.Check(resp.Body.Close)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var body struct {
				Balance string `json:"balance"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.Equal(t, "1000000", body.Balance)
		})

		t.Run("balance of invalid address", func(t *testing.T) {
			resp := get(t, "/balance/nothex")
			defer ctx.Check(resp.Body.Close)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})

		t.Run("supply", func(t *testing.T) {
			resp := get(t, "/supply")
			defer ctx.Check(resp.Body.Close)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var body struct {
				Supply string `json:"supply"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.NotEmpty(t, body.Supply)
		})

		t.Run("allowance of untouched pair is zero", func(t *testing.T) {
			resp := get(t, fmt.Sprintf("/allowance/%s/%s", accounts[1].Address.Hex(), accounts[2].Address.Hex()))
			defer ctx.Check(resp.Body.Close)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var body struct {
				Allowance string `json:"allowance"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.Equal(t, "0", body.Allowance)
		})

		t.Run("transfer events", func(t *testing.T) {
			resp := get(t, "/events/transfer/"+tx.Hash().Hex())
			defer ctx.Check(resp.Body.Close)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var events []tokens.TransferEvent
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
			require.Len(t, events, 1)
			require.Equal(t, accounts[0].Address, events[0].From)
			require.Equal(t, accounts[1].Address, events[0].To)
			require.EqualValues(t, 1000000, events[0].TokenValue.Int64())
		})

		t.Run("transfer events of malformed hash", func(t *testing.T) {
			resp := get(t, "/events/transfer/nothash")
			defer ctx.Check(resp.Body.Close)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})

		t.Run("approval events of transfer tx is empty", func(t *testing.T) {
			resp := get(t, "/events/approval/"+tx.Hash().Hex())
			defer ctx.Check(resp.Body.Close)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var events []tokens.ApprovalEvent
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
			require.Empty(t, events)
		})
	})
}
