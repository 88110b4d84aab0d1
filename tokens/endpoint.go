// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package tokens

import (
	"encoding/json"
	"net/http"
	"os"
	"runtime"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/zeebo/errs"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/erc20kit/erc20kit/api"
	"github.com/erc20kit/erc20kit/common"
)

// ErrEndpoint - tokens endpoint error class.
var ErrEndpoint = errs.Class("tokens endpoint")

// Endpoint exposes the bound ERC20 token contract over HTTP.
//
// architecture: Endpoint
type Endpoint struct {
	log    *zap.Logger
	client *Client
}

// NewEndpoint creates new tokens endpoint instance.
func NewEndpoint(log *zap.Logger, client *Client) *Endpoint {
	return &Endpoint{
		log:    log,
		client: client,
	}
}

// Register registers endpoint methods on API server subroute.
func (endpoint *Endpoint) Register(router *mux.Router) {
	router.HandleFunc("/supply", endpoint.TotalSupply).Methods(http.MethodGet)
	router.HandleFunc("/balance/{address}", endpoint.Balance).Methods(http.MethodGet)
	router.HandleFunc("/allowance/{owner}/{spender}", endpoint.Allowance).Methods(http.MethodGet)
	router.HandleFunc("/events/transfer/{tx}", endpoint.TransferEvents).Methods(http.MethodGet)
	router.HandleFunc("/events/approval/{tx}", endpoint.ApprovalEvents).Methods(http.MethodGet)
	router.HandleFunc("/approve", endpoint.Approve).Methods(http.MethodPost)
	router.HandleFunc("/transfer", endpoint.Transfer).Methods(http.MethodPost)
	router.HandleFunc("/transferfrom", endpoint.TransferFrom).Methods(http.MethodPost)
}

// TotalSupply endpoint retrieves total issued supply of the token.
func (endpoint *Endpoint) TotalSupply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var err error
	pc, _, _, _ := runtime.Caller(0)
	ctx, span := otel.Tracer(os.Getenv("SERVICE_NAME")).Start(ctx, runtime.FuncForPC(pc).Name())
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	supply, err := endpoint.client.TotalSupply(ctx)
	if err != nil {
		api.ServeJSONError(endpoint.log, w, http.StatusInternalServerError, ErrEndpoint.Wrap(err))
		return
	}

	response := struct {
		Supply string `json:"supply"`
	}{
		Supply: supply.String(),
	}
	if err = json.NewEncoder(w).Encode(response); err != nil {
		endpoint.log.Error("failed to write json supply response", zap.Error(ErrEndpoint.Wrap(err)))
	}
}

// Balance endpoint retrieves the token balance of an address.
func (endpoint *Endpoint) Balance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var err error
	pc, _, _, _ := runtime.Caller(0)
	ctx, span := otel.Tracer(os.Getenv("SERVICE_NAME")).Start(ctx, runtime.FuncForPC(pc).Name())
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	balance, err := endpoint.client.BalanceOf(ctx, mux.Vars(r)["address"])
	if err != nil {
		api.ServeJSONError(endpoint.log, w, statusOf(err), ErrEndpoint.Wrap(err))
		return
	}

	response := struct {
		Balance string `json:"balance"`
	}{
		Balance: balance.String(),
	}
	if err = json.NewEncoder(w).Encode(response); err != nil {
		endpoint.log.Error("failed to write json balance response", zap.Error(ErrEndpoint.Wrap(err)))
	}
}

// Allowance endpoint retrieves the amount of tokens a spender may move on behalf of an owner.
func (endpoint *Endpoint) Allowance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var err error
	pc, _, _, _ := runtime.Caller(0)
	ctx, span := otel.Tracer(os.Getenv("SERVICE_NAME")).Start(ctx, runtime.FuncForPC(pc).Name())
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	vars := mux.Vars(r)

	allowance, err := endpoint.client.AllowanceOf(ctx, vars["owner"], vars["spender"])
	if err != nil {
		api.ServeJSONError(endpoint.log, w, statusOf(err), ErrEndpoint.Wrap(err))
		return
	}

	response := struct {
		Allowance string `json:"allowance"`
	}{
		Allowance: allowance.String(),
	}
	if err = json.NewEncoder(w).Encode(response); err != nil {
		endpoint.log.Error("failed to write json allowance response", zap.Error(ErrEndpoint.Wrap(err)))
	}
}

// TransferEvents endpoint retrieves Transfer events emitted by the token contract in one transaction.
func (endpoint *Endpoint) TransferEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var err error
	pc, _, _, _ := runtime.Caller(0)
	ctx, span := otel.Tracer(os.Getenv("SERVICE_NAME")).Start(ctx, runtime.FuncForPC(pc).Name())
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	txHash, err := common.HashFromHex(mux.Vars(r)["tx"])
	if err != nil {
		api.ServeJSONError(endpoint.log, w, http.StatusBadRequest, ErrEndpoint.Wrap(err))
		return
	}

	events, err := endpoint.client.TransferEvents(ctx, endpoint.tokenAddress(r), txHash)
	if err != nil {
		api.ServeJSONError(endpoint.log, w, statusOf(err), ErrEndpoint.Wrap(err))
		return
	}

	if err = json.NewEncoder(w).Encode(events); err != nil {
		endpoint.log.Error("failed to write json transfer events response", zap.Error(ErrEndpoint.Wrap(err)))
	}
}

// ApprovalEvents endpoint retrieves Approval events emitted by the token contract in one transaction.
func (endpoint *Endpoint) ApprovalEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var err error
	pc, _, _, _ := runtime.Caller(0)
	ctx, span := otel.Tracer(os.Getenv("SERVICE_NAME")).Start(ctx, runtime.FuncForPC(pc).Name())
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	txHash, err := common.HashFromHex(mux.Vars(r)["tx"])
	if err != nil {
		api.ServeJSONError(endpoint.log, w, http.StatusBadRequest, ErrEndpoint.Wrap(err))
		return
	}

	events, err := endpoint.client.ApprovalEvents(ctx, endpoint.tokenAddress(r), txHash)
	if err != nil {
		api.ServeJSONError(endpoint.log, w, statusOf(err), ErrEndpoint.Wrap(err))
		return
	}

	if err = json.NewEncoder(w).Encode(events); err != nil {
		endpoint.log.Error("failed to write json approval events response", zap.Error(ErrEndpoint.Wrap(err)))
	}
}

// Approve endpoint submits an approve transaction for the spender and amount given as query parameters.
func (endpoint *Endpoint) Approve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var err error
	pc, _, _, _ := runtime.Caller(0)
	ctx, span := otel.Tracer(os.Getenv("SERVICE_NAME")).Start(ctx, runtime.FuncForPC(pc).Name())
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		api.ServeJSONError(endpoint.log, w, http.StatusBadRequest, ErrEndpoint.Wrap(err))
		return
	}

	hash, err := endpoint.client.Approve(ctx, r.URL.Query().Get("spender"), amount, nil)
	if err != nil {
		api.ServeJSONError(endpoint.log, w, statusOf(err), ErrEndpoint.Wrap(err))
		return
	}

	endpoint.serveTxHash(w, hash)
}

// Transfer endpoint submits a transfer transaction for the recipient and amount given as query parameters.
func (endpoint *Endpoint) Transfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var err error
	pc, _, _, _ := runtime.Caller(0)
	ctx, span := otel.Tracer(os.Getenv("SERVICE_NAME")).Start(ctx, runtime.FuncForPC(pc).Name())
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		api.ServeJSONError(endpoint.log, w, http.StatusBadRequest, ErrEndpoint.Wrap(err))
		return
	}

	hash, err := endpoint.client.Transfer(ctx, r.URL.Query().Get("to"), amount, nil)
	if err != nil {
		api.ServeJSONError(endpoint.log, w, statusOf(err), ErrEndpoint.Wrap(err))
		return
	}

	endpoint.serveTxHash(w, hash)
}

// TransferFrom endpoint submits a transferFrom transaction for the sender, recipient and amount given as query parameters.
func (endpoint *Endpoint) TransferFrom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var err error
	pc, _, _, _ := runtime.Caller(0)
	ctx, span := otel.Tracer(os.Getenv("SERVICE_NAME")).Start(ctx, runtime.FuncForPC(pc).Name())
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		api.ServeJSONError(endpoint.log, w, http.StatusBadRequest, ErrEndpoint.Wrap(err))
		return
	}

	hash, err := endpoint.client.TransferFrom(ctx, r.URL.Query().Get("from"), r.URL.Query().Get("to"), amount, nil)
	if err != nil {
		api.ServeJSONError(endpoint.log, w, statusOf(err), ErrEndpoint.Wrap(err))
		return
	}

	endpoint.serveTxHash(w, hash)
}

// tokenAddress returns the token contract requested by the client, falling
// back to the contract the endpoint is bound to.
func (endpoint *Endpoint) tokenAddress(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	return endpoint.client.ContractAddress().Hex()
}

func (endpoint *Endpoint) serveTxHash(w http.ResponseWriter, hash common.Hash) {
	response := struct {
		Transaction string `json:"transaction"`
	}{
		Transaction: hash.Hex(),
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		endpoint.log.Error("failed to write json transaction response", zap.Error(ErrEndpoint.Wrap(err)))
	}
}

// statusOf maps local validation failures to bad request and everything else
// to internal server error.
func statusOf(err error) int {
	if common.ErrInvalidAddress.Has(err) || common.ErrInvalidHash.Has(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
