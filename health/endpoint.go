// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package health

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/spacemonkeygo/monkit/v3"
	"go.uber.org/zap"

	"github.com/erc20kit/erc20kit/tokens"
)

var mon = monkit.Package()

// Endpoint for liveness and readiness checks.
//
// architecture: Endpoint
type Endpoint struct {
	log         *zap.Logger
	tokenClient *tokens.Client
}

// NewEndpoint creates a new endpoint instance for the health checker.
func NewEndpoint(log *zap.Logger, tokenClient *tokens.Client) *Endpoint {
	return &Endpoint{
		log:         log,
		tokenClient: tokenClient,
	}
}

// Register registers endpoint methods on API server subroute.
func (endpoint *Endpoint) Register(router *mux.Router) {
	router.HandleFunc("/live", endpoint.Live).Methods(http.MethodGet)
	router.HandleFunc("/ready", endpoint.Ready).Methods(http.MethodGet)
}

// Live checks if the erc20kit service is running.
func (endpoint *Endpoint) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Ready checks whether the configured ethereum rpc endpoint is reachable.
// Returns 503 if it is not, 200 indicates the service is ready for use.
func (endpoint *Endpoint) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := http.StatusOK
	message := ""

	if err := endpoint.tokenClient.Ping(ctx); err != nil {
		status = http.StatusServiceUnavailable
		message += "blockchain:failure\n"
		mon.Event("health-blockchain-failure")
		endpoint.log.Error(fmt.Sprintf("blockchain failure: %s\n", err.Error()))
	} else {
		message += "blockchain:ok\n"
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(message)); err != nil {
		endpoint.log.Error(fmt.Sprintf("response writer error: %s\n", err.Error()))
	}
}
