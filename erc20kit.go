// Copyright (C) 2025 The erc20kit Authors.
// See LICENSE for copying information.

package erc20kit

import (
	"context"
	"net"
	"os"
	"strings"
	"time"

	"github.com/zeebo/errs"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storj.io/storj/private/lifecycle"

	"github.com/erc20kit/erc20kit/api"
	"github.com/erc20kit/erc20kit/common"
	"github.com/erc20kit/erc20kit/health"
	"github.com/erc20kit/erc20kit/keys"
	"github.com/erc20kit/erc20kit/tokens"
)

// Config wraps erc20kit configuration.
type Config struct {
	Tokens tokens.Config
	API    api.Config
}

// App is the erc20kit process that runs API endpoint.
//
// architecture: Peer
type App struct {
	Log      *zap.Logger
	Servers  *lifecycle.Group
	Services *lifecycle.Group

	Tokens struct {
		Client   *tokens.Client
		Endpoint *tokens.Endpoint
	}

	API struct {
		Listener net.Listener
		Server   *api.Server
	}

	Health struct {
		Endpoint *health.Endpoint
	}
}

// NewApp creates new erc20kit application instance.
func NewApp(log *zap.Logger, config Config) (*App, error) {
	app := &App{
		Log: log,

		Servers:  lifecycle.NewGroup(log.Named("servers")),
		Services: lifecycle.NewGroup(log.Named("services")),
	}

	{ // setup tracing
		err := initTracer()
		if err != nil {
			return nil, err
		}
	}

	{ // tokens
		token, err := common.AddressFromHex(config.Tokens.Contract)
		if err != nil {
			return nil, err
		}

		signer, err := signerFromConfig(config.Tokens)
		if err != nil {
			return nil, err
		}

		app.Tokens.Client = tokens.NewClient(log.Named("tokens:client"),
			config.Tokens.Endpoint,
			token,
			signer)

		app.Tokens.Endpoint = tokens.NewEndpoint(log.Named("tokens:endpoint"), app.Tokens.Client)
	}

	{ // health check
		app.Health.Endpoint = health.NewEndpoint(log.Named("health:endpoint"), app.Tokens.Client)
	}

	{ // API
		var err error

		app.API.Listener, err = net.Listen("tcp", config.API.Address)
		if err != nil {
			return nil, err
		}

		apiKeys, err := getKeyBytes(config.API.Keys)
		if err != nil {
			return nil, err
		}
		app.API.Server = api.NewServer(log.Named("api:server"), app.API.Listener, apiKeys)
		app.API.Server.NewAPI("/tokens", app.Tokens.Endpoint.Register)
		app.API.Server.NewAPI("/health", app.Health.Endpoint.Register)

		app.Servers.Add(lifecycle.Item{
			Name:  "api",
			Run:   app.API.Server.Run,
			Close: app.API.Server.Close,
		})
	}

	err := app.API.Server.LogRoutes()
	if err != nil {
		return app, err
	}
	return app, nil
}

// signerFromConfig builds the transaction signer from configuration. A raw
// private key takes precedence over a mnemonic, no key material configured
// means read-only operation.
func signerFromConfig(config tokens.Config) (*keys.Signer, error) {
	switch {
	case config.PrivateKey != "":
		return keys.FromHex(config.PrivateKey)
	case config.Mnemonic != "":
		return keys.FromMnemonic(config.Mnemonic, config.AccountIndex)
	default:
		return nil, nil
	}
}

func initTracer() error {
	ctx := context.Background()

	traceClient := otlptracegrpc.NewClient(
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(os.Getenv("EXPORTER_ENDPOINT")))
	sctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	traceExp, err := otlptrace.New(sctx, traceClient)
	if err != nil {
		return err
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(
			// the service name used to display traces in backends
			semconv.ServiceNameKey.String(os.Getenv("SERVICE_NAME")),
		),
	)
	if err != nil {
		return err
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExp)
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp),
	)

	// set global propagator to tracecontext (the default is no-op).
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	otel.SetTracerProvider(tracerProvider)
	return nil
}

// Run runs erc20kit until it's either closed or it errors.
func (app *App) Run(ctx context.Context) (err error) {
	group, ctx := errgroup.WithContext(ctx)

	app.Servers.Run(ctx, group)
	app.Services.Run(ctx, group)

	return group.Wait()
}

// Close closes all the resources.
func (app *App) Close() error {
	var errList errs.Group
	errList.Add(app.Servers.Close())
	errList.Add(app.Services.Close())
	return errList.Err()
}

func getKeyBytes(keys []string) (map[string]string, error) {
	apiKeys := make(map[string]string)
	for _, key := range keys {
		parts := strings.SplitN(key, ":", 2)
		if len(parts) != 2 {
			return apiKeys, errs.New("Api keys should be defined in user:secret form, but it was %s", key)
		}
		apiKeys[parts[0]] = parts[1]
	}
	return apiKeys, nil
}
