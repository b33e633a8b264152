// Command gateway runs the intent-aware LLM gateway HTTP server.
package main

import (
	"flag"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/archrouter/gateway/internal/catalog"
	"github.com/archrouter/gateway/internal/config"
	"github.com/archrouter/gateway/internal/gatewayproxy"
	"github.com/archrouter/gateway/internal/routerclient"
	"github.com/archrouter/gateway/internal/telemetry"
)

var debugMode bool

func main() {
	flag.BoolVar(&debugMode, "debug", false, "enable debug logging")
	flag.Parse()

	logger, err := telemetry.NewLogger(debugMode)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	telemetry.InitPropagation()

	settings, err := config.Load(config.ConfigPathFromEnv())
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	providers := make([]catalog.Provider, len(settings.Providers))
	for i, p := range settings.Providers {
		providers[i] = catalog.Provider{Name: p.Name, Model: p.Model, Usage: p.Usage}
	}
	cat := catalog.New(providers)

	router := routerclient.New(cat, settings.UpstreamEndpoint, settings.RouterModel, settings.RouterProvider, logger)

	handler := &gatewayproxy.Handler{
		Catalog:          cat,
		Router:           router,
		UpstreamEndpoint: settings.UpstreamEndpoint,
		Client:           &http.Client{},
		Logger:           logger,
	}

	mux := chi.NewRouter()
	mux.Use(gatewayproxy.WithRequestID)
	handler.Mount(mux)

	logger.Info("gateway listening", zap.String("bind_address", settings.BindAddress))
	if err := http.ListenAndServe(settings.BindAddress, mux); err != nil {
		logger.Fatal("gateway server exited", zap.Error(err))
	}
}
