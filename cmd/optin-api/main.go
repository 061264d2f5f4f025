// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package main is the entry point of the GetResponse opt-in service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goa.design/clue/health"
	"golang.org/x/sync/errgroup"

	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/cmd/optin-api/service"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/render"
	internalService "github.com/linuxfoundation/lfx-v2-getresponse-optin-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/constants"
	logging "github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/log"
	"github.com/linuxfoundation/lfx-v2-getresponse-optin-service/pkg/utils"
)

const defaultPort = "8080"

func main() {
	var (
		port      = flag.String("p", envOr("PORT", defaultPort), "listen port")
		bind      = flag.String("bind", "*", "interface to bind on")
		uninstall = flag.Bool("uninstall", false, "remove the stored settings and license status, then exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logging.InitStructureLogConfig()

	if err := run(*bind, *port, *uninstall); err != nil {
		slog.Error("service stopped with error", "error", err, logging.PriorityCritical())
		os.Exit(1)
	}
}

func run(bind, port string, uninstall bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := utils.SetupOTelSDK(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up OpenTelemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down OpenTelemetry", "error", err)
		}
	}()

	store := service.SettingsStore(ctx)
	tokens := service.FormTokens(ctx)
	settings := internalService.NewSettingsOrchestrator(
		internalService.WithSettingsStore(store),
		internalService.WithFormTokens(tokens),
		internalService.WithInstallDefaults(service.InstallDefaults(ctx)),
	)

	if uninstall {
		return settings.Uninstall(ctx)
	}
	if err := settings.Install(ctx); err != nil {
		return fmt.Errorf("failed to install settings: %w", err)
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		return err
	}

	campaigns := service.CampaignClient(ctx)
	lists := internalService.NewListSynchronizer(campaigns)
	processor := internalService.NewOptInProcessor(
		internalService.WithCampaignClient(campaigns),
		internalService.WithMessagePublisher(service.MessagePublisher(ctx)),
	)

	svc := service.NewOptInService(service.Dependencies{
		Auth:      service.AuthService(ctx),
		Settings:  settings,
		Lists:     lists,
		Refresher: internalService.NewRefresher(lists),
		Processor: processor,
		Licenses: internalService.NewLicenseOrchestrator(
			internalService.WithLicenseClient(service.LicenseClient(ctx)),
			internalService.WithLicenseStore(store),
			internalService.WithLicenseTokens(tokens),
		),
		Tokens:   tokens,
		Renderer: renderer,
		Pingers:  []health.Pinger{service.SettingsPinger(ctx)},
	})

	natsClient := service.GetNATSClient(ctx)
	if natsClient != nil {
		defer func() {
			if err := natsClient.Close(); err != nil {
				slog.Error("failed to close NATS connection", "error", err)
			}
		}()
		syncService := internalService.NewCheckoutSyncService(settings, processor)
		if err := handleCheckoutSync(ctx, natsClient, syncService); err != nil {
			return err
		}
	} else {
		slog.InfoContext(ctx, "settings are kept in memory, checkout events are not consumed",
			"source", constants.SourceMock,
		)
	}

	addr := net.JoinHostPort(bind, port)
	if bind == "*" {
		addr = ":" + port
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runHTTPServer(gctx, addr, newHTTPHandler(svc))
	})

	err = g.Wait()
	slog.Info("exited")
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
