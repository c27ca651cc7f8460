package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stellar/go/keypair"

	"github.com/beeman/kin-sdk-go/pkg/api"
	"github.com/beeman/kin-sdk-go/pkg/channels"
	"github.com/beeman/kin-sdk-go/pkg/client"
	"github.com/beeman/kin-sdk-go/pkg/config"
	"github.com/beeman/kin-sdk-go/pkg/logging"
	"github.com/beeman/kin-sdk-go/pkg/metrics"
	"github.com/beeman/kin-sdk-go/pkg/sender"
	"github.com/beeman/kin-sdk-go/pkg/version"
)

var (
	configFile = flag.String("config", "config/config.yaml", "Path to configuration file")
	showVer    = flag.Bool("version", false, "Show version and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("kin-sender version %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info().
		Str("version", version.Version).
		Str("app_id", cfg.Sender.AppID).
		Msg("Starting kin-sender")

	seed, err := cfg.Sender.ResolveSeed()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to resolve sender seed")
	}
	primary, err := keypair.ParseFull(seed)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to parse sender seed")
	}

	horizon, err := client.NewClient(client.Config{
		Endpoints: cfg.Network.HorizonEndpoints,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create horizon client")
	}

	var pool *channels.Pool
	if cfg.Channels.Enabled {
		pool, err = channels.NewPool(channels.PoolConfig{
			BaseSeed: seed,
			Salt:     cfg.Channels.Salt,
			Count:    cfg.Channels.Count,
			Logger:   logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create channel pool")
		}
	}

	snd := sender.NewSender(sender.Config{
		Horizon:           horizon,
		KeyPair:           primary,
		AppID:             cfg.Sender.AppID,
		NetworkPassphrase: cfg.Network.Passphrase,
		TopUpTxCount:      cfg.Sender.TopUpTxCount,
		Logger:            logger,
	})

	if cfg.Metrics.Enabled {
		go func() {
			logger.Info().Str("addr", cfg.Metrics.Addr).Msg("Starting metrics server")
			if err := metrics.Serve(cfg.Metrics.Addr); err != nil {
				logger.Error().Err(err).Msg("Metrics server failed")
			}
		}()
	}

	server := api.NewServer(cfg.Server.HTTP.Addr, snd, pool, cfg.Sender.BaseFee, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errChan:
		if err != nil {
			logger.Error().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info().Msg("Shutting down gracefully...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Shutdown failed")
	}
	logger.Info().Msg("Shutdown complete")
}
