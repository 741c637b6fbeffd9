// Package main is the entry point for the rescuedispatch emergency
// dispatcher. It takes no arguments: it reads environment.txt,
// rescuers.txt, and emergency.txt from the working directory, wires the
// dispatcher core to its ingress source and aging monitor, and runs until
// SIGINT/SIGTERM triggers a graceful shutdown.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/relayforge/rescuedispatch/internal/catalog"
	"github.com/relayforge/rescuedispatch/internal/config"
	"github.com/relayforge/rescuedispatch/internal/eventlog"
	"github.com/relayforge/rescuedispatch/internal/gateway"
	"github.com/relayforge/rescuedispatch/internal/ingress"
	"github.com/relayforge/rescuedispatch/internal/ingress/membus"
	"github.com/relayforge/rescuedispatch/internal/ingress/natsbus"
	"github.com/relayforge/rescuedispatch/internal/monitor"
	"github.com/relayforge/rescuedispatch/internal/respool"
	"github.com/relayforge/rescuedispatch/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	logger := eventlog.Logger(os.Stdout)

	files, err := config.Load(".")
	if err != nil {
		logger.Error("startup failed", eventlog.WithCategory(eventlog.Configuration), "error", err.Error())
		return fmt.Errorf("loading configuration: %w", err)
	}

	cat, err := catalog.Build(files)
	if err != nil {
		logger.Error("startup failed", eventlog.WithCategory(eventlog.Configuration), "error", err.Error())
		return fmt.Errorf("building catalog: %w", err)
	}
	logger.Info("configuration loaded",
		eventlog.WithCategory(eventlog.Configuration),
		"responder_types", len(cat.ResponderTypes),
		"emergency_types", len(cat.EmergencyTypes),
	)

	pool := respool.Build(cat.ResponderTypes)
	metrics := telemetry.New(nil)
	dispatcher := gateway.New(gateway.DefaultConfig(), cat, pool, logger, metrics)
	dispatcher.Start()

	src, err := openSource(cat.Queue)
	if err != nil {
		return fmt.Errorf("opening ingress source: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", eventlog.WithCategory(eventlog.System), "signal", sig.String())
		cancel()
	}()

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		mon := monitor.New(dispatcher)
		mon.Run(gctx)
		return nil
	})
	group.Go(func() error {
		clock := func() int64 { return time.Now().Unix() }
		return ingress.Run(gctx, logger, src, cat.Width, cat.Height, clock, dispatcher.Enqueue)
	})

	<-gctx.Done()
	logger.Info("draining", eventlog.WithCategory(eventlog.System))

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := dispatcher.Stop(stopCtx); err != nil {
		logger.Error("shutdown did not complete cleanly", eventlog.WithCategory(eventlog.System), "error", err.Error())
	}
	_ = src.Close()

	if err := group.Wait(); err != nil {
		return err
	}
	logger.Info("stopped", eventlog.WithCategory(eventlog.System))
	return nil
}

// openSource chooses the bus implementation: NATS when RESCUEDISPATCH_NATS_URL
// is set, otherwise an in-process membus (useful for local runs and demos
// without a NATS server).
func openSource(queue string) (ingress.Source, error) {
	if url := os.Getenv("RESCUEDISPATCH_NATS_URL"); url != "" {
		cfg := natsbus.DefaultConfig()
		cfg.URL = url
		cfg.Queue = queue
		return natsbus.Connect(cfg)
	}
	return membus.New(), nil
}
