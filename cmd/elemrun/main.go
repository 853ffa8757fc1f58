// Command elemrun runs an element scenario against one or more browsers at
// once.
//
// Usage:
//
//	elemrun -config scenario.yaml
//	elemrun -config scenario.yaml -health-addr :8081 -log-level debug
//
// Each step is fanned out to every configured instance. One JSON line per
// step is written to stdout with the per-instance results in instance order.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonwraymond/elemops/config"
	"github.com/jonwraymond/elemops/observe"
)

func main() {
	configPath := flag.String("config", "", "path to scenario YAML")
	logLevel := flag.String("log-level", "", "override log level: debug, info, warn, error")
	healthAddr := flag.String("health-addr", "", "serve /healthz and /readyz on this address while running")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: elemrun -config <scenario.yaml> [-log-level level] [-health-addr addr]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *logLevel, *healthAddr); err != nil {
		fmt.Fprintf(os.Stderr, "elemrun: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, logLevel, healthAddr string) error {
	sc, err := config.LoadFile(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		sc.Telemetry.LogLevel = logLevel
	}

	obs, err := observe.NewObserver(ctx, sc.ObserveConfig())
	if err != nil {
		return fmt.Errorf("observer: %w", err)
	}
	defer func() {
		_ = obs.Shutdown(context.Background())
	}()

	r, err := newRunner(ctx, sc, obs)
	if err != nil {
		return err
	}
	defer r.close()

	if healthAddr != "" {
		stopHealth := r.serveHealth(healthAddr)
		defer stopHealth()
	}

	if err := r.agg.Ready(ctx); err != nil {
		return fmt.Errorf("preflight: %w", err)
	}

	return r.runSteps(ctx, sc.Steps, os.Stdout)
}
