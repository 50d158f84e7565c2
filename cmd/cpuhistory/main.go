package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/cpuhistory/internal/config"
	"codeberg.org/mutker/cpuhistory/internal/display"
	"codeberg.org/mutker/cpuhistory/internal/errors"
	"codeberg.org/mutker/cpuhistory/internal/journal"
	"codeberg.org/mutker/cpuhistory/internal/logger"
	"codeberg.org/mutker/cpuhistory/internal/pid"
	"codeberg.org/mutker/cpuhistory/internal/sampler"
	"codeberg.org/mutker/cpuhistory/internal/source"
	"github.com/spf13/pflag"
)

var (
	cfg     *config.Config
	service bool
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	service = logger.IsService()
	logger.Init(level, service)
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := run(); err != nil {
		var domainErr errors.Error
		if errors.As(err, &domainErr) {
			logger.FatalWithCode(domainErr).Msg("")
		}
		logger.Fatal().Err(err).Msg("")
	}
}

func run() error {
	if cfg.PIDFile {
		if err := pid.Write(); err != nil {
			return err
		}
		defer func() {
			if err := pid.Remove(); err != nil {
				logger.Warn().Err(err).Msg("failed to remove PID file")
			}
		}()
	}

	src, err := source.Detect(cfg.Source)
	if err != nil {
		return err
	}

	recorder, err := journal.NewRecorder(cfg.JournalConfig(), logger.Default())
	if err != nil {
		return err
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close journal")
		}
	}()

	svc, err := sampler.New(cfg.SamplerConfig(), src,
		sampler.WithLogger(logger.Default()),
		sampler.WithRecorder(recorder),
	)
	if err != nil {
		return err
	}
	defer svc.Dispose()

	if err := svc.Start(); err != nil {
		return err
	}

	logger.Info().
		Str("source", src.Name()).
		Int("capacity", svc.HistoryCapacity()).
		Int("interval_ms", svc.UpdateIntervalMillis()).
		Bool("journal", cfg.Journal).
		Msg("Sampling CPU utilization")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	return loop(ctx, svc)
}

// loop polls the service on its own ticker, independent of the sampling
// interval.
func loop(ctx context.Context, svc *sampler.Service) error {
	ticker := time.NewTicker(cfg.DisplayEvery())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			values, err := svc.Snapshot()
			if err != nil {
				return err
			}
			report(values, svc.Stats())
		}
	}
}

// report prints a sparkline on a terminal and logs a structured line under a
// service manager.
func report(values []float64, stats sampler.Stats) {
	if service {
		summary := display.Summarize(values)
		logger.Info().
			Float64("latest", summary.Latest).
			Float64("avg", summary.Avg).
			Float64("min", summary.Min).
			Float64("max", summary.Max).
			Bool("degraded", stats.Degraded).
			Msg("")

		return
	}

	fmt.Println(display.Render(values))

	logger.Debug().
		Uint64("ticks", stats.Ticks).
		Uint64("failed_samples", stats.FailedSamples).
		Uint64("failed_acquisitions", stats.FailedAcquisitions).
		Bool("degraded", stats.Degraded).
		Msg("")
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
