// Command scheduled runs the jobs of a YAML job file on their schedules.
//
//	scheduled -config /etc/scheduled/config.yaml
//
// The job file is reloaded when it changes, and metrics are served for
// Prometheus. See internal/config for the settings.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // job files name zones; containers often lack a zone database

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	schedule "github.com/netresearch/go-schedule"
	"github.com/netresearch/go-schedule/internal/config"
	"github.com/netresearch/go-schedule/internal/jobfile"
	"github.com/netresearch/go-schedule/metrics"
)

const shutdownTimeout = 5 * time.Second

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "path to config file (yaml, json or toml)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfgPath); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	logger, flush, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer flush()

	loc, err := cfg.LoadLocation()
	if err != nil {
		return err
	}
	opts := []schedule.Option{
		schedule.WithLocation(loc),
		schedule.WithLogger(logger),
		schedule.WithChain(schedule.Recover(logger), schedule.LogRun(logger)),
		schedule.WithMaxJobs(cfg.MaxJobs),
	}

	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		collector := metrics.NewCollector(cfg.Metrics.Namespace)
		if err := collector.Register(registry); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		opts = append(opts, schedule.WithObservability(collector.Hooks()))
	}

	s := schedule.New(opts...)
	reloader := jobfile.NewReloader(s, cfg.JobsFile, logger)
	if err := reloader.Reload(); err != nil {
		return err
	}
	if cfg.RunAll {
		if err := s.RunAll(ctx, cfg.RunDelay); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Serve(gctx)
	})
	if cfg.Watch {
		g.Go(func() error {
			return jobfile.Watch(gctx, cfg.JobsFile, logger, reloader.Trigger)
		})
	}
	if registry != nil {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		g.Go(func() error {
			logger.Info("metrics listening", "addr", cfg.Metrics.Addr, "path", cfg.Metrics.Path)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logger.Error(err, "sd_notify")
	} else if ok {
		logger.Info("notified systemd")
	}

	return g.Wait()
}
