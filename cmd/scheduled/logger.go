package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/zap"

	schedule "github.com/netresearch/go-schedule"
	"github.com/netresearch/go-schedule/internal/config"
	"github.com/netresearch/go-schedule/logadapter"
)

// newLogger builds the configured backend. flush must be called before
// exit.
func newLogger(cfg config.LogConfig) (schedule.Logger, func(), error) {
	switch cfg.Backend {
	case "zerolog":
		level, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		l := zerolog.New(os.Stderr).Level(level).With().Timestamp().Str("service", "scheduled").Logger()
		return logadapter.NewZerolog(l), func() {}, nil
	default:
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		zc := zap.NewProductionConfig()
		zc.Level = level
		l, err := zc.Build(zap.Fields(zap.String("service", "scheduled")))
		if err != nil {
			return nil, nil, fmt.Errorf("zap: %w", err)
		}
		return logadapter.NewZap(l), func() { _ = l.Sync() }, nil
	}
}
