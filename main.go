package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parisxmas/examapi/internal/config"
	"github.com/parisxmas/examapi/internal/gelf"
	"github.com/parisxmas/examapi/internal/logger"
)

var configPath string

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: .env not loaded: %v", err)
	}

	root := &cobra.Command{
		Use:           "examapi",
		Short:         "REST API for exams and users backed by MongoDB",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "optional YAML config file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "ping",
		Short: "Connect to the database, ping it and exit",
		RunE:  runPing,
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "examapi:", err)
		os.Exit(1)
	}
}

// setup loads config and builds the logger, teeing to GELF when configured.
func setup() (*config.Config, *zap.Logger, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	var sinks []io.Writer
	cleanup := func() {}
	if cfg.GelfAddr != "" {
		w, err := gelf.New(cfg.GelfAddr, "examapi")
		if err != nil {
			log.Printf("Warning: GELF init failed: %v", err)
		} else {
			sinks = append(sinks, w)
			cleanup = func() { w.Close() }
		}
	}

	zl, err := logger.New(cfg.LogLevel, sinks...)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	if cfg.GelfAddr != "" && len(sinks) > 0 {
		zl.Info("GELF logging enabled", zap.String("addr", cfg.GelfAddr))
	}
	return cfg, zl, func() {
		_ = zl.Sync()
		cleanup()
	}, nil
}
