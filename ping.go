package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parisxmas/examapi/internal/db"
)

func runPing(cmd *cobra.Command, _ []string) error {
	cfg, log, done, err := setup()
	if err != nil {
		return err
	}
	defer done()

	handle, err := db.Connect(cmd.Context(), dbOptions(cfg), log)
	if err != nil {
		return err
	}
	defer handle.Close(context.Background())

	log.Info("database reachable", zap.String("database", cfg.MongoDatabase))
	cmd.Println("ok")
	return nil
}
