package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/2beens/fitzen/internal/db"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateTimeout time.Duration

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema to the configured postgres",
	Long: `Creates the users and workout tables and their indexes if they do not exist.
The password is read from FITZEN_POSTGRES_PASS.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().DurationVar(&migrateTimeout, "timeout", 30*time.Second, "give up after this long")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBUser:     cfg.PostgresUser,
		DBPassword: os.Getenv("FITZEN_POSTGRES_PASS"),
		DBName:     cfg.PostgresDBName,
	})
	if err != nil {
		return err
	}
	defer dbPool.Close()

	if err := db.Migrate(ctx, dbPool); err != nil {
		return err
	}

	log.Infof("schema applied to %s:%s/%s", cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDBName)
	return nil
}
