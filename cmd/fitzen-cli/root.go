package main

import (
	"errors"
	"io/fs"

	"github.com/2beens/fitzen/internal/config"
	"github.com/2beens/fitzen/internal/logging"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	envName  string
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "fitzen-cli",
	Short: "Operator tools for the fitzen backend",
	Long: `fitzen-cli checks workout submissions offline, prepares secrets and
applies the database schema for the fitzen backend.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(logging.LoggerSetupParams{
			LogToStdout: true,
			LogLevel:    logLevel,
		})
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warnf("load env file [%s]: %s", envFile, err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "./config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "development", "config environment [production | development]")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional file with secrets as env vars")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")
}

func loadConfig() (*config.Config, error) {
	return config.Load(envName, cfgFile)
}
