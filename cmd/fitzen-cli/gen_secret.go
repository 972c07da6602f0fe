package main

import (
	"fmt"

	"github.com/2beens/fitzen/pkg"

	"github.com/spf13/cobra"
)

var secretBytes int

var genSecretCmd = &cobra.Command{
	Use:   "gen-secret",
	Short: "Print a random secret usable as FITZEN_JWT_SECRET",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := pkg.GenerateRandomString(secretBytes)
		if err != nil {
			return fmt.Errorf("generate secret: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), secret)
		return nil
	},
}

func init() {
	genSecretCmd.Flags().IntVar(&secretBytes, "bytes", 48, "number of random bytes")
	rootCmd.AddCommand(genSecretCmd)
}
