package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Debugf("fitzen-cli: %s", err)
		os.Exit(1)
	}
}
