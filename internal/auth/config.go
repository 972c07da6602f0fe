package auth

import (
	"errors"
	"time"
)

const DefaultTTL = 24 * 7 * time.Hour

// Config holds token signing parameters. It is passed to NewService once at startup.
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

func (c Config) validate() error {
	if c.Secret == "" {
		return errors.New("jwt secret is empty")
	}
	if c.Issuer == "" {
		return errors.New("jwt issuer is empty")
	}
	return nil
}
