// internal/pkg/jwt/manager.go
package jwt

import (
	"fmt"
	"time"
)

type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Manager bundles the token generator and verifier built from one config.
type Manager struct {
	Generator *Generator
	Verifier  *Verifier
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	secret := []byte(cfg.Secret)
	return &Manager{
		Generator: NewGenerator(secret, cfg.Issuer, cfg.Audience, cfg.TTL),
		Verifier:  NewVerifier(secret, cfg.Issuer, cfg.Audience),
	}, nil
}
