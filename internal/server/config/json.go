package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/krabbypatty1031-blip/JustAsk/internal/flagx"
	"github.com/krabbypatty1031-blip/JustAsk/internal/timex"
)

// JSONConfig is the on-disk shape of the config file. Pointer fields
// distinguish "absent" from "zero", so a partial file only overrides the keys
// it names.
type JSONConfig struct {
	HTTPAddr            *string         `json:"http_addr"`
	GRPCAddr            *string         `json:"grpc_addr"`
	DatabaseDSN         *string         `json:"database_dsn"`
	RedisURL            *string         `json:"redis_url"`
	AccessSecret        *string         `json:"access_secret"`
	RefreshSecret       *string         `json:"refresh_secret"`
	AccessTokenTTL      *timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL     *timex.Duration `json:"refresh_token_ttl"`
	SessionTTL          *timex.Duration `json:"session_ttl"`
	SessionCookieName   *string         `json:"session_cookie_name"`
	FrontendURL         *string         `json:"frontend_url"`
	BcryptCost          *int            `json:"bcrypt_cost"`
	RevocationHighWater *int            `json:"revocation_high_water"`
	RevocationKeep      *int            `json:"revocation_keep"`
	LogLevel            *string         `json:"log_level"`
}

// parseJSON overlays the file named by -c/-config in args onto config.
// Without either flag nothing is loaded.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.RedisURL, c.RedisURL)
	setString(&config.AccessSecret, c.AccessSecret)
	setString(&config.RefreshSecret, c.RefreshSecret)
	setString(&config.SessionCookieName, c.SessionCookieName)
	setString(&config.FrontendURL, c.FrontendURL)
	setString(&config.LogLevel, c.LogLevel)

	if c.AccessTokenTTL != nil {
		config.AccessTokenTTL = c.AccessTokenTTL.Duration
	}
	if c.RefreshTokenTTL != nil {
		config.RefreshTokenTTL = c.RefreshTokenTTL.Duration
	}
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.RevocationHighWater != nil {
		config.RevocationHighWater = *c.RevocationHighWater
	}
	if c.RevocationKeep != nil {
		config.RevocationKeep = *c.RevocationKeep
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
