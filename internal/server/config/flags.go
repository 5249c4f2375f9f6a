package config

import (
	"flag"
	"io"
	"time"

	"github.com/krabbypatty1031-blip/JustAsk/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-d", "-r", "-s", "-S", "-t", "-T", "-e", "-f", "-l"}

// parseFlags overlays command-line flags onto config.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g. ":3000")
//	-g string   gRPC health bind address
//	-d string   PostgreSQL DSN; empty selects the in-memory store
//	-r string   Redis URL for web sessions
//	-s string   access token HMAC secret
//	-S string   refresh token HMAC secret
//	-t int      access token lifetime, minutes
//	-T int      refresh token lifetime, minutes
//	-e int      web session lifetime, minutes
//	-f string   frontend URL (CORS origin, secure cookies)
//	-l string   log level
//
// Flags not in this list are filtered out first, so -c/-config can coexist.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisURL, "r", config.RedisURL, "redis URL")
	fs.StringVar(&config.AccessSecret, "s", config.AccessSecret, "access token secret")
	fs.StringVar(&config.RefreshSecret, "S", config.RefreshSecret, "refresh token secret")

	accessTTL := fs.Int("t", int(config.AccessTokenTTL.Minutes()), "access token lifetime (in minutes)")
	refreshTTL := fs.Int("T", int(config.RefreshTokenTTL.Minutes()), "refresh token lifetime (in minutes)")
	sessionTTL := fs.Int("e", int(config.SessionTTL.Minutes()), "session lifetime (in minutes)")

	fs.StringVar(&config.FrontendURL, "f", config.FrontendURL, "frontend URL")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		return err
	}

	config.AccessTokenTTL = time.Duration(*accessTTL) * time.Minute
	config.RefreshTokenTTL = time.Duration(*refreshTTL) * time.Minute
	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
	return nil
}
