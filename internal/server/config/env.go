package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// envFile is loaded (if present) before reading the environment. Variables
// already set in the process environment take precedence over the file.
var envFile = ".env"

// parseEnv overlays config with GLOBETROTTER_* environment variables.
//
//	GLOBETROTTER_HTTP_ADDR, GLOBETROTTER_GRPC_ADDR, GLOBETROTTER_DATABASE_DSN,
//	GLOBETROTTER_SECRET_KEY, GLOBETROTTER_ACCESS_TOKEN_TTL, GLOBETROTTER_REFRESH_TOKEN_TTL,
//	GLOBETROTTER_S3_USER, GLOBETROTTER_S3_PASSWORD, GLOBETROTTER_S3_BUCKET,
//	GLOBETROTTER_S3_REGION, GLOBETROTTER_S3_ENDPOINT,
//	GLOBETROTTER_ALLOWED_ORIGINS (comma separated), GLOBETROTTER_LOG_LEVEL
//
// TTLs use Go duration syntax ("15m"). A malformed TTL panics.
func parseEnv(config *Config) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, os.Getenv("GLOBETROTTER_HTTP_ADDR"))
	setString(&config.EndpointAddrGRPC, os.Getenv("GLOBETROTTER_GRPC_ADDR"))
	setString(&config.DatabaseDSN, os.Getenv("GLOBETROTTER_DATABASE_DSN"))
	setString(&config.SecretKey, os.Getenv("GLOBETROTTER_SECRET_KEY"))
	setDuration(&config.AccessTokenValidityDuration, os.Getenv("GLOBETROTTER_ACCESS_TOKEN_TTL"))
	setDuration(&config.RefreshTokenValidityDuration, os.Getenv("GLOBETROTTER_REFRESH_TOKEN_TTL"))
	setString(&config.S3RootUser, os.Getenv("GLOBETROTTER_S3_USER"))
	setString(&config.S3RootPassword, os.Getenv("GLOBETROTTER_S3_PASSWORD"))
	setString(&config.S3Bucket, os.Getenv("GLOBETROTTER_S3_BUCKET"))
	setString(&config.S3Region, os.Getenv("GLOBETROTTER_S3_REGION"))
	setString(&config.S3BaseEndpoint, os.Getenv("GLOBETROTTER_S3_ENDPOINT"))
	if origins := splitList(os.Getenv("GLOBETROTTER_ALLOWED_ORIGINS")); len(origins) > 0 {
		config.AllowedOrigins = origins
	}
	setString(&config.LogLevel, os.Getenv("GLOBETROTTER_LOG_LEVEL"))
}

func setDuration(dst *time.Duration, v string) {
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
