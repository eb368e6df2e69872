package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/realestate/internal/timex"
)

// EnvConfig lists the environment variables the server understands.
// Unset variables stay nil and do not override earlier sources.
type EnvConfig struct {
	Port                      *string         `env:"PORT"`
	EndpointAddrHTTP          *string         `env:"HTTP_ADDR"`
	EndpointAddrGRPC          *string         `env:"GRPC_ADDR"`
	BasePath                  *string         `env:"BASE_PATH"`
	DatabaseDSN               *string         `env:"DATABASE_DSN"`
	SecretKey                 *string         `env:"JWT_SECRET"`
	TokenValidityDuration     *timex.Duration `env:"TOKEN_VALIDITY"`
	Environment               *string         `env:"APP_ENV"`
	PasswordHashCost          *int            `env:"PASSWORD_HASH_COST"`
	DefaultProfilePic         *string         `env:"DEFAULT_PROFILE_PIC"`
	S3RootUser                *string         `env:"S3_ROOT_USER"`
	S3RootPassword            *string         `env:"S3_ROOT_PASSWORD"`
	S3Bucket                  *string         `env:"S3_BUCKET"`
	S3Region                  *string         `env:"S3_REGION"`
	S3BaseEndpoint            *string         `env:"S3_BASE_ENDPOINT"`
	S3PublicBaseURL           *string         `env:"S3_PUBLIC_BASE_URL"`
	UploadURLValidityDuration *timex.Duration `env:"UPLOAD_URL_VALIDITY"`
	HealthCheckInterval       *timex.Duration `env:"HEALTH_CHECK_INTERVAL"`
}

// parseEnv overlays environment variables onto config. A .env file in the
// working directory is loaded first if present; it never overrides variables
// that are already set. A non-nil environ replaces the process environment,
// which keeps tests hermetic.
func parseEnv(config *Config, environ map[string]string) {
	if environ == nil {
		_ = godotenv.Load()
	}
	opts := env.Options{Environment: environ}

	c := &EnvConfig{}
	if err := env.ParseWithOptions(c, opts); err != nil {
		panic(err)
	}

	if c.Port != nil {
		config.EndpointAddrHTTP = ":" + *c.Port
	}
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.BasePath, c.BasePath)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Environment, c.Environment)
	setString(&config.DefaultProfilePic, c.DefaultProfilePic)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)

	if c.PasswordHashCost != nil {
		config.PasswordHashCost = *c.PasswordHashCost
	}
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.UploadURLValidityDuration != nil {
		config.UploadURLValidityDuration = c.UploadURLValidityDuration.Duration
	}
	if c.HealthCheckInterval != nil {
		config.HealthCheckInterval = c.HealthCheckInterval.Duration
	}
}
