package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/realestate/internal/flagx"
	"github.com/dmitrijs2005/realestate/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration file.
// Absent keys leave the corresponding Config field untouched.
type JsonConfig struct {
	EndpointAddrHTTP          *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC          *string         `json:"endpoint_addr_grpc"`
	BasePath                  *string         `json:"base_path"`
	DatabaseDSN               *string         `json:"database_dsn"`
	SecretKey                 *string         `json:"secret_key"`
	TokenValidityDuration     *timex.Duration `json:"token_validity_duration"`
	Environment               *string         `json:"environment"`
	PasswordHashCost          *int            `json:"password_hash_cost"`
	DefaultProfilePic         *string         `json:"default_profile_pic"`
	S3RootUser                *string         `json:"s3_root_user"`
	S3RootPassword            *string         `json:"s3_root_password"`
	S3Bucket                  *string         `json:"s3_bucket"`
	S3Region                  *string         `json:"s3_region"`
	S3BaseEndpoint            *string         `json:"s3_base_endpoint"`
	S3PublicBaseURL           *string         `json:"s3_public_base_url"`
	UploadURLValidityDuration *timex.Duration `json:"upload_url_validity_duration"`
	HealthCheckInterval       *timex.Duration `json:"health_check_interval"`
}

// parseJson loads the file named by -c/-config (or $CONFIG) into config.
// No path means nothing to load. Unreadable or invalid JSON panics.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigFilePath(args)
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
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

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
