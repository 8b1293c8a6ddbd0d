package config

import (
	"encoding/json"
	"os"

	"github.com/ruedaverde/backend/internal/flagx"
	"github.com/ruedaverde/backend/internal/timex"
)

// JsonConfig is the DTO used only for reading JSON configuration files.
// It uses timex.Duration for the token lifetime, which accepts both string
// values such as "24h" and integer nanoseconds. After unmarshalling, its
// fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	S3AccessKeyID         string         `json:"s3_access_key_id"`
	S3SecretAccessKey     string         `json:"s3_secret_access_key"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	SquarespaceAPIKey     string         `json:"squarespace_api_key"`
	SquarespaceWebsiteID  string         `json:"squarespace_website_id"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. Absent flags mean no JSON file
// is loaded. Unreadable or invalid files panic: that is startup, and the
// fail-fast contract applies.
//
// Only non-zero JSON values override the current Config, so the file may
// specify any subset of fields.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.S3AccessKeyID != "" {
		config.S3AccessKeyID = c.S3AccessKeyID
	}
	if c.S3SecretAccessKey != "" {
		config.S3SecretAccessKey = c.S3SecretAccessKey
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
	if c.SquarespaceAPIKey != "" {
		config.SquarespaceAPIKey = c.SquarespaceAPIKey
	}
	if c.SquarespaceWebsiteID != "" {
		config.SquarespaceWebsiteID = c.SquarespaceWebsiteID
	}
}
