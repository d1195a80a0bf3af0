package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/examkeeper/internal/flagx"
	"github.com/dmitrijs2005/examkeeper/internal/timex"
)

// FileConfig is an intermediate DTO used only for reading config files.
// Pointer fields distinguish "absent" from zero values.
type FileConfig struct {
	HTTPAddr              *string         `json:"http_addr" yaml:"http_addr"`
	GRPCAddr              *string         `json:"grpc_addr" yaml:"grpc_addr"`
	DatabaseDSN           *string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey             *string         `json:"secret_key" yaml:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration" yaml:"token_validity_duration"`
	MaxUploadMB           *int            `json:"max_upload_mb" yaml:"max_upload_mb"`
	StorageBackend        *string         `json:"storage_backend" yaml:"storage_backend"`
	S3RootUser            *string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword        *string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket              *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region              *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint        *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	GCSBucket             *string         `json:"gcs_bucket" yaml:"gcs_bucket"`
	GCSPrefix             *string         `json:"gcs_prefix" yaml:"gcs_prefix"`
	GCSCredentialsFile    *string         `json:"gcs_credentials_file" yaml:"gcs_credentials_file"`
	LogBackend            *string         `json:"log_backend" yaml:"log_backend"`
}

// parseFile loads configuration values from the file named by -c or
// -config into config. YAML is used for .yaml/.yml files, JSON otherwise.
// If the file cannot be read or decoded, the function panics.
func parseFile(config *Config) {
	path := flagx.ConfigPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(config)
}

func (fc *FileConfig) apply(c *Config) {
	setIf(&c.HTTPAddr, fc.HTTPAddr)
	setIf(&c.GRPCAddr, fc.GRPCAddr)
	setIf(&c.DatabaseDSN, fc.DatabaseDSN)
	setIf(&c.SecretKey, fc.SecretKey)
	setIf(&c.MaxUploadMB, fc.MaxUploadMB)
	setIf(&c.StorageBackend, fc.StorageBackend)
	setIf(&c.S3RootUser, fc.S3RootUser)
	setIf(&c.S3RootPassword, fc.S3RootPassword)
	setIf(&c.S3Bucket, fc.S3Bucket)
	setIf(&c.S3Region, fc.S3Region)
	setIf(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	setIf(&c.GCSBucket, fc.GCSBucket)
	setIf(&c.GCSPrefix, fc.GCSPrefix)
	setIf(&c.GCSCredentialsFile, fc.GCSCredentialsFile)
	setIf(&c.LogBackend, fc.LogBackend)
	if fc.TokenValidityDuration != nil {
		c.TokenValidityDuration = fc.TokenValidityDuration.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
