// Package jamsconfig loads and validates the declarative configuration file
// (TOML, or any other format Viper supports) that tells jams-serve which
// wire protocol, backing store, and worker count to run with.
package jamsconfig

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/jams-project/jams/pkg/jamserrors"
)

// ConfigKey is the root configuration key (in Viper) for this module.
var ConfigKey = "jams"

// Protocol is the wire protocol a server instance exposes.
type Protocol string

const (
	ProtocolHTTP Protocol = "http"
	ProtocolGRPC Protocol = "grpc"
)

// ModelStore is the backing object store kind.
type ModelStore string

const (
	ModelStoreLocal ModelStore = "local"
	ModelStoreAWS   ModelStore = "aws"
	ModelStoreAzure ModelStore = "azure"
	ModelStoreMinio ModelStore = "minio"
)

const (
	defaultHTTPPort   = 3000
	defaultGRPCPort   = 4000
	defaultNumWorkers = 2
)

// Config mirrors the recognized configuration options. mapstructure tags
// match the on-disk key names.
type Config struct {
	Protocol                  Protocol   `mapstructure:"protocol"`
	ModelStore                ModelStore `mapstructure:"model_store"`
	Port                      int        `mapstructure:"port"`
	ModelDir                  string     `mapstructure:"model_dir"`
	S3BucketName              string     `mapstructure:"s3_bucket_name"`
	AzureStorageContainerName string     `mapstructure:"azure_storage_container_name"`
	NumWorkers                int        `mapstructure:"num_workers"`
	PollIntervalSeconds       int64      `mapstructure:"poll_interval"`

	// Environment-sourced fields below are never read from the config
	// file itself; BindEnv wires them to the listed environment
	// variables so Viper's Unmarshal still fills them in.
	ModelStoreDir      string `mapstructure:"MODEL_STORE_DIR"`
	Home               string `mapstructure:"HOME"`
	UseLocalstack      bool   `mapstructure:"USE_LOCALSTACK"`
	LocalstackHostname string `mapstructure:"LOCALSTACK_HOSTNAME"`
	UseAzurite         bool   `mapstructure:"USE_AZURITE"`
	AzuriteHostname    string `mapstructure:"AZURITE_HOSTNAME"`
	StorageAccount     string `mapstructure:"STORAGE_ACCOUNT"`
	StorageAccessKey   string `mapstructure:"STORAGE_ACCESS_KEY"`
	MinioAccessKeyID   string `mapstructure:"MINIO_ACCESS_KEY_ID"`
	MinioURL           string `mapstructure:"MINIO_URL"`
	AWSRegion          string `mapstructure:"AWS_REGION"`
	OTLPExporterURL    string `mapstructure:"OTLP_EXPORTER_URL"`
}

// Option configures a Config during construction.
type Option func(*Config) error

// envVars lists every environment variable this module binds automatically,
// independent of whether a config file sets the matching key.
var envVars = []string{
	"MODEL_STORE_DIR",
	"HOME",
	"USE_LOCALSTACK",
	"LOCALSTACK_HOSTNAME",
	"USE_AZURITE",
	"AZURITE_HOSTNAME",
	"STORAGE_ACCOUNT",
	"STORAGE_ACCESS_KEY",
	"MINIO_ACCESS_KEY_ID",
	"MINIO_URL",
	"AWS_REGION",
	"OTLP_EXPORTER_URL",
}

// WithViper applies configuration from Viper's root "jams" key, plus the
// bound environment variables above, and fills in defaults for optional
// fields left unset.
func WithViper(v *viper.Viper) Option {
	return WithViperKey(v, ConfigKey)
}

// WithViperKey is WithViper with an overridable root key, for embedding this
// config under a different name.
func WithViperKey(v *viper.Viper, configKey string) Option {
	return func(c *Config) error {
		if v == nil {
			return errors.New("nil Viper")
		}

		v.AutomaticEnv()
		for _, name := range envVars {
			if err := v.BindEnv(name); err != nil {
				return fmt.Errorf("failed to bind env var %s: %w", name, err)
			}
		}

		if err := v.UnmarshalKey(configKey, c); err != nil {
			return err
		}
		for _, name := range envVars {
			if err := v.UnmarshalKey(name, fieldFor(c, name)); err != nil {
				return err
			}
		}

		c.applyDefaults()
		return nil
	}
}

// fieldFor returns a pointer to the Config field bound to env var name, for
// UnmarshalKey to decode a scalar env value into.
func fieldFor(c *Config, name string) interface{} {
	switch name {
	case "MODEL_STORE_DIR":
		return &c.ModelStoreDir
	case "HOME":
		return &c.Home
	case "USE_LOCALSTACK":
		return &c.UseLocalstack
	case "LOCALSTACK_HOSTNAME":
		return &c.LocalstackHostname
	case "USE_AZURITE":
		return &c.UseAzurite
	case "AZURITE_HOSTNAME":
		return &c.AzuriteHostname
	case "STORAGE_ACCOUNT":
		return &c.StorageAccount
	case "STORAGE_ACCESS_KEY":
		return &c.StorageAccessKey
	case "MINIO_ACCESS_KEY_ID":
		return &c.MinioAccessKeyID
	case "MINIO_URL":
		return &c.MinioURL
	case "AWS_REGION":
		return &c.AWSRegion
	case "OTLP_EXPORTER_URL":
		return &c.OTLPExporterURL
	default:
		panic("jamsconfig: unbound env var " + name)
	}
}

// PollInterval converts PollIntervalSeconds to a Duration; zero disables
// polling (Store.Poll treats <= 0 as "don't start the Poller").
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		if c.Protocol == ProtocolGRPC {
			c.Port = defaultGRPCPort
		} else {
			c.Port = defaultHTTPPort
		}
	}
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}
}

// Apply runs every Option in order.
func (c *Config) Apply(opts ...Option) error {
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(c); err != nil {
			return err
		}
	}
	return nil
}

// NewConfig builds a Config from the given options and validates it.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, jamserrors.Wrap(jamserrors.KindConfig, err, "failed to load configuration")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate enforces the required-field rules: protocol and model_store are
// always required; model_dir, s3_bucket_name, and
// azure_storage_container_name are required only for the matching store.
func (c *Config) Validate() error {
	switch c.Protocol {
	case ProtocolHTTP, ProtocolGRPC:
	default:
		return jamserrors.New(jamserrors.KindConfig, "protocol must be \"http\" or \"grpc\", got %q", c.Protocol)
	}

	switch c.ModelStore {
	case ModelStoreLocal:
		if c.ModelDir == "" {
			return jamserrors.New(jamserrors.KindConfig, "model_dir is required when model_store=local")
		}
	case ModelStoreAWS, ModelStoreMinio:
		if c.S3BucketName == "" {
			return jamserrors.New(jamserrors.KindConfig, "s3_bucket_name is required when model_store=%s", c.ModelStore)
		}
	case ModelStoreAzure:
		if c.AzureStorageContainerName == "" {
			return jamserrors.New(jamserrors.KindConfig, "azure_storage_container_name is required when model_store=azure")
		}
	default:
		return jamserrors.New(jamserrors.KindConfig, "model_store must be one of \"local\", \"aws\", \"azure\", \"minio\", got %q", c.ModelStore)
	}

	if c.NumWorkers < 1 {
		return jamserrors.New(jamserrors.KindConfig, "num_workers must be >= 1, got %d", c.NumWorkers)
	}
	if c.PollIntervalSeconds < 0 {
		return jamserrors.New(jamserrors.KindConfig, "poll_interval must be >= 0, got %d", c.PollIntervalSeconds)
	}

	return nil
}
