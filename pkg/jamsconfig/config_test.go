package jamsconfig

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jams-project/jams/pkg/jamserrors"
)

func TestNewConfig_RequiresProtocol(t *testing.T) {
	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
[jams]
model_store = "local"
model_dir = "/models"
`)))

	_, err := NewConfig(WithViper(v))
	require.Error(t, err)
	assert.True(t, jamserrors.Is(err, jamserrors.KindConfig))
}

func TestNewConfig_LocalRequiresModelDir(t *testing.T) {
	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
[jams]
protocol = "http"
model_store = "local"
`)))

	_, err := NewConfig(WithViper(v))
	require.Error(t, err)
}

func TestNewConfig_DefaultsPortAndWorkers(t *testing.T) {
	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
[jams]
protocol = "http"
model_store = "local"
model_dir = "/models"
`)))

	c, err := NewConfig(WithViper(v))
	require.NoError(t, err)
	assert.Equal(t, 3000, c.Port)
	assert.Equal(t, 2, c.NumWorkers)
}

func TestNewConfig_GRPCDefaultPort(t *testing.T) {
	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
[jams]
protocol = "grpc"
model_store = "aws"
s3_bucket_name = "models"
`)))

	c, err := NewConfig(WithViper(v))
	require.NoError(t, err)
	assert.Equal(t, 4000, c.Port)
}

func TestNewConfig_S3RequiresBucketName(t *testing.T) {
	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
[jams]
protocol = "http"
model_store = "minio"
`)))

	_, err := NewConfig(WithViper(v))
	require.Error(t, err)
}

func TestNewConfig_AzureRequiresContainerName(t *testing.T) {
	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
[jams]
protocol = "http"
model_store = "azure"
`)))

	_, err := NewConfig(WithViper(v))
	require.Error(t, err)
}

func TestNewConfig_RejectsNegativePollInterval(t *testing.T) {
	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
[jams]
protocol = "http"
model_store = "local"
model_dir = "/models"
poll_interval = -5
`)))

	_, err := NewConfig(WithViper(v))
	require.Error(t, err)
}

func TestNewConfig_FullyExplicit(t *testing.T) {
	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
[jams]
protocol = "http"
model_store = "local"
model_dir = "/models"
port = 8080
num_workers = 4
poll_interval = 30
`)))

	c, err := NewConfig(WithViper(v))
	require.NoError(t, err)
	assert.Equal(t, 8080, c.Port)
	assert.Equal(t, 4, c.NumWorkers)
	assert.EqualValues(t, 30, c.PollIntervalSeconds)
}
