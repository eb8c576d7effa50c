package apiserver

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jams-project/jams/pkg/jams/store/local"
	"github.com/jams-project/jams/pkg/jamsconfig"
	"github.com/jams-project/jams/pkg/logging"
)

type nopLogger struct{ logging.Interface }

func (nopLogger) WithField(string, interface{}) logging.Interface { return nopLogger{} }
func (nopLogger) WithError(error) logging.Interface                { return nopLogger{} }
func (nopLogger) Warn(string)                                      {}

func TestProvideBackend_Local(t *testing.T) {
	cfg := &jamsconfig.Config{ModelStore: jamsconfig.ModelStoreLocal, ModelDir: "/tmp/models"}

	backend, hint, err := provideBackend(cfg)
	require.NoError(t, err)
	assert.Empty(t, hint)
	assert.IsType(t, &local.Backend{}, backend)
}

func TestProvideBackend_UnrecognizedStore(t *testing.T) {
	cfg := &jamsconfig.Config{ModelStore: "bogus"}

	_, _, err := provideBackend(cfg)
	assert.Error(t, err)
}

func TestAzureServiceURL_Azurite(t *testing.T) {
	cfg := &jamsconfig.Config{
		UseAzurite:      true,
		AzuriteHostname: "azurite:10000",
		StorageAccount:  "devstoreaccount1",
	}
	assert.Equal(t, "http://azurite:10000/devstoreaccount1", azureServiceURL(cfg))
}

func TestAzureServiceURL_RealAzure(t *testing.T) {
	cfg := &jamsconfig.Config{StorageAccount: "prodaccount"}
	assert.Equal(t, "https://prodaccount.blob.core.windows.net", azureServiceURL(cfg))
}

func TestProvideStore_PrefersModelStoreDirOverHome(t *testing.T) {
	dir := t.TempDir()
	cfg := &jamsconfig.Config{ModelStoreDir: dir, Home: "/should/not/be/used"}

	backend := local.New(t.TempDir())
	s, err := provideStore(backend, "", cfg, nopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	// the staging directory is created under ModelStoreDir, not Home
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestProvideWorkerPool_UsesConfiguredCount(t *testing.T) {
	pool := provideWorkerPool(&jamsconfig.Config{NumWorkers: 3})
	require.NotNil(t, pool)
	pool.Close()
}
