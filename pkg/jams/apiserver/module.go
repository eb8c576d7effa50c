// Package apiserver wires the Model Store, Manager, Worker Pool, Poller,
// and whichever wire protocol is configured, into one fx.Lifecycle-managed
// process.
package apiserver

import (
	"context"
	"fmt"
	"net"
	"os"

	"go.uber.org/fx"

	"github.com/jams-project/jams/pkg/jams/features"
	"github.com/jams-project/jams/pkg/jams/httpapi"
	"github.com/jams-project/jams/pkg/jams/manager"
	"github.com/jams-project/jams/pkg/jams/store"
	"github.com/jams-project/jams/pkg/jams/store/azure"
	"github.com/jams-project/jams/pkg/jams/store/local"
	"github.com/jams-project/jams/pkg/jams/store/s3"
	"github.com/jams-project/jams/pkg/jams/workerpool"
	"github.com/jams-project/jams/pkg/jamsconfig"
	"github.com/jams-project/jams/pkg/jamserrors"
	"github.com/jams-project/jams/pkg/logging"

	"github.com/jams-project/jams/pkg/jams/grpcapi"
)

// Module provides the Store, Manager, Worker Pool, and the selected wire
// server, and wires their startup/shutdown into fx's lifecycle.
var Module fx.Option = fx.Options(
	fx.Provide(provideBackend),
	fx.Provide(provideStore),
	fx.Provide(provideWorkerPool),
	fx.Provide(provideFeaturePool),
	fx.Provide(manager.New),
	fx.Invoke(registerLifecycle),
)

func provideBackend(cfg *jamsconfig.Config) (store.Backend, string, error) {
	switch cfg.ModelStore {
	case jamsconfig.ModelStoreLocal:
		return local.New(cfg.ModelDir), "", nil

	case jamsconfig.ModelStoreAWS:
		backend, err := s3.New(context.Background(), s3.Options{Region: cfg.AWSRegion})
		return backend, cfg.S3BucketName, err

	case jamsconfig.ModelStoreMinio:
		backend, err := s3.New(context.Background(), s3.Options{
			Region:         cfg.AWSRegion,
			Endpoint:       cfg.MinioURL,
			ForcePathStyle: true,
		})
		return backend, cfg.S3BucketName, err

	case jamsconfig.ModelStoreAzure:
		backend, err := azure.New(azure.Options{
			ServiceURL: azureServiceURL(cfg),
			Account:    cfg.StorageAccount,
			AccessKey:  cfg.StorageAccessKey,
		})
		return backend, cfg.AzureStorageContainerName, err

	default:
		return nil, "", jamserrors.New(jamserrors.KindConfig, "unrecognized model_store %q", cfg.ModelStore)
	}
}

func azureServiceURL(cfg *jamsconfig.Config) string {
	if cfg.UseAzurite && cfg.AzuriteHostname != "" {
		return fmt.Sprintf("http://%s/%s", cfg.AzuriteHostname, cfg.StorageAccount)
	}
	return fmt.Sprintf("https://%s.blob.core.windows.net", cfg.StorageAccount)
}

func provideStore(backend store.Backend, hint string, cfg *jamsconfig.Config, logger logging.Interface) (*store.Store, error) {
	root := cfg.ModelStoreDir
	if root == "" {
		root = cfg.Home
	}
	if root == "" {
		root = os.TempDir()
	}
	return store.New(context.Background(), root, backend, hint, logger)
}

func provideWorkerPool(cfg *jamsconfig.Config) *workerpool.Pool {
	return workerpool.New(cfg.NumWorkers)
}

func provideFeaturePool(*jamsconfig.Config) *features.Pool {
	return features.NewPool(features.DefaultTargetSize, features.DefaultLowWater, features.DefaultRefillBatch)
}

func registerLifecycle(lc fx.Lifecycle, cfg *jamsconfig.Config, s *store.Store, workerPool *workerpool.Pool, featurePool *features.Pool, m *manager.Manager, logger logging.Interface) {
	ctx, cancel := context.WithCancel(context.Background())

	var listener net.Listener

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go s.Poll(ctx, cfg.PollInterval())

			addr := fmt.Sprintf(":%d", cfg.Port)
			l, err := net.Listen("tcp", addr)
			if err != nil {
				return jamserrors.Wrap(jamserrors.KindConfig, err, "failed to bind %s", addr)
			}
			listener = l

			switch cfg.Protocol {
			case jamsconfig.ProtocolGRPC:
				srv := grpcapi.NewServer(m)
				go func() {
					if err := srv.Serve(listener); err != nil {
						logger.WithError(err).Error("grpc server stopped")
					}
				}()
			default:
				router := httpapi.NewRouter(m, logger)
				go func() {
					if err := router.RunListener(listener); err != nil {
						logger.WithError(err).Error("http server stopped")
					}
				}()
			}

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			workerPool.Close()
			featurePool.Close()
			if listener != nil {
				_ = listener.Close()
			}
			return s.Close()
		},
	})
}
