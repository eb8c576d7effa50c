package store

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jams-project/jams/pkg/jams/model"
	"github.com/jams-project/jams/pkg/jamserrors"
	"github.com/jams-project/jams/pkg/logging"
)

// Store owns the Registry, the staging directory artefacts get unpacked
// into, and the backend used to reach the configured backing store.
type Store struct {
	Registry *Registry

	backend    Backend
	hint       string
	stagingDir string
	logger     logging.Interface
}

// New creates a Store rooted at a fresh staging directory under root
// ("{HOME}/model_store_{uuid}/" in the reference layout), bulk-loads
// whatever artefacts are currently present, and returns it ready to serve.
func New(ctx context.Context, root string, backend Backend, hint string, logger logging.Interface) (*Store, error) {
	stagingDir := filepath.Join(root, "model_store_"+uuid.NewString())
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, jamserrors.Wrap(jamserrors.KindStoreInit, err, "failed to create staging directory %s", stagingDir)
	}

	s := &Store{
		Registry:   NewRegistry(),
		backend:    backend,
		hint:       hint,
		stagingDir: stagingDir,
		logger:     logger,
	}

	if err := s.bulkLoad(ctx); err != nil {
		os.RemoveAll(stagingDir)
		return nil, err
	}

	return s, nil
}

func (s *Store) bulkLoad(ctx context.Context) error {
	loaded, err := FetchModels(ctx, s.backend, s.hint, s.stagingDir, s.logger)
	if err != nil {
		return err
	}
	for _, lm := range loaded {
		s.Registry.Insert(lm.Model.Name, lm.Model)
	}
	return nil
}

// AddModel pulls the single artefact named (the artefact name, including
// framework prefix, e.g. "catboost-titanic_model") into the staging
// directory, loads it, and inserts it under its sanitized name. Failure
// leaves the Registry unchanged.
func (s *Store) AddModel(ctx context.Context, artefactName string) error {
	artefact := artefactName + model.TarballSuffix
	lm, err := FetchOneArtefact(ctx, s.backend, s.hint, artefact, s.stagingDir)
	if err != nil {
		return err
	}
	s.Registry.Insert(lm.Model.Name, lm.Model)
	return nil
}

// UpdateModel removes the existing entry for the sanitized name, re-fetches
// its artefact, reloads it, and reinserts it with a refreshed timestamp.
// The re-fetch re-derives the unpacked path from the fresh download rather
// than reusing the stale one, so a changed unpack location can never leave
// the reload reading yesterday's artefact.
func (s *Store) UpdateModel(ctx context.Context, sanitizedName string) error {
	handle, ok := s.Registry.Get(sanitizedName)
	if !ok {
		return jamserrors.NotFound(sanitizedName)
	}
	fw := handle.Metadata().Framework
	_ = handle.Release()

	s.Registry.Delete(sanitizedName)

	artefact := model.ArtefactName(fw, sanitizedName)
	lm, err := FetchOneArtefact(ctx, s.backend, s.hint, artefact, s.stagingDir)
	if err != nil {
		return err
	}

	s.Registry.Insert(lm.Model.Name, lm.Model)
	return nil
}

// DeleteModel removes the entry for name without touching the backing
// artefact.
func (s *Store) DeleteModel(name string) error {
	if !s.Registry.Delete(name) {
		return jamserrors.NotFound(name)
	}
	return nil
}

// GetModel returns a shared handle to the named model, or false if absent.
func (s *Store) GetModel(name string) (*model.Handle, bool) {
	return s.Registry.Get(name)
}

// GetModels returns a snapshot of every loaded model's Metadata.
func (s *Store) GetModels() []model.Metadata {
	return s.Registry.List()
}

// Poll runs fetch_models against the backend every interval, inserting or
// replacing Registry entries for whatever it returns, until ctx is
// canceled. A zero interval disables polling entirely; the caller should
// simply not start the Poller in that case. Failures during a cycle are
// logged; the next cycle proceeds regardless.
func (s *Store) Poll(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			loaded, err := FetchModels(ctx, s.backend, s.hint, s.stagingDir, s.logger)
			if err != nil {
				s.logger.WithError(err).Warn("poll cycle failed")
				continue
			}
			for _, lm := range loaded {
				s.Registry.Insert(lm.Model.Name, lm.Model)
			}
		}
	}
}

// Close removes the staging directory and releases every loaded model's
// registry-owned reference. Outstanding shared handles keep native memory
// alive until their own Release, even though stagingDir is now gone.
func (s *Store) Close() error {
	s.Registry.Close()
	return os.RemoveAll(s.stagingDir)
}
