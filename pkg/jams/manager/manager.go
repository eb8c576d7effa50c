// Package manager is the thin facade wire handlers call into: it resolves a
// model name against the Store, hands prediction work to the Worker Pool,
// and otherwise delegates lifecycle operations straight through.
package manager

import (
	"context"
	"encoding/json"

	"github.com/jams-project/jams/pkg/jams/features"
	"github.com/jams-project/jams/pkg/jams/model"
	"github.com/jams-project/jams/pkg/jams/store"
	"github.com/jams-project/jams/pkg/jams/workerpool"
	"github.com/jams-project/jams/pkg/jamserrors"
)

// Manager is the single entry point wire servers depend on.
type Manager struct {
	store    *store.Store
	pool     *workerpool.Pool
	features *features.Pool
}

// New builds a Manager over an already-populated Store and a running Pool.
// None of the three are owned exclusively by the Manager; all are closed by
// whoever constructed them (see apiserver's lifecycle hook).
func New(s *store.Store, pool *workerpool.Pool, featurePool *features.Pool) *Manager {
	return &Manager{store: s, pool: pool, features: featurePool}
}

// predictResult is the one-shot payload a worker job sends back.
type predictResult struct {
	output model.Output
	err    error
}

// Predict resolves modelName, submits the parsed input to the Worker Pool,
// and returns the marshaled output. If ctx is canceled before a worker
// picks up the job, the wire layer's deadline wins and the worker's
// eventual send becomes a no-op against nobody listening.
//
// The feature carrier is detached from the Feature Pool on entry, filled in
// place via ParseInto, and returned to the pool once the Predictor adapter
// has finished reading it inside the job — never while the job might still
// be queued or running.
func (m *Manager) Predict(ctx context.Context, modelName string, inputJSON []byte) ([]byte, error) {
	handle, ok := m.store.GetModel(modelName)
	if !ok {
		return nil, jamserrors.NotFound(modelName)
	}
	defer handle.Release()

	input := m.features.Get()
	if err := features.ParseInto(inputJSON, input); err != nil {
		m.features.Put(input)
		return nil, err
	}

	resultCh := make(chan predictResult, 1)
	job := func() {
		output, err := handle.Predictor().Predict(input)
		m.features.Put(input)
		resultCh <- predictResult{output: output, err: err}
	}

	if err := m.pool.Submit(ctx, job); err != nil {
		m.features.Put(input)
		return nil, err
	}

	select {
	case res := <-resultCh:
		if res.err != nil {
			return nil, jamserrors.Wrap(jamserrors.KindPredict, res.err, "prediction failed for model %q", modelName)
		}
		out, err := json.Marshal(res.output)
		if err != nil {
			return nil, jamserrors.Wrap(jamserrors.KindPredict, err, "failed to encode output for model %q", modelName)
		}
		return out, nil
	case <-ctx.Done():
		return nil, jamserrors.Wrap(jamserrors.KindPredict, ctx.Err(), "prediction canceled for model %q", modelName)
	}
}

// AddModel fetches and registers the artefact named by artefactName.
func (m *Manager) AddModel(ctx context.Context, artefactName string) error {
	return m.store.AddModel(ctx, artefactName)
}

// UpdateModel re-fetches and re-registers the model identified by its
// sanitized name.
func (m *Manager) UpdateModel(ctx context.Context, sanitizedName string) error {
	return m.store.UpdateModel(ctx, sanitizedName)
}

// DeleteModel removes the model identified by its sanitized name from the
// registry without touching the backing artefact.
func (m *Manager) DeleteModel(sanitizedName string) error {
	return m.store.DeleteModel(sanitizedName)
}

// GetModels returns a snapshot of every loaded model's Metadata.
func (m *Manager) GetModels() []model.Metadata {
	return m.store.GetModels()
}
