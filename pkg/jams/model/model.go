package model

import (
	"sync/atomic"
	"time"

	"github.com/jams-project/jams/pkg/jams/features"
)

// Predictor is the capability every framework-specific adapter implements.
// The wire layer and the Model Store only ever see this interface; the
// concrete engine handle is private to each predictor package.
type Predictor interface {
	Framework() Framework
	// Predict runs inference and returns a named-head output matrix.
	Predict(input *features.Features) (Output, error)
	// Close releases the native engine. It must be safe to call exactly
	// once and must not be called while a Predict is in flight.
	Close() error
}

// Output maps a named output head to a 2-D matrix of 64-bit floats. Single
// output engines use the reserved head name "predictions".
type Output map[string][][]float64

// PredictionsHead is the reserved head name for single-output engines.
const PredictionsHead = "predictions"

// Metadata describes a loaded model without exposing its native handle.
type Metadata struct {
	Name        string    `json:"name"`
	Framework   Framework `json:"framework"`
	Path        string    `json:"path"`
	LastUpdated time.Time `json:"last_updated"`
}

// Model pairs Metadata with an owned Predictor. It is immutable once built;
// concurrent predictions share the same *Model through a Handle (see
// Acquire/Release) so the native engine outlives every in-flight caller but
// is released exactly once the last one drops it.
type Model struct {
	Metadata

	predictor Predictor
	refs      atomic.Int64
	closed    atomic.Bool
}

// New wraps a freshly loaded Predictor into a Model with one implicit
// reference owned by whichever registry inserts it.
func New(meta Metadata, p Predictor) *Model {
	m := &Model{Metadata: meta, predictor: p}
	m.refs.Store(1)
	return m
}

// Handle is a reference-counted view of a Model's Predictor. Every reader
// (a predict call, a registry insertion) holds exactly one Handle and must
// call Release exactly once.
type Handle struct {
	model *Model
}

// Acquire takes out a new reference to the Model, returning a Handle the
// caller must Release.
func (m *Model) Acquire() *Handle {
	m.refs.Add(1)
	return &Handle{model: m}
}

// Predictor returns the underlying Predictor for the lifetime of the Handle.
// Calling it after Release is a programming error.
func (h *Handle) Predictor() Predictor { return h.model.predictor }

// Metadata returns the model's metadata snapshot.
func (h *Handle) Metadata() Metadata { return h.model.Metadata }

// Release drops this reference. When the last outstanding reference
// (including the registry's own, dropped via Model.release) is released,
// the native engine is closed.
func (h *Handle) Release() error {
	return h.model.release()
}

// release is the shared decrement used by both Handle.Release and the
// registry's own bookkeeping when an entry is removed or replaced.
func (m *Model) release() error {
	if m.refs.Add(-1) == 0 {
		if m.closed.CompareAndSwap(false, true) {
			return m.predictor.Close()
		}
	}
	return nil
}

// ownerHandle returns the registry's own implicit reference as a Handle, so
// removal can go through the same Release path as any other reader.
func (m *Model) ownerHandle() *Handle { return &Handle{model: m} }

// Release drops the registry's own implicit reference, taken out by New.
// A Registry calls this exactly once per entry, when that entry is removed
// or replaced; it must never be called more than once for the same Model.
func (m *Model) Release() error { return m.ownerHandle().Release() }
