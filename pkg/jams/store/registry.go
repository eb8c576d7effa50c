package store

import (
	"hash/fnv"
	"sync"

	"github.com/jams-project/jams/pkg/jams/model"
)

const registryShardCount = 16

// Registry is the concurrent, multi-reader/multi-writer model map. Writes
// serialize per key (via a striped lock, not one coarse lock) so an admin
// operation on one model never blocks predictions against another.
type Registry struct {
	shards [registryShardCount]registryShard
}

type registryShard struct {
	mu     sync.RWMutex
	models map[string]*model.Model
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i].models = make(map[string]*model.Model)
	}
	return r
}

func (r *Registry) shardFor(name string) *registryShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return &r.shards[h.Sum32()%registryShardCount]
}

// Insert adds or replaces the entry for name. If an entry already existed,
// its reference is released (dropping the old native engine once every
// outstanding reader has also released it) after the new one is in place,
// so a concurrent get_model never observes a gap.
func (r *Registry) Insert(name string, m *model.Model) {
	shard := r.shardFor(name)

	shard.mu.Lock()
	old := shard.models[name]
	shard.models[name] = m
	shard.mu.Unlock()

	if old != nil {
		_ = old.Release()
	}
}

// Get returns a reference-counted Handle to the named model, or false if
// absent. The caller must Release the handle when done. Acquire happens
// while the read lock is still held, so a concurrent Delete/Insert (which
// needs the write lock to remove the entry before releasing it) can never
// drop the last reference and close the engine between the lookup and the
// Acquire.
func (r *Registry) Get(name string) (*model.Handle, bool) {
	shard := r.shardFor(name)

	shard.mu.RLock()
	defer shard.mu.RUnlock()

	m, ok := shard.models[name]
	if !ok {
		return nil, false
	}
	return m.Acquire(), true
}

// Delete removes the named entry, releasing the registry's own implicit
// reference. It reports false if no entry existed.
func (r *Registry) Delete(name string) bool {
	shard := r.shardFor(name)

	shard.mu.Lock()
	m, ok := shard.models[name]
	if ok {
		delete(shard.models, name)
	}
	shard.mu.Unlock()

	if !ok {
		return false
	}
	_ = m.Release()
	return true
}

// List returns a point-in-time snapshot of every loaded model's Metadata.
// Order is unspecified.
func (r *Registry) List() []model.Metadata {
	var out []model.Metadata
	for i := range r.shards {
		shard := &r.shards[i]
		shard.mu.RLock()
		for _, m := range shard.models {
			out = append(out, m.Metadata)
		}
		shard.mu.RUnlock()
	}
	return out
}

// Close releases every entry's registry-owned reference, which drops the
// native engines whose last outstanding reader has already gone.
func (r *Registry) Close() {
	for i := range r.shards {
		shard := &r.shards[i]
		shard.mu.Lock()
		for name, m := range shard.models {
			delete(shard.models, name)
			_ = m.Release()
		}
		shard.mu.Unlock()
	}
}
