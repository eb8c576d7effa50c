package store

import (
	"path/filepath"
	"time"

	"github.com/jams-project/jams/pkg/jams/model"
	"github.com/jams-project/jams/pkg/jams/predictor"
	"github.com/jams-project/jams/pkg/jamserrors"
)

// LoadedModel pairs a freshly constructed Model with nothing else; it
// exists so callers can insert it into a Registry without re-deriving its
// metadata.
type LoadedModel struct {
	Model *model.Model
}

// loadArtefactDir is the shared loader every backend's fetch delegates to:
// given a directory freshly unpacked from "{framework}-{name}.tar.gz", it
// infers the framework and sanitized name from the directory's own name,
// locates the framework-specific engine path inside it, and invokes the
// matching Adapter to obtain a ready Predictor.
func loadArtefactDir(dir string) (LoadedModel, error) {
	stem := filepath.Base(dir)
	fw, sanitized, ok := model.SplitArtefact(stem + model.TarballSuffix)
	if !ok {
		return LoadedModel{}, jamserrors.New(jamserrors.KindLoad, "unrecognized artefact name %q", stem)
	}

	enginePath := dir
	if suffix := fw.EngineFileSuffix(); suffix != "" {
		enginePath = filepath.Join(dir, sanitized+suffix)
	}

	p, err := predictor.Load(fw, enginePath)
	if err != nil {
		return LoadedModel{}, err
	}

	m := model.New(model.Metadata{
		Name:        sanitized,
		Framework:   fw,
		Path:        enginePath,
		LastUpdated: time.Now(),
	}, p)

	return LoadedModel{Model: m}, nil
}
