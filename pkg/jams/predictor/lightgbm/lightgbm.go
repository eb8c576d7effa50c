// Package lightgbm adapts a LightGBM text model dump to the
// model.Predictor capability using the pure-Go leaves inference engine,
// which reads LightGBM's native text format without a cgo dependency.
package lightgbm

import (
	"github.com/dmitryikh/leaves"

	"github.com/jams-project/jams/pkg/jams/features"
	"github.com/jams-project/jams/pkg/jams/model"
	"github.com/jams-project/jams/pkg/jams/predictor/shape"
	"github.com/jams-project/jams/pkg/jamserrors"
)

// Predictor wraps a leaves ensemble loaded from a LightGBM text dump.
type Predictor struct {
	ensemble *leaves.Ensemble
}

// Load parses the LightGBM text model at path into a leaves.Ensemble.
func Load(path string) (model.Predictor, error) {
	ensemble, err := leaves.LGEnsembleFromFile(path, true)
	if err != nil {
		return nil, jamserrors.Wrap(jamserrors.KindLoad, err, "failed to load lightgbm model from %s", path)
	}
	return &Predictor{ensemble: ensemble}, nil
}

func (p *Predictor) Framework() model.Framework { return model.LightGBM }

// Predict rejects string features and widens integers, building one
// batch-major (row-major) matrix. The ensemble is loaded with its output
// transformation, so scores match LightGBM's Normal prediction mode.
func (p *Predictor) Predict(input *features.Features) (model.Output, error) {
	rows, cols, mat, err := shape.NumericMatrix(input)
	if err != nil {
		return nil, err
	}

	fvals := make([]float64, len(mat))
	for i, v := range mat {
		fvals[i] = float64(v)
	}

	nOutputGroups := p.ensemble.NOutputGroups()
	predictions := make([]float64, rows*nOutputGroups)
	if err := p.ensemble.PredictDense(fvals, rows, cols, predictions, 0, 1); err != nil {
		return nil, jamserrors.Wrap(jamserrors.KindPredict, err, "lightgbm prediction failed")
	}

	return shape.WrapSingleHead(predictions, rows), nil
}

func (p *Predictor) Close() error { return nil }
