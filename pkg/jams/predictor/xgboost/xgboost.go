// Package xgboost adapts an XGBoost text/json model dump to the
// model.Predictor capability, structurally identical to the lightgbm
// adapter but loading through leaves' XGBoost ensemble reader.
package xgboost

import (
	"github.com/dmitryikh/leaves"

	"github.com/jams-project/jams/pkg/jams/features"
	"github.com/jams-project/jams/pkg/jams/model"
	"github.com/jams-project/jams/pkg/jams/predictor/shape"
	"github.com/jams-project/jams/pkg/jamserrors"
)

type Predictor struct {
	ensemble *leaves.Ensemble
}

func Load(path string) (model.Predictor, error) {
	ensemble, err := leaves.XGEnsembleFromFile(path, false)
	if err != nil {
		return nil, jamserrors.Wrap(jamserrors.KindLoad, err, "failed to load xgboost model from %s", path)
	}
	return &Predictor{ensemble: ensemble}, nil
}

func (p *Predictor) Framework() model.Framework { return model.XGBoost }

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
		return nil, jamserrors.Wrap(jamserrors.KindPredict, err, "xgboost prediction failed")
	}

	return shape.WrapSingleHead(predictions, rows), nil
}

func (p *Predictor) Close() error { return nil }
