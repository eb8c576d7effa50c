// Package predictor dispatches on model.Framework to the framework-specific
// adapter packages. Dispatch is a tagged variant, not dynamic lookup: the
// wire layer never learns which branch ran.
package predictor

import (
	"github.com/jams-project/jams/pkg/jams/model"
	"github.com/jams-project/jams/pkg/jamserrors"

	"github.com/jams-project/jams/pkg/jams/predictor/catboost"
	"github.com/jams-project/jams/pkg/jams/predictor/lightgbm"
	"github.com/jams-project/jams/pkg/jams/predictor/tensorflow"
	"github.com/jams-project/jams/pkg/jams/predictor/torch"
	"github.com/jams-project/jams/pkg/jams/predictor/xgboost"
)

// Load dispatches to the adapter matching fw and returns a ready-to-use
// model.Predictor.
func Load(fw model.Framework, path string) (model.Predictor, error) {
	switch fw {
	case model.CatBoost:
		return catboost.Load(path)
	case model.LightGBM:
		return lightgbm.Load(path)
	case model.XGBoost:
		return xgboost.Load(path)
	case model.TensorFlow:
		return tensorflow.Load(path)
	case model.Torch:
		return torch.Load(path)
	default:
		return nil, jamserrors.New(jamserrors.KindLoad, "unrecognized framework %q", fw)
	}
}
