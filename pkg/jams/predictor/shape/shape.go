// Package shape holds the feature-reshaping helpers shared by the catboost,
// lightgbm, torch and xgboost adapters (tensorflow builds its own tensors):
// turning a columnar features.Features into the
// batch-major matrices native engines expect, and wrapping a flat
// prediction vector back into a model.Output head.
package shape

import (
	"github.com/jams-project/jams/pkg/jams/features"
	"github.com/jams-project/jams/pkg/jams/model"
	"github.com/jams-project/jams/pkg/jamserrors"
)

// NumericMatrix widens every integer and float feature into a single
// batch-major float32 matrix (batch rows, one column per feature), floats
// first then integers, matching the widening rule shared by every adapter
// except Catboost (which keeps categoricals separate). It fails if the
// feature set carries no numeric features or any string feature, since
// LightGBM, XGBoost, and Torch all reject strings outright.
func NumericMatrix(f *features.Features) (rows, cols int, mat []float32, err error) {
	if len(f.StringNames()) > 0 {
		return 0, 0, nil, jamserrors.New(jamserrors.KindPredict, "string features are not supported by this engine")
	}

	numFeatures := len(f.FloatNames()) + len(f.IntNames())
	if numFeatures == 0 {
		return 0, 0, nil, jamserrors.New(jamserrors.KindPredict, "no numeric features present in input")
	}

	batch := f.FloatCols()
	if batch == 0 {
		batch = f.IntCols()
	}

	mat = make([]float32, batch*numFeatures)
	col := 0
	for i := range f.FloatNames() {
		row := f.FloatValues()[i*f.FloatCols() : (i+1)*f.FloatCols()]
		for r, v := range row {
			mat[r*numFeatures+col] = v
		}
		col++
	}
	for i := range f.IntNames() {
		row := f.IntValues()[i*f.IntCols() : (i+1)*f.IntCols()]
		for r, v := range row {
			mat[r*numFeatures+col] = float32(v)
		}
		col++
	}
	return batch, numFeatures, mat, nil
}

// CatboostMatrices splits a feature set into Catboost's two required
// tensors: numeric (floats, with integers widened in) and categorical
// (strings), both batch-major.
func CatboostMatrices(f *features.Features) (numeric [][]float32, categorical [][]string, err error) {
	numRows := f.FloatCols()
	if numRows == 0 {
		numRows = f.IntCols()
	}
	catRows := f.StringCols()
	batch := numRows
	if batch == 0 {
		batch = catRows
	}
	if batch == 0 {
		return nil, nil, jamserrors.New(jamserrors.KindPredict, "empty input")
	}

	numCols := len(f.FloatNames()) + len(f.IntNames())
	numeric = make([][]float32, batch)
	for r := 0; r < batch; r++ {
		numeric[r] = make([]float32, numCols)
	}
	col := 0
	for i := range f.FloatNames() {
		row := f.FloatValues()[i*f.FloatCols() : (i+1)*f.FloatCols()]
		for r, v := range row {
			numeric[r][col] = v
		}
		col++
	}
	for i := range f.IntNames() {
		row := f.IntValues()[i*f.IntCols() : (i+1)*f.IntCols()]
		for r, v := range row {
			numeric[r][col] = float32(v)
		}
		col++
	}

	catCols := len(f.StringNames())
	categorical = make([][]string, batch)
	for r := 0; r < batch; r++ {
		categorical[r] = make([]string, catCols)
	}
	for i := range f.StringNames() {
		row := f.StringValues()[i*f.StringCols() : (i+1)*f.StringCols()]
		for r, v := range row {
			categorical[r][i] = v
		}
	}
	return numeric, categorical, nil
}

// WrapSingleHead reshapes a flat batch-major prediction vector into the
// reserved "predictions" head, one row per batch member.
func WrapSingleHead(flat []float64, rows int) model.Output {
	if rows == 0 {
		return model.Output{model.PredictionsHead: nil}
	}
	width := len(flat) / rows
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		out[r] = append([]float64(nil), flat[r*width:(r+1)*width]...)
	}
	return model.Output{model.PredictionsHead: out}
}
