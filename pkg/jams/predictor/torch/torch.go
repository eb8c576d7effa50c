// Package torch adapts a TorchScript module (.pt) to the model.Predictor
// capability using gotch's libtorch bindings.
package torch

import (
	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/ts"

	"github.com/jams-project/jams/pkg/jams/features"
	"github.com/jams-project/jams/pkg/jams/model"
	"github.com/jams-project/jams/pkg/jams/predictor/shape"
	"github.com/jams-project/jams/pkg/jamserrors"
)

// Predictor wraps a loaded TorchScript module, run on CPU. GPU placement is
// out of scope.
type Predictor struct {
	module *ts.CModule
}

// Load reads the scripted module at path.
func Load(path string) (model.Predictor, error) {
	module, err := ts.ModuleLoadOnDevice(path, gotch.CPU)
	if err != nil {
		return nil, jamserrors.Wrap(jamserrors.KindLoad, err, "failed to load torch module from %s", path)
	}
	return &Predictor{module: module}, nil
}

func (p *Predictor) Framework() model.Framework { return model.Torch }

// Predict rejects strings, widens integers, and builds a single 2-D tensor
// transposed so rows correspond to the batch dimension.
func (p *Predictor) Predict(input *features.Features) (model.Output, error) {
	rows, cols, mat, err := shape.NumericMatrix(input)
	if err != nil {
		return nil, err
	}

	f64 := make([]float64, len(mat))
	for i, v := range mat {
		f64[i] = float64(v)
	}

	inputTensor, err := ts.NewTensorFromData(f64, []int64{int64(rows), int64(cols)})
	if err != nil {
		return nil, jamserrors.Wrap(jamserrors.KindPredict, err, "failed to build torch input tensor")
	}
	defer inputTensor.MustDrop()

	output, err := p.module.ForwardTs([]ts.Tensor{*inputTensor})
	if err != nil {
		return nil, jamserrors.Wrap(jamserrors.KindPredict, err, "torch forward pass failed")
	}
	defer output.MustDrop()

	outSize := output.MustSize()
	outRows := int(outSize[0])

	flat, err := output.Float64Values()
	if err != nil {
		return nil, jamserrors.Wrap(jamserrors.KindPredict, err, "failed to read torch output tensor")
	}

	return shape.WrapSingleHead(flat, outRows), nil
}

func (p *Predictor) Close() error {
	if p.module != nil {
		p.module.Drop()
		p.module = nil
	}
	return nil
}
