// Package tensorflow adapts a SavedModel directory to the model.Predictor
// capability using the official TensorFlow Go C-API bindings. The default
// serving signature is read at load time and cached; the predict path never
// reopens the SavedModel directory, since it may be gone by the time
// outstanding predictions finish.
package tensorflow

import (
	"strings"

	tf "github.com/tensorflow/tensorflow/tensorflow/go"

	"github.com/jams-project/jams/pkg/jams/features"
	"github.com/jams-project/jams/pkg/jams/model"
	"github.com/jams-project/jams/pkg/jamserrors"
)

const (
	servingTag          = "serve"
	defaultServingKey   = "serving_default"
	outputOperationHint = "StatefulPartitionedCall"
)

// inputSpec describes one named input of the serving signature: its graph
// operation, dtype, and the feature name to pull from a request.
type inputSpec struct {
	feature    string
	operation  *tf.Operation
	dtype      tf.DataType
	sequential bool
}

// Predictor wraps a loaded SavedModel graph plus its cached signature.
type Predictor struct {
	saved      *tf.SavedModel
	inputs     []inputSpec
	sequential bool
	output     tf.Output
}

// Load opens the SavedModel at path under the "serve" tag and resolves its
// default serving signature, auto-selecting between the sequential (single
// input) and functional (multi-input, looked up by "{default_serving_key}_
// {feature_name}") layouts by counting signature inputs.
func Load(path string) (model.Predictor, error) {
	saved, err := tf.LoadSavedModel(path, []string{servingTag}, nil)
	if err != nil {
		return nil, jamserrors.Wrap(jamserrors.KindLoad, err, "failed to load tensorflow saved model from %s", path)
	}

	sig, ok := saved.Signatures()[defaultServingKey]
	if !ok {
		return nil, jamserrors.New(jamserrors.KindLoad, "saved model at %s has no %s signature", path, defaultServingKey)
	}

	inputs := make([]inputSpec, 0, len(sig.Inputs))
	for opName, info := range sig.Inputs {
		op := saved.Graph.Operation(info.Name)
		if op == nil {
			return nil, jamserrors.New(jamserrors.KindLoad, "signature input %s references missing operation %s", opName, info.Name)
		}
		dtype := tf.DataType(info.DType)
		switch dtype {
		case tf.Int32, tf.Float, tf.String:
		default:
			return nil, jamserrors.New(jamserrors.KindLoad, "signature input %s has unsupported dtype %v", opName, dtype)
		}

		feature := opName
		if len(sig.Inputs) > 1 {
			feature = strings.TrimPrefix(opName, defaultServingKey+"_")
		}
		inputs = append(inputs, inputSpec{feature: feature, operation: op, dtype: dtype, sequential: len(sig.Inputs) == 1})
	}

	outInfo, ok := firstOutput(sig.Outputs)
	if !ok {
		return nil, jamserrors.New(jamserrors.KindLoad, "saved model at %s has no outputs in its default signature", path)
	}
	outOp := saved.Graph.Operation(outInfo.Name)
	if outOp == nil {
		return nil, jamserrors.New(jamserrors.KindLoad, "output operation %s not found in graph", outInfo.Name)
	}

	return &Predictor{
		saved:      saved,
		inputs:     inputs,
		sequential: len(inputs) == 1,
		output:     outOp.Output(outInfo.Index),
	}, nil
}

func firstOutput(outputs map[string]tf.TensorInfo) (tf.TensorInfo, bool) {
	for _, info := range outputs {
		return info, true
	}
	return tf.TensorInfo{}, false
}

func (p *Predictor) Framework() model.Framework { return model.TensorFlow }

// Predict builds one tensor per signature input (sequential: all features
// of a type concatenated into a single tensor; functional: one tensor per
// named input), runs the graph, and reads the first output tensor reshaped
// to (batch, width), widened to 64-bit.
func (p *Predictor) Predict(input *features.Features) (model.Output, error) {
	feeds := make(map[tf.Output]*tf.Tensor, len(p.inputs))

	for _, spec := range p.inputs {
		tensor, err := buildInputTensor(input, spec)
		if err != nil {
			return nil, err
		}
		feeds[spec.operation.Output(0)] = tensor
	}

	results, err := p.saved.Session.Run(feeds, []tf.Output{p.output}, nil)
	if err != nil {
		return nil, jamserrors.Wrap(jamserrors.KindPredict, err, "tensorflow session run failed")
	}
	if len(results) == 0 {
		return nil, jamserrors.New(jamserrors.KindPredict, "tensorflow session returned no outputs")
	}

	return reshapeOutput(results[0])
}

func buildInputTensor(input *features.Features, spec inputSpec) (*tf.Tensor, error) {
	switch spec.dtype {
	case tf.Float:
		return tf.NewTensor(selectFloatMatrix(input, spec))
	case tf.Int32:
		return tf.NewTensor(selectIntMatrix(input, spec))
	case tf.String:
		return tf.NewTensor(selectStringMatrix(input, spec))
	default:
		return nil, jamserrors.New(jamserrors.KindPredict, "unsupported input dtype for feature %q", spec.feature)
	}
}

// selectFloatMatrix returns a (batch, k) matrix: in sequential mode every
// float feature concatenated column-wise; in functional mode the single
// named feature's column.
func selectFloatMatrix(f *features.Features, spec inputSpec) [][]float32 {
	names := f.FloatNames()
	cols := f.FloatCols()
	values := f.FloatValues()

	idxs := matchingIndices(names, spec.feature, spec.sequential)
	out := make([][]float32, cols)
	for r := 0; r < cols; r++ {
		row := make([]float32, len(idxs))
		for j, i := range idxs {
			row[j] = values[i*cols+r]
		}
		out[r] = row
	}
	return out
}

func selectIntMatrix(f *features.Features, spec inputSpec) [][]int32 {
	names := f.IntNames()
	cols := f.IntCols()
	values := f.IntValues()

	idxs := matchingIndices(names, spec.feature, spec.sequential)
	out := make([][]int32, cols)
	for r := 0; r < cols; r++ {
		row := make([]int32, len(idxs))
		for j, i := range idxs {
			row[j] = values[i*cols+r]
		}
		out[r] = row
	}
	return out
}

func selectStringMatrix(f *features.Features, spec inputSpec) [][]string {
	names := f.StringNames()
	cols := f.StringCols()
	values := f.StringValues()

	idxs := matchingIndices(names, spec.feature, spec.sequential)
	out := make([][]string, cols)
	for r := 0; r < cols; r++ {
		row := make([]string, len(idxs))
		for j, i := range idxs {
			row[j] = values[i*cols+r]
		}
		out[r] = row
	}
	return out
}

// matchingIndices returns every feature index to feed into this input. In
// sequential mode (allMatch) every feature of the type is included; in
// functional mode only the one whose name equals the input's feature.
func matchingIndices(names []string, feature string, allMatch bool) []int {
	var idxs []int
	for i, n := range names {
		if allMatch || n == feature {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func reshapeOutput(t *tf.Tensor) (model.Output, error) {
	shapeDims := t.Shape()
	if len(shapeDims) != 2 {
		return nil, jamserrors.New(jamserrors.KindPredict, "expected a rank-2 output tensor, got shape %v", shapeDims)
	}
	rows := int(shapeDims[0])

	var flat []float64
	switch v := t.Value().(type) {
	case [][]float32:
		for _, row := range v {
			for _, x := range row {
				flat = append(flat, float64(x))
			}
		}
	case [][]float64:
		for _, row := range v {
			flat = append(flat, row...)
		}
	default:
		return nil, jamserrors.New(jamserrors.KindPredict, "unsupported output tensor element type")
	}

	width := 0
	if rows > 0 {
		width = len(flat) / rows
	}
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		out[r] = append([]float64(nil), flat[r*width:(r+1)*width]...)
	}
	return model.Output{model.PredictionsHead: out}, nil
}

func (p *Predictor) Close() error {
	if p.saved != nil {
		return p.saved.Session.Close()
	}
	return nil
}
