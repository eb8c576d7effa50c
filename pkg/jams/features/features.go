// Package features implements the JSON feature marshaller:
// parsing a request's feature map into three parallel columnar blocks, one
// per inferred type, ready for a Predictor adapter to reshape into tensors.
package features

// FloatBlock is one columnar type partition (IntBlock and StringBlock share
// its layout): Rows features, each a contiguous
// run of Cols values inside Values. Values is laid out features-major,
// rows-within-feature: feature i's values occupy Values[i*Cols : (i+1)*Cols].
type FloatBlock struct {
	Names  []string
	Values []float32
	Rows   int
	Cols   int
}

type IntBlock struct {
	Names  []string
	Values []int32
	Rows   int
	Cols   int
}

type StringBlock struct {
	Names  []string
	Values []string
	Rows   int
	Cols   int
}

// Features is the Marshaller's intermediate form: three parallel columnar
// blocks, one per JSON-inferred type.
type Features struct {
	Float   FloatBlock
	Integer IntBlock
	String  StringBlock
}

// reset clears a Features carrier for reuse without releasing the backing
// arrays' capacity, so a pooled carrier (see Pool) can be refilled without a
// fresh allocation per request.
func (f *Features) reset() {
	f.Float.Names = f.Float.Names[:0]
	f.Float.Values = f.Float.Values[:0]
	f.Float.Rows, f.Float.Cols = 0, 0

	f.Integer.Names = f.Integer.Names[:0]
	f.Integer.Values = f.Integer.Values[:0]
	f.Integer.Rows, f.Integer.Cols = 0, 0

	f.String.Names = f.String.Names[:0]
	f.String.Values = f.String.Values[:0]
	f.String.Rows, f.String.Cols = 0, 0
}

// FloatNames, FloatValues, ... implement the narrow read-only surface that
// Predictor adapters use to reshape a parsed Features into tensors. They're
// plain accessors (not struct field access) so adapters don't need to know
// about the pool-reuse internals above.
func (f *Features) FloatNames() []string   { return f.Float.Names }
func (f *Features) FloatValues() []float32 { return f.Float.Values }
func (f *Features) FloatRows() int         { return f.Float.Rows }
func (f *Features) FloatCols() int         { return f.Float.Cols }

func (f *Features) IntNames() []string   { return f.Integer.Names }
func (f *Features) IntValues() []int32   { return f.Integer.Values }
func (f *Features) IntRows() int         { return f.Integer.Rows }
func (f *Features) IntCols() int         { return f.Integer.Cols }

func (f *Features) StringNames() []string  { return f.String.Names }
func (f *Features) StringValues() []string { return f.String.Values }
func (f *Features) StringRows() int        { return f.String.Rows }
func (f *Features) StringCols() int        { return f.String.Cols }
