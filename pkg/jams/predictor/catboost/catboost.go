// Package catboost adapts a Catboost model (.cbm, loaded directory-as-is)
// to the model.Predictor capability. Catboost ships no
// Go-native or pure-Go inference path; this binds directly to the C API
// exposed by libcatboostmodel, which is Catboost's own supported
// integration point for non-JVM/non-Python callers.
package catboost

/*
#cgo LDFLAGS: -lcatboostmodel
#include <stdlib.h>

typedef void ModelCalcerHandle;

ModelCalcerHandle* ModelCalcerCreate();
void ModelCalcerDelete(ModelCalcerHandle* handle);
const char* GetErrorString();
bool LoadFullModelFromFile(ModelCalcerHandle* handle, const char* filename);
bool CalcModelPredictionFlat(
	ModelCalcerHandle* handle,
	size_t docCount,
	const float** floatFeatures, size_t floatFeaturesSize,
	double* result, size_t resultSize);
bool CalcModelPrediction(
	ModelCalcerHandle* handle,
	size_t docCount,
	const float** floatFeatures, size_t floatFeaturesSize,
	const char*** catFeatures, size_t catFeaturesSize,
	double* result, size_t resultSize);
size_t GetFloatFeaturesCount(ModelCalcerHandle* handle);
size_t GetCatFeaturesCount(ModelCalcerHandle* handle);
size_t GetDimensionsCount(ModelCalcerHandle* handle);
*/
import "C"

import (
	"runtime"
	"unsafe"

	"github.com/jams-project/jams/pkg/jams/features"
	"github.com/jams-project/jams/pkg/jams/model"
	"github.com/jams-project/jams/pkg/jams/predictor/shape"
	"github.com/jams-project/jams/pkg/jamserrors"
)

// Predictor wraps a handle owned exclusively by this instance; Close frees
// it exactly once, enforced by model.Model's refcounting above this layer.
type Predictor struct {
	handle *C.ModelCalcerHandle
}

// Load reads a Catboost model file (or, for newer export layouts, the
// directory produced by unpacking the artefact) into a native handle.
func Load(path string) (model.Predictor, error) {
	handle := C.ModelCalcerCreate()
	if handle == nil {
		return nil, jamserrors.New(jamserrors.KindLoad, "failed to allocate catboost model calcer")
	}

	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	if !bool(C.LoadFullModelFromFile(handle, cPath)) {
		errStr := C.GoString(C.GetErrorString())
		C.ModelCalcerDelete(handle)
		return nil, jamserrors.New(jamserrors.KindLoad, "failed to load catboost model from %s: %s", path, errStr)
	}

	p := &Predictor{handle: handle}
	runtime.SetFinalizer(p, (*Predictor).Close)
	return p, nil
}

func (p *Predictor) Framework() model.Framework { return model.CatBoost }

// Predict expects only float and string features; integers are widened to
// floats upstream by CatboostMatrices.
func (p *Predictor) Predict(input *features.Features) (model.Output, error) {
	numeric, categorical, err := shape.CatboostMatrices(input)
	if err != nil {
		return nil, err
	}

	docCount := len(numeric)
	dims := int(C.GetDimensionsCount(p.handle))
	if dims == 0 {
		dims = 1
	}

	floatPtrs := make([]*C.float, docCount)
	floatBufs := make([][]C.float, docCount)
	for i, row := range numeric {
		buf := make([]C.float, len(row))
		for j, v := range row {
			buf[j] = C.float(v)
		}
		floatBufs[i] = buf
		if len(buf) > 0 {
			floatPtrs[i] = &buf[0]
		}
	}

	result := make([]C.double, docCount*dims)

	var ok C.bool
	if len(categorical) > 0 && len(categorical[0]) > 0 {
		catPtrs := make([]**C.char, docCount)
		catBufs := make([][]*C.char, docCount)
		for i, row := range categorical {
			buf := make([]*C.char, len(row))
			for j, v := range row {
				cs := C.CString(v)
				defer C.free(unsafe.Pointer(cs))
				buf[j] = cs
			}
			catBufs[i] = buf
			if len(buf) > 0 {
				catPtrs[i] = &buf[0]
			}
		}
		var floatPtrArg **C.float
		if docCount > 0 {
			floatPtrArg = &floatPtrs[0]
		}
		var catPtrArg ***C.char
		if docCount > 0 {
			catPtrArg = &catPtrs[0]
		}
		ok = C.CalcModelPrediction(p.handle, C.size_t(docCount),
			floatPtrArg, C.size_t(len(numeric[0])),
			catPtrArg, C.size_t(len(categorical[0])),
			&result[0], C.size_t(len(result)))
	} else {
		var floatPtrArg **C.float
		if docCount > 0 {
			floatPtrArg = &floatPtrs[0]
		}
		floatWidth := 0
		if docCount > 0 {
			floatWidth = len(numeric[0])
		}
		ok = C.CalcModelPredictionFlat(p.handle, C.size_t(docCount),
			floatPtrArg, C.size_t(floatWidth),
			&result[0], C.size_t(len(result)))
	}

	if !bool(ok) {
		return nil, jamserrors.New(jamserrors.KindPredict, "catboost prediction failed: %s", C.GoString(C.GetErrorString()))
	}

	flat := make([]float64, len(result))
	for i, v := range result {
		flat[i] = float64(v)
	}
	return shape.WrapSingleHead(flat, docCount), nil
}

func (p *Predictor) Close() error {
	if p.handle != nil {
		C.ModelCalcerDelete(p.handle)
		p.handle = nil
		runtime.SetFinalizer(p, nil)
	}
	return nil
}
