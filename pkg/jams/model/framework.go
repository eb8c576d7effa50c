package model

import (
	"fmt"
	"strings"
)

// Framework is the closed enumeration of inference engines J.A.M.S. can load.
type Framework string

const (
	TensorFlow Framework = "tensorflow"
	Torch      Framework = "torch"
	CatBoost   Framework = "catboost"
	LightGBM   Framework = "lightgbm"
	XGBoost    Framework = "xgboost"
)

var knownFrameworks = map[Framework]struct{}{
	TensorFlow: {},
	Torch:      {},
	CatBoost:   {},
	LightGBM:   {},
	XGBoost:    {},
}

// Valid reports whether f is one of the closed enumeration values.
func (f Framework) Valid() bool {
	_, ok := knownFrameworks[f]
	return ok
}

// ParseFramework maps an artefact's leading dash-delimited segment to a
// Framework. It returns false if the prefix is not a recognized framework;
// callers treat that as a skip, not a fatal error.
func ParseFramework(prefix string) (Framework, bool) {
	f := Framework(strings.ToLower(prefix))
	if !f.Valid() {
		return "", false
	}
	return f, true
}

// EngineFileSuffix returns the suffix appended to the sanitized name to
// locate the framework-specific file to hand to the native engine. Torch and
// the tree-ensemble engines load a single file inside the unpacked artefact;
// TensorFlow and CatBoost load the unpacked directory as-is.
func (f Framework) EngineFileSuffix() string {
	switch f {
	case Torch:
		return ".pt"
	case LightGBM, XGBoost:
		return ".txt"
	case TensorFlow, CatBoost:
		return ""
	default:
		return ""
	}
}

func (f Framework) String() string { return string(f) }

// ErrUnknownFramework is returned by strict callers (e.g. explicit
// add_model) that must fail rather than skip on an unrecognized prefix.
func ErrUnknownFramework(prefix string) error {
	return fmt.Errorf("unrecognized framework prefix %q", prefix)
}
