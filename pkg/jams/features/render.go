package features

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Render serializes Features back into the JSON feature-map form Parse
// accepts, satisfying the round-trip law Parse(Render(f)) == f (up to the
// widening already applied by Parse: int64->int32, float64->float32).
func Render(f *Features) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	writeComma := func() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
	}

	for i, name := range f.Float.Names {
		writeComma()
		row := f.Float.Values[i*f.Float.Cols : (i+1)*f.Float.Cols]
		// Every float keeps a decimal point or exponent, so an integral
		// value such as 2.0 is not re-parsed as an integer feature.
		nums := make([]json.Number, len(row))
		for j, v := range row {
			s := strconv.FormatFloat(float64(v), 'g', -1, 32)
			if !strings.ContainsAny(s, ".eE") {
				s += ".0"
			}
			nums[j] = json.Number(s)
		}
		if err := writeFeature(&buf, name, nums); err != nil {
			return nil, err
		}
	}
	for i, name := range f.Integer.Names {
		writeComma()
		row := f.Integer.Values[i*f.Integer.Cols : (i+1)*f.Integer.Cols]
		if err := writeFeature(&buf, name, row); err != nil {
			return nil, err
		}
	}
	for i, name := range f.String.Names {
		writeComma()
		row := f.String.Values[i*f.String.Cols : (i+1)*f.String.Cols]
		if err := writeFeature(&buf, name, row); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeFeature(buf *bytes.Buffer, name string, row interface{}) error {
	keyBytes, err := json.Marshal(name)
	if err != nil {
		return fmt.Errorf("encoding feature name %q: %w", name, err)
	}
	valBytes, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encoding feature %q: %w", name, err)
	}
	buf.Write(keyBytes)
	buf.WriteByte(':')
	buf.Write(valBytes)
	return nil
}
