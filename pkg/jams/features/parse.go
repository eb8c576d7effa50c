package features

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jams-project/jams/pkg/jamserrors"
)

// kind is the type a feature's array elements were inferred to hold, judged
// solely from the array's first element.
type kind int

const (
	kindFloat kind = iota
	kindInt
	kindString
)

// Parse decodes a JSON feature map into columnar Features blocks. It fails
// with a jamserrors.KindParse error when: the top-level value isn't an
// object; any value isn't an array; any array is empty; an array's elements
// are heterogeneous; a key repeats; or two features of the same inferred
// type disagree on array length.
func Parse(raw []byte) (*Features, error) {
	f := &Features{}
	if err := ParseInto(raw, f); err != nil {
		return nil, err
	}
	return f, nil
}

// ParseInto parses into a caller-supplied carrier (see Pool), resetting it
// first so a pooled buffer can be reused without per-request allocation.
func ParseInto(raw []byte, f *Features) error {
	f.reset()

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return parseErr("invalid JSON: %v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return parseErr("top-level value must be a JSON object")
	}

	seen := make(map[string]struct{})

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return parseErr("invalid JSON: %v", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return parseErr("expected a string key, got %v", keyTok)
		}
		if _, dup := seen[key]; dup {
			return parseErr("duplicate feature name %q", key)
		}
		seen[key] = struct{}{}

		var raws []json.RawMessage
		if err := dec.Decode(&raws); err != nil {
			return parseErr("feature %q must be a JSON array: %v", key, err)
		}
		if len(raws) == 0 {
			return parseErr("feature %q is an empty array", key)
		}

		k, err := inferKind(raws[0])
		if err != nil {
			return parseErr("feature %q: %v", key, err)
		}

		switch k {
		case kindFloat:
			vals := make([]float32, len(raws))
			for i, r := range raws {
				v, err := decodeFloat(r)
				if err != nil {
					return parseErr("feature %q: element %d is not numeric: %v", key, i, err)
				}
				vals[i] = v
			}
			if err := appendFloat(&f.Float, key, vals); err != nil {
				return err
			}
		case kindInt:
			vals := make([]int32, len(raws))
			for i, r := range raws {
				v, err := decodeInt(r)
				if err != nil {
					return parseErr("feature %q: element %d is not an integer: %v", key, i, err)
				}
				vals[i] = v
			}
			if err := appendInt(&f.Integer, key, vals); err != nil {
				return err
			}
		case kindString:
			vals := make([]string, len(raws))
			for i, r := range raws {
				var s string
				if err := json.Unmarshal(r, &s); err != nil {
					return parseErr("feature %q: element %d is not a string", key, i)
				}
				vals[i] = s
			}
			if err := appendString(&f.String, key, vals); err != nil {
				return err
			}
		}
	}

	// consume the closing '}'
	if _, err := dec.Token(); err != nil {
		return parseErr("invalid JSON: %v", err)
	}

	return nil
}

func inferKind(raw json.RawMessage) (kind, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, fmt.Errorf("empty element")
	}
	if trimmed[0] == '"' {
		return kindString, nil
	}
	// numeric: float if it contains a decimal point or exponent
	s := string(trimmed)
	if strings.ContainsAny(s, ".eE") {
		return kindFloat, nil
	}
	return kindInt, nil
}

func decodeFloat(raw json.RawMessage) (float32, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}

func decodeInt(raw json.RawMessage) (int32, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func appendFloat(b *FloatBlock, name string, vals []float32) error {
	if b.Rows > 0 && len(vals) != b.Cols {
		return parseErr("feature %q has length %d, expected %d like the other float features", name, len(vals), b.Cols)
	}
	b.Names = append(b.Names, name)
	b.Values = append(b.Values, vals...)
	b.Rows++
	b.Cols = len(vals)
	return nil
}

func appendInt(b *IntBlock, name string, vals []int32) error {
	if b.Rows > 0 && len(vals) != b.Cols {
		return parseErr("feature %q has length %d, expected %d like the other integer features", name, len(vals), b.Cols)
	}
	b.Names = append(b.Names, name)
	b.Values = append(b.Values, vals...)
	b.Rows++
	b.Cols = len(vals)
	return nil
}

func appendString(b *StringBlock, name string, vals []string) error {
	if b.Rows > 0 && len(vals) != b.Cols {
		return parseErr("feature %q has length %d, expected %d like the other string features", name, len(vals), b.Cols)
	}
	b.Names = append(b.Names, name)
	b.Values = append(b.Values, vals...)
	b.Rows++
	b.Cols = len(vals)
	return nil
}

func parseErr(format string, args ...interface{}) error {
	return jamserrors.New(jamserrors.KindParse, fmt.Sprintf(format, args...))
}
