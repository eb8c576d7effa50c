package features

import (
	"testing"

	"github.com/jams-project/jams/pkg/jamserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_MixedBlocks(t *testing.T) {
	raw := []byte(`{
		"age": [1, 2],
		"height": [1.5, 1.8],
		"city": ["nyc", "sf"]
	}`)

	f, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, 1, f.Integer.Rows)
	assert.Equal(t, 2, f.Integer.Cols)
	assert.Equal(t, []int32{1, 2}, f.Integer.Values)

	assert.Equal(t, 1, f.Float.Rows)
	assert.Equal(t, []float32{1.5, 1.8}, f.Float.Values)

	assert.Equal(t, 1, f.String.Rows)
	assert.Equal(t, []string{"nyc", "sf"}, f.String.Values)
}

func TestParse_TopLevelNotObject(t *testing.T) {
	_, err := Parse([]byte(`[1,2,3]`))
	require.Error(t, err)
	assert.True(t, jamserrors.Is(err, jamserrors.KindParse))
}

func TestParse_EmptyArray(t *testing.T) {
	_, err := Parse([]byte(`{"f1":[]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty array")
}

func TestParse_HeterogeneousArray(t *testing.T) {
	_, err := Parse([]byte(`{"f1":[1, "two"]}`))
	require.Error(t, err)
	assert.True(t, jamserrors.Is(err, jamserrors.KindParse))
}

func TestParse_DuplicateKey(t *testing.T) {
	_, err := Parse([]byte(`{"f1":[1],"f1":[2]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestParse_MismatchedColumnCounts(t *testing.T) {
	_, err := Parse([]byte(`{"f1":[1,2],"f2":[1,2,3]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "f2")
}

func TestParse_RoundTrip(t *testing.T) {
	raw := []byte(`{"age":[1,2,3],"height":[1.1,2.2,3.3],"city":["a","b","c"]}`)
	f, err := Parse(raw)
	require.NoError(t, err)

	rendered, err := Render(f)
	require.NoError(t, err)

	f2, err := Parse(rendered)
	require.NoError(t, err)

	assert.Equal(t, f, f2)
}

func TestParseInto_ReusesCarrier(t *testing.T) {
	f := &Features{}
	require.NoError(t, ParseInto([]byte(`{"a":[1,2]}`), f))
	assert.Equal(t, 1, f.Integer.Rows)

	require.NoError(t, ParseInto([]byte(`{"b":[3.5]}`), f))
	assert.Equal(t, 0, f.Integer.Rows, "reset should clear the previous block")
	assert.Equal(t, 1, f.Float.Rows)
}
