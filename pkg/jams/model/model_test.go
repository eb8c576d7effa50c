package model

import (
	"testing"
	"time"

	"github.com/jams-project/jams/pkg/jams/features"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closingPredictor struct {
	closed bool
}

func (f *closingPredictor) Framework() Framework { return CatBoost }
func (f *closingPredictor) Predict(_ *features.Features) (Output, error) {
	return Output{PredictionsHead: {{1.0}}}, nil
}
func (f *closingPredictor) Close() error {
	f.closed = true
	return nil
}

func TestModel_RefcountClosesOnLastRelease(t *testing.T) {
	fp := &closingPredictor{}
	m := New(Metadata{Name: "m", Framework: CatBoost, LastUpdated: time.Now()}, fp)

	h1 := m.Acquire()
	h2 := m.Acquire()

	require.NoError(t, h1.Release())
	assert.False(t, fp.closed, "should not close while h2 is outstanding")

	require.NoError(t, h2.Release())
	assert.False(t, fp.closed, "the registry's own implicit reference is still held")

	require.NoError(t, m.ownerHandle().Release())
	assert.True(t, fp.closed, "last release should close the predictor")
}
