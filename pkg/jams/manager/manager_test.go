package manager

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jams-project/jams/pkg/jams/features"
	"github.com/jams-project/jams/pkg/jams/model"
	"github.com/jams-project/jams/pkg/jams/store"
	"github.com/jams-project/jams/pkg/jams/workerpool"
	"github.com/jams-project/jams/pkg/logging"
)

// emptyBackend lists nothing, so store.New succeeds with an empty Registry
// that tests then populate directly with fake models.
type emptyBackend struct{}

func (emptyBackend) IsEmpty(context.Context, string) (bool, error)           { return true, nil }
func (emptyBackend) ListArtefacts(context.Context, string) ([]string, error) { return nil, nil }
func (emptyBackend) Download(context.Context, string, string, io.Writer) error {
	return nil
}

type nopLogger struct{ logging.Interface }

func (nopLogger) WithField(string, interface{}) logging.Interface { return nopLogger{} }
func (nopLogger) WithError(error) logging.Interface                { return nopLogger{} }
func (nopLogger) Warn(string)                                      {}

type echoPredictor struct{ fw model.Framework }

func (p *echoPredictor) Framework() model.Framework { return p.fw }

func (p *echoPredictor) Predict(input *features.Features) (model.Output, error) {
	rows := input.FloatRows()
	out := make([][]float64, rows)
	for i := range out {
		out[i] = []float64{float64(input.FloatCols())}
	}
	return model.Output{model.PredictionsHead: out}, nil
}

func (p *echoPredictor) Close() error { return nil }

func newTestManager(t *testing.T) (*Manager, *store.Store, func()) {
	t.Helper()
	s, err := store.New(context.Background(), t.TempDir(), emptyBackend{}, "", nopLogger{})
	require.NoError(t, err)

	m := model.New(model.Metadata{Name: "titanic_model", Framework: model.CatBoost}, &echoPredictor{fw: model.CatBoost})
	s.Registry.Insert(m.Name, m)

	pool := workerpool.New(2)
	featurePool := features.NewPool(4, 2, 2)
	return New(s, pool, featurePool), s, func() {
		pool.Close()
		featurePool.Close()
		_ = s.Close()
	}
}

func TestManager_Predict_Success(t *testing.T) {
	m, _, cleanup := newTestManager(t)
	defer cleanup()

	out, err := m.Predict(context.Background(), "titanic_model", []byte(`{"age": [1.0, 2.0]}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"predictions": [[2]]}`, string(out))
}

func TestManager_Predict_UnknownModel(t *testing.T) {
	m, _, cleanup := newTestManager(t)
	defer cleanup()

	_, err := m.Predict(context.Background(), "missing", []byte(`{}`))
	assert.Error(t, err)
}

func TestManager_Predict_InvalidInput(t *testing.T) {
	m, _, cleanup := newTestManager(t)
	defer cleanup()

	_, err := m.Predict(context.Background(), "titanic_model", []byte(`not json`))
	assert.Error(t, err)
}

func TestManager_GetModels_DeleteModel(t *testing.T) {
	m, _, cleanup := newTestManager(t)
	defer cleanup()

	models := m.GetModels()
	require.Len(t, models, 1)
	assert.Equal(t, "titanic_model", models[0].Name)

	require.NoError(t, m.DeleteModel("titanic_model"))
	assert.Empty(t, m.GetModels())
}
