package grpcapi

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jams-project/jams/pkg/jams/features"
	"github.com/jams-project/jams/pkg/jams/manager"
	"github.com/jams-project/jams/pkg/jams/model"
	"github.com/jams-project/jams/pkg/jams/store"
	"github.com/jams-project/jams/pkg/jams/workerpool"
	"github.com/jams-project/jams/pkg/logging"
)

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
func (p *echoPredictor) Close() error               { return nil }
func (p *echoPredictor) Predict(input *features.Features) (model.Output, error) {
	rows := input.FloatRows()
	out := make([][]float64, rows)
	for i := range out {
		out[i] = []float64{float64(input.FloatCols())}
	}
	return model.Output{model.PredictionsHead: out}, nil
}

func newTestService(t *testing.T) (*service, func()) {
	t.Helper()
	s, err := store.New(context.Background(), t.TempDir(), emptyBackend{}, "", nopLogger{})
	require.NoError(t, err)

	m := model.New(model.Metadata{Name: "titanic_model", Framework: model.CatBoost}, &echoPredictor{fw: model.CatBoost})
	s.Registry.Insert(m.Name, m)

	pool := workerpool.New(2)
	featurePool := features.NewPool(4, 2, 2)
	return &service{manager: manager.New(s, pool, featurePool)}, func() {
		pool.Close()
		featurePool.Close()
		_ = s.Close()
	}
}

func TestService_Predict_Success(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	resp, err := svc.predict(context.Background(), &PredictRequest{
		ModelName: "titanic_model",
		Input:     `{"age": [1.0, 2.0]}`,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"predictions": [[2]]}`, resp.Output)
}

func TestService_Predict_UnknownModel(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	_, err := svc.predict(context.Background(), &PredictRequest{ModelName: "missing", Input: "{}"})
	assert.Error(t, err)
}

func TestService_GetModels(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	resp, err := svc.getModels(context.Background(), &GetModelsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "titanic_model", resp.Models[0].Name)
}

func TestService_DeleteModel(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	_, err := svc.deleteModel(context.Background(), &DeleteModelRequest{ModelName: "titanic_model"})
	require.NoError(t, err)

	resp, err := svc.getModels(context.Background(), &GetModelsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)
}

func TestService_HealthCheck(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	_, err := svc.healthCheck(context.Background(), &HealthCheckRequest{})
	assert.NoError(t, err)
}
