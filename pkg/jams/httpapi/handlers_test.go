package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jams-project/jams/pkg/jams/features"
	"github.com/jams-project/jams/pkg/jams/manager"
	"github.com/jams-project/jams/pkg/jams/model"
	"github.com/jams-project/jams/pkg/jams/store"
	"github.com/jams-project/jams/pkg/jams/workerpool"
	"github.com/jams-project/jams/pkg/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type emptyBackend struct{}

func (emptyBackend) IsEmpty(context.Context, string) (bool, error)          { return true, nil }
func (emptyBackend) ListArtefacts(context.Context, string) ([]string, error) { return nil, nil }
func (emptyBackend) Download(context.Context, string, string, io.Writer) error {
	return nil
}

type nopLogger struct{ logging.Interface }

func (nopLogger) WithField(string, interface{}) logging.Interface { return nopLogger{} }
func (nopLogger) WithError(error) logging.Interface                { return nopLogger{} }
func (nopLogger) Warn(string)                                      {}
func (nopLogger) Info(string)                                       {}
func (nopLogger) Debug(string)                                      {}
func (nopLogger) Error(string)                                      {}

type echoPredictor struct{ fw model.Framework }

func (p echoPredictor) Framework() model.Framework { return p.fw }
func (p echoPredictor) Close() error               { return nil }
func (p echoPredictor) Predict(input *features.Features) (model.Output, error) {
	rows := input.FloatRows()
	out := make([][]float64, rows)
	for i := range out {
		out[i] = []float64{float64(input.FloatCols())}
	}
	return model.Output{model.PredictionsHead: out}, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	s, err := store.New(context.Background(), t.TempDir(), emptyBackend{}, "", nopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	m := model.New(model.Metadata{
		Name:      "titanic_model",
		Framework: model.CatBoost,
	}, echoPredictor{fw: model.CatBoost})
	s.Registry.Insert("titanic_model", m)

	pool := workerpool.New(2)
	t.Cleanup(pool.Close)

	featurePool := features.NewPool(4, 2, 2)
	t.Cleanup(featurePool.Close)

	return NewRouter(manager.New(s, pool, featurePool), nopLogger{})
}

func TestRouter_Banner(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "jams"))
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_GetModels(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Total  int              `json:"total"`
		Models []model.Metadata `json:"models"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, "titanic_model", body.Models[0].Name)
}

func TestRouter_Predict_Success(t *testing.T) {
	router := newTestRouter(t)

	body := `{"model_name": "titanic_model", "input": "{\"age\": [1.0, 2.0]}"}`
	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Output string `json:"output"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.JSONEq(t, `{"predictions": [[2]]}`, resp.Output)
}

func TestRouter_Predict_UnknownModel(t *testing.T) {
	router := newTestRouter(t)

	body := `{"model_name": "missing_model", "input": "{}"}`
	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_DeleteModel_RequiresQueryParam(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/models", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_Metrics_ExposesPrometheusFormat(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequestIDHeader_EchoedOrGenerated(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}
