package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jams-project/jams/pkg/jams/manager"
	"github.com/jams-project/jams/pkg/jamserrors"
	"github.com/jams-project/jams/pkg/version"
)

// Handlers implements the JSON HTTP surface over a Manager.
type Handlers struct {
	manager *manager.Manager
}

func NewHandlers(m *manager.Manager) *Handlers {
	return &Handlers{manager: m}
}

func (h *Handlers) Banner(c *gin.Context) {
	c.String(http.StatusOK, fmt.Sprintf("jams %s (%s)\n", version.GitVersion, version.GitCommit))
}

func (h *Handlers) HealthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h *Handlers) GetModels(c *gin.Context) {
	models := h.manager.GetModels()
	c.JSON(http.StatusOK, gin.H{"total": len(models), "models": models})
}

type addModelRequest struct {
	ModelName string `json:"model_name" binding:"required"`
}

func (h *Handlers) AddModel(c *gin.Context) {
	var req addModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, jamserrors.New(jamserrors.KindParse, "invalid request body: %v", err))
		return
	}

	if err := h.manager.AddModel(c.Request.Context(), req.ModelName); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

type updateModelRequest struct {
	ModelName string `json:"model_name" binding:"required"`
}

func (h *Handlers) UpdateModel(c *gin.Context) {
	var req updateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, jamserrors.New(jamserrors.KindParse, "invalid request body: %v", err))
		return
	}

	if err := h.manager.UpdateModel(c.Request.Context(), req.ModelName); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handlers) DeleteModel(c *gin.Context) {
	name := c.Query("model_name")
	if name == "" {
		writeError(c, jamserrors.New(jamserrors.KindParse, "model_name query parameter is required"))
		return
	}

	if err := h.manager.DeleteModel(name); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

type predictRequest struct {
	ModelName string `json:"model_name" binding:"required"`
	Input     string `json:"input" binding:"required"`
}

type predictResponse struct {
	Output string `json:"output"`
}

func (h *Handlers) Predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, jamserrors.New(jamserrors.KindParse, "invalid request body: %v", err))
		return
	}

	output, err := h.manager.Predict(c.Request.Context(), req.ModelName, []byte(req.Input))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, predictResponse{Output: string(output)})
}

// writeError maps a taxonomy error to the 500-class response the wire
// layer always returns on failure, without leaking internal detail beyond
// the error's own human-readable message.
func writeError(c *gin.Context, err error) {
	if l := loggerFrom(c); l != nil {
		l.WithError(err).Warn("request failed")
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
