// Package jamsclient is a thin HTTP client over the jams-serve JSON API, used
// by the jams admin CLI.
package jamsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jams-project/jams/pkg/jams/model"
)

// Client talks to a running jams-serve instance's HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client against baseURL (e.g. "http://localhost:3000").
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type modelsResponse struct {
	Total  int              `json:"total"`
	Models []model.Metadata `json:"models"`
}

// ListModels returns the registry's current contents.
func (c *Client) ListModels(ctx context.Context) ([]model.Metadata, error) {
	var out modelsResponse
	if err := c.do(ctx, http.MethodGet, "/api/models", nil, &out); err != nil {
		return nil, err
	}
	return out.Models, nil
}

type modelNameRequest struct {
	ModelName string `json:"model_name"`
}

// AddModel fetches and loads a new model by name.
func (c *Client) AddModel(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "/api/models", modelNameRequest{ModelName: name}, nil)
}

// UpdateModel re-fetches and reloads an existing model.
func (c *Client) UpdateModel(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPut, "/api/models", modelNameRequest{ModelName: name}, nil)
}

// DeleteModel removes a model from the registry.
func (c *Client) DeleteModel(ctx context.Context, name string) error {
	path := "/api/models?model_name=" + name
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

type predictRequest struct {
	ModelName string `json:"model_name"`
	Input     string `json:"input"`
}

type predictResponse struct {
	Output string `json:"output"`
}

// Predict sends a feature payload to a loaded model and returns its raw
// prediction JSON.
func (c *Client) Predict(ctx context.Context, name string, inputJSON []byte) ([]byte, error) {
	var out predictResponse
	req := predictRequest{ModelName: name, Input: string(inputJSON)}
	if err := c.do(ctx, http.MethodPost, "/api/predict", req, &out); err != nil {
		return nil, err
	}
	return []byte(out.Output), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errBody struct {
			Error string `json:"error"`
		}
		if jsonErr := json.Unmarshal(payload, &errBody); jsonErr == nil && errBody.Error != "" {
			return fmt.Errorf("%s %s: %s (%d)", method, path, errBody.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
