package grpcapi

import "github.com/jams-project/jams/pkg/jams/model"

type PredictRequest struct {
	ModelName string `json:"model_name"`
	Input     string `json:"input"`
}

type PredictResponse struct {
	Output string `json:"output"`
}

type AddModelRequest struct {
	ModelName string `json:"model_name"`
}

type AddModelResponse struct{}

type UpdateModelRequest struct {
	ModelName string `json:"model_name"`
}

type UpdateModelResponse struct{}

type DeleteModelRequest struct {
	ModelName string `json:"model_name"`
}

type DeleteModelResponse struct{}

type GetModelsRequest struct{}

type GetModelsResponse struct {
	Total  int              `json:"total"`
	Models []model.Metadata `json:"models"`
}

type HealthCheckRequest struct{}

type HealthCheckResponse struct{}
