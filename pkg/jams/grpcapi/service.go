package grpcapi

import (
	"context"

	"github.com/jams-project/jams/pkg/jams/manager"
)

// service binds every RPC method to the Manager facade, mirroring the HTTP
// handlers one-for-one.
type service struct {
	manager *manager.Manager
}

func (s *service) predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	output, err := s.manager.Predict(ctx, req.ModelName, []byte(req.Input))
	if err != nil {
		return nil, err
	}
	return &PredictResponse{Output: string(output)}, nil
}

func (s *service) addModel(ctx context.Context, req *AddModelRequest) (*AddModelResponse, error) {
	if err := s.manager.AddModel(ctx, req.ModelName); err != nil {
		return nil, err
	}
	return &AddModelResponse{}, nil
}

func (s *service) updateModel(ctx context.Context, req *UpdateModelRequest) (*UpdateModelResponse, error) {
	if err := s.manager.UpdateModel(ctx, req.ModelName); err != nil {
		return nil, err
	}
	return &UpdateModelResponse{}, nil
}

func (s *service) deleteModel(_ context.Context, req *DeleteModelRequest) (*DeleteModelResponse, error) {
	if err := s.manager.DeleteModel(req.ModelName); err != nil {
		return nil, err
	}
	return &DeleteModelResponse{}, nil
}

func (s *service) getModels(_ context.Context, _ *GetModelsRequest) (*GetModelsResponse, error) {
	models := s.manager.GetModels()
	return &GetModelsResponse{Total: len(models), Models: models}, nil
}

func (s *service) healthCheck(_ context.Context, _ *HealthCheckRequest) (*HealthCheckResponse, error) {
	return &HealthCheckResponse{}, nil
}
