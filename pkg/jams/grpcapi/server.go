// Package grpcapi implements the gRPC wire surface over the Manager facade,
// mirroring httpapi's routes with one RPC per HTTP endpoint.
package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/reflection"

	"github.com/jams-project/jams/pkg/jams/manager"
)

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: "jams.ModelService",
	HandlerType: (*interface{})(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Predict", Handler: predictHandler},
		{MethodName: "AddModel", Handler: addModelHandler},
		{MethodName: "UpdateModel", Handler: updateModelHandler},
		{MethodName: "DeleteModel", Handler: deleteModelHandler},
		{MethodName: "GetModels", Handler: getModelsHandler},
		{MethodName: "HealthCheck", Handler: healthCheckHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jams.proto",
}

// NewServer builds a *grpc.Server with the model service registered over m.
//
// Server reflection is registered for parity with a protoc-generated
// deployment, but since this service carries no compiled file descriptors
// (see codec.go), reflection clients cannot enumerate message fields the way
// they would against a real .proto-backed service.
func NewServer(m *manager.Manager) *grpc.Server {
	srv := grpc.NewServer()
	svc := &service{manager: m}
	srv.RegisterService(&serviceDesc, svc)
	reflection.Register(srv)
	return srv
}

func predictHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(PredictRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	s := srv.(*service)
	if interceptor == nil {
		return s.predict(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: s, FullMethod: "/jams.ModelService/Predict"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.predict(ctx, req.(*PredictRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func addModelHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(AddModelRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	s := srv.(*service)
	if interceptor == nil {
		return s.addModel(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: s, FullMethod: "/jams.ModelService/AddModel"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.addModel(ctx, req.(*AddModelRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func updateModelHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(UpdateModelRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	s := srv.(*service)
	if interceptor == nil {
		return s.updateModel(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: s, FullMethod: "/jams.ModelService/UpdateModel"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.updateModel(ctx, req.(*UpdateModelRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func deleteModelHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(DeleteModelRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	s := srv.(*service)
	if interceptor == nil {
		return s.deleteModel(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: s, FullMethod: "/jams.ModelService/DeleteModel"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.deleteModel(ctx, req.(*DeleteModelRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func getModelsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetModelsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	s := srv.(*service)
	if interceptor == nil {
		return s.getModels(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: s, FullMethod: "/jams.ModelService/GetModels"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.getModels(ctx, req.(*GetModelsRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func healthCheckHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(HealthCheckRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	s := srv.(*service)
	if interceptor == nil {
		return s.healthCheck(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: s, FullMethod: "/jams.ModelService/HealthCheck"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.healthCheck(ctx, req.(*HealthCheckRequest))
	}
	return interceptor(ctx, req, info, handler)
}
