// Package panelrpc serves module pages over gRPC.
//
// Messages are google.protobuf.Struct values carrying the JSON form of presenter records, so
// the service needs no generated stubs.
package panelrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "bindery.panel.v1.ModulePanel"

	ListModulesMethod = "/" + ServiceName + "/ListModules"
	GetModuleMethod   = "/" + ServiceName + "/GetModule"
)

// ModulePanelServer is the server API for the ModulePanel service.
type ModulePanelServer interface {
	ListModules(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetModule(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the ModulePanel service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ModulePanelServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListModules", Handler: listModulesHandler},
		{MethodName: "GetModule", Handler: getModuleHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bindery/panel/v1/panel.proto",
}

func listModulesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ModulePanelServer).ListModules(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ListModulesMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ModulePanelServer).ListModules(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getModuleHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ModulePanelServer).GetModule(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetModuleMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ModulePanelServer).GetModule(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
