package suretyv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "flightsurety.v1.SuretyService"

// Full method names.
const (
	MethodExecuteCommand  = "/" + ServiceName + "/ExecuteCommand"
	MethodGetStatus       = "/" + ServiceName + "/GetStatus"
	MethodGetAirline      = "/" + ServiceName + "/GetAirline"
	MethodGetFlight       = "/" + ServiceName + "/GetFlight"
	MethodGetPolicy       = "/" + ServiceName + "/GetPolicy"
	MethodGetReporter     = "/" + ServiceName + "/GetReporter"
	MethodGetPassenger    = "/" + ServiceName + "/GetPassenger"
	MethodListEvents      = "/" + ServiceName + "/ListEvents"
	MethodSubscribeEvents = "/" + ServiceName + "/SubscribeEvents"
)

// SuretyServiceServer is the server API for SuretyService.
type SuretyServiceServer interface {
	ExecuteCommand(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAirline(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetFlight(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPolicy(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetReporter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPassenger(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListEvents(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubscribeEvents(*structpb.Struct, grpc.ServerStream) error
}

type unaryMethod func(SuretyServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SuretyServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SuretyServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func subscribeEventsHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(SuretyServiceServer).SubscribeEvents(in, stream)
}

// ServiceDesc is the grpc.ServiceDesc for SuretyService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SuretyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ExecuteCommand", Handler: unaryHandler(MethodExecuteCommand, SuretyServiceServer.ExecuteCommand)},
		{MethodName: "GetStatus", Handler: unaryHandler(MethodGetStatus, SuretyServiceServer.GetStatus)},
		{MethodName: "GetAirline", Handler: unaryHandler(MethodGetAirline, SuretyServiceServer.GetAirline)},
		{MethodName: "GetFlight", Handler: unaryHandler(MethodGetFlight, SuretyServiceServer.GetFlight)},
		{MethodName: "GetPolicy", Handler: unaryHandler(MethodGetPolicy, SuretyServiceServer.GetPolicy)},
		{MethodName: "GetReporter", Handler: unaryHandler(MethodGetReporter, SuretyServiceServer.GetReporter)},
		{MethodName: "GetPassenger", Handler: unaryHandler(MethodGetPassenger, SuretyServiceServer.GetPassenger)},
		{MethodName: "ListEvents", Handler: unaryHandler(MethodListEvents, SuretyServiceServer.ListEvents)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "SubscribeEvents", Handler: subscribeEventsHandler, ServerStreams: true},
	},
	Metadata: "flightsurety/v1/surety.proto",
}

// RegisterSuretyServiceServer registers srv on s.
func RegisterSuretyServiceServer(s grpc.ServiceRegistrar, srv SuretyServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
