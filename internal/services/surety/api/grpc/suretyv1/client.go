package suretyv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// SuretyServiceClient is the client API for SuretyService.
type SuretyServiceClient interface {
	ExecuteCommand(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetStatus(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetAirline(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetFlight(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetPolicy(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetReporter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetPassenger(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListEvents(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SubscribeEvents(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (EventStream, error)
}

// EventStream receives events from SubscribeEvents.
type EventStream interface {
	Recv() (*structpb.Struct, error)
	grpc.ClientStream
}

type suretyServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSuretyServiceClient creates a client over cc.
func NewSuretyServiceClient(cc grpc.ClientConnInterface) SuretyServiceClient {
	return &suretyServiceClient{cc: cc}
}

func (c *suretyServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *suretyServiceClient) ExecuteCommand(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodExecuteCommand, in, opts)
}

func (c *suretyServiceClient) GetStatus(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetStatus, in, opts)
}

func (c *suretyServiceClient) GetAirline(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetAirline, in, opts)
}

func (c *suretyServiceClient) GetFlight(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetFlight, in, opts)
}

func (c *suretyServiceClient) GetPolicy(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetPolicy, in, opts)
}

func (c *suretyServiceClient) GetReporter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetReporter, in, opts)
}

func (c *suretyServiceClient) GetPassenger(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetPassenger, in, opts)
}

func (c *suretyServiceClient) ListEvents(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodListEvents, in, opts)
}

func (c *suretyServiceClient) SubscribeEvents(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (EventStream, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], MethodSubscribeEvents, opts...)
	if err != nil {
		return nil, err
	}
	x := &eventStream{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type eventStream struct {
	grpc.ClientStream
}

func (x *eventStream) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
