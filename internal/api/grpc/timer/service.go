package timer

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "pomodoro.v1.TimerService"

	// StartMethod is the full method name of Start.
	StartMethod = "/" + ServiceName + "/Start"
	// StopMethod is the full method name of Stop.
	StopMethod = "/" + ServiceName + "/Stop"
	// ResetMethod is the full method name of Reset.
	ResetMethod = "/" + ServiceName + "/Reset"
	// GetStateMethod is the full method name of GetState.
	GetStateMethod = "/" + ServiceName + "/GetState"
	// WatchMethod is the full method name of Watch.
	WatchMethod = "/" + ServiceName + "/Watch"
)

// TimerServiceServer is the server API of pomodoro.v1.TimerService.
type TimerServiceServer interface {
	Start(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	Stop(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	Reset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetState(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	Watch(req *emptypb.Empty, stream WatchServer) error
}

// WatchServer is the server side of the Watch stream.
type WatchServer interface {
	Send(event *structpb.Struct) error
	grpc.ServerStream
}

// WatchClient is the client side of the Watch stream.
type WatchClient interface {
	Recv() (*structpb.Struct, error)
	grpc.ClientStream
}

// ServiceDesc describes pomodoro.v1.TimerService for grpc.Server.RegisterService.
//
//nolint:gochecknoglobals // Service descriptors are package-level by gRPC convention.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TimerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Start",
			Handler:    unaryHandler(StartMethod, TimerServiceServer.Start),
		},
		{
			MethodName: "Stop",
			Handler:    unaryHandler(StopMethod, TimerServiceServer.Stop),
		},
		{
			MethodName: "Reset",
			Handler:    unaryHandler(ResetMethod, TimerServiceServer.Reset),
		},
		{
			MethodName: "GetState",
			Handler:    unaryHandler(GetStateMethod, TimerServiceServer.GetState),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			Handler:       watchHandler,
			ServerStreams: true,
		},
	},
	Metadata: "pomodoro/v1/timer.proto",
}

// RegisterTimerServiceServer registers srv with the gRPC server.
func RegisterTimerServiceServer(registrar grpc.ServiceRegistrar, srv TimerServiceServer) {
	registrar.RegisterService(&ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to grpc.MethodHandler, honoring interceptors.
func unaryHandler[Req any, PReq interface {
	*Req
	proto.Message
}](
	fullMethod string,
	call func(TimerServiceServer, context.Context, PReq) (*structpb.Struct, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}

		server, _ := srv.(TimerServiceServer)

		if interceptor == nil {
			return call(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed, _ := req.(PReq)

			return call(server, ctx, typed)
		}

		return interceptor(ctx, in, info, handler)
	}
}

// watchHandler reads the single Watch request and hands the stream to the server.
func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}

	server, _ := srv.(TimerServiceServer)

	return server.Watch(in, &watchServer{stream})
}

type watchServer struct {
	grpc.ServerStream
}

// Send writes one event to the stream.
func (s *watchServer) Send(event *structpb.Struct) error {
	return s.SendMsg(event)
}

// TimerServiceClient calls pomodoro.v1.TimerService.
type TimerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewTimerServiceClient returns a client bound to cc.
func NewTimerServiceClient(cc grpc.ClientConnInterface) *TimerServiceClient {
	return &TimerServiceClient{cc: cc}
}

// Start calls TimerService.Start.
func (c *TimerServiceClient) Start(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, StartMethod, in, opts...)
}

// Stop calls TimerService.Stop.
func (c *TimerServiceClient) Stop(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, StopMethod, in, opts...)
}

// Reset calls TimerService.Reset.
func (c *TimerServiceClient) Reset(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ResetMethod, in, opts...)
}

// GetState calls TimerService.GetState.
func (c *TimerServiceClient) GetState(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetStateMethod, in, opts...)
}

// Watch opens the TimerService.Watch stream.
func (c *TimerServiceClient) Watch(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (WatchClient, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], WatchMethod, opts...)
	if err != nil {
		return nil, err
	}

	client := &watchClient{stream}

	if err = client.SendMsg(in); err != nil {
		return nil, err
	}

	if err = client.CloseSend(); err != nil {
		return nil, err
	}

	return client, nil
}

func (c *TimerServiceClient) invoke(ctx context.Context, method string, in proto.Message, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

type watchClient struct {
	grpc.ClientStream
}

// Recv reads the next event from the stream.
func (c *watchClient) Recv() (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.RecvMsg(out); err != nil {
		return nil, err
	}

	return out, nil
}
