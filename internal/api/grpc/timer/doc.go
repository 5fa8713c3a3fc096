// Package timer implements the gRPC transport for the countdown engine.
//
// The service pomodoro.v1.TimerService is described by a hand-written
// grpc.ServiceDesc whose messages are protobuf well-known types: requests are
// emptypb.Empty or structpb.Struct, and every response or streamed event is a
// structpb.Struct built by the codec helpers in this package.
package timer
