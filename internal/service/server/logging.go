package server

import (
	"context"

	"google.golang.org/grpc"

	"github.com/oshokin/pomodoro/internal/engine"
	"github.com/oshokin/pomodoro/internal/logger"
	"github.com/oshokin/pomodoro/internal/service/common"
)

// logEvents returns an engine listener that records notifications at info and ticks at debug.
func logEvents(ctx context.Context) engine.Listener {
	return func(ev engine.Event) {
		if ev.Kind == engine.KindNotification {
			logger.InfoKV(ctx, ev.Notification.Message(),
				"cycle", ev.State.CycleIndicator(),
				"completed", ev.State.CompletedWorkIntervals,
			)

			return
		}

		logger.DebugKV(ctx, "Tick", "phase", ev.State.Phase, "remaining", ev.State.Clock(), "running", ev.State.Running)
	}
}

// logCommands logs every unary call with the actor that issued it.
func logCommands(ctx context.Context) grpc.UnaryServerInterceptor {
	return func(callCtx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(callCtx, req)

		kvs := []any{"method", info.FullMethod, "actor", common.ActorFromContext(callCtx)}
		if err != nil {
			logger.WarnKV(ctx, "Command failed", append(kvs, "error", err)...)

			return resp, err
		}

		logger.InfoKV(ctx, "Command handled", kvs...)

		return resp, nil
	}
}

// logStreams puts the server logger into stream contexts and records the actor.
func logStreams(ctx context.Context) grpc.StreamServerInterceptor {
	return func(srv any, stream grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		streamCtx := logger.ToContext(stream.Context(), logger.FromContext(ctx).With(
			"method", info.FullMethod,
			"actor", common.ActorFromContext(stream.Context()),
		))

		return handler(srv, &loggedStream{ServerStream: stream, ctx: streamCtx})
	}
}

type loggedStream struct {
	grpc.ServerStream

	ctx context.Context
}

// Context returns the stream context carrying the scoped logger.
func (s *loggedStream) Context() context.Context {
	return s.ctx
}
