package timer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/pomodoro/internal/domain/pomodoro"
	"github.com/oshokin/pomodoro/internal/engine"
	"github.com/oshokin/pomodoro/internal/logger"
)

// DefaultWatchBuffer is how many events a slow watcher may lag behind before events are dropped.
const DefaultWatchBuffer = 64

// Engine abstracts the countdown operations the transport layer depends on.
type Engine interface {
	Start() error
	Stop() error
	Reset(cfg *pomodoro.Config) error
	Snapshot() pomodoro.State
	Config() pomodoro.Config
	Subscribe(l engine.Listener) (cancel func())
}

// Server implements the TimerService gRPC API.
type Server struct {
	// engine provides the timer state and commands.
	engine Engine
	// watchBuffer is the per-watcher event queue length.
	watchBuffer int
}

// NewServer wires the provided engine into a gRPC handler.
func NewServer(e Engine) *Server {
	return &Server{
		engine:      e,
		watchBuffer: DefaultWatchBuffer,
	}
}

// Start begins the countdown and returns the resulting state.
func (s *Server) Start(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if err := s.engine.Start(); err != nil {
		return nil, toStatus(ctx, err)
	}

	return s.snapshot(), nil
}

// Stop halts the countdown and returns the resulting state.
func (s *Server) Stop(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if err := s.engine.Stop(); err != nil {
		return nil, toStatus(ctx, err)
	}

	return s.snapshot(), nil
}

// Reset applies the optional durations and reinitializes the timer.
func (s *Server) Reset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	cfg, err := ConfigFromResetRequest(req)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	if err = s.engine.Reset(cfg); err != nil {
		return nil, toStatus(ctx, err)
	}

	return s.snapshot(), nil
}

// GetState returns the current state and configuration.
func (s *Server) GetState(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return s.snapshot(), nil
}

// Watch streams the current state followed by every engine event until the client leaves.
// Events that do not fit into a lagging watcher's buffer are dropped.
func (s *Server) Watch(_ *emptypb.Empty, stream WatchServer) error {
	ctx := logger.WithKV(stream.Context(), "watcher_id", uuid.NewString())
	events := make(chan engine.Event, s.watchBuffer)

	cancel := s.engine.Subscribe(func(ev engine.Event) {
		select {
		case events <- ev:
		default:
			logger.WarnKV(ctx, "Watcher lagging, event dropped", "event_id", ev.ID, "kind", ev.Kind)
		}
	})
	defer cancel()

	logger.Info(ctx, "Watcher connected")
	defer logger.Info(ctx, "Watcher disconnected")

	initial := engine.Event{
		ID:    uuid.New(),
		Kind:  engine.KindDisplay,
		State: s.engine.Snapshot(),
		At:    time.Now(),
	}
	if err := stream.Send(EventToStruct(initial)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if err := stream.Send(EventToStruct(ev)); err != nil {
				return err
			}
		}
	}
}

func (s *Server) snapshot() *structpb.Struct {
	return SnapshotToStruct(Snapshot{
		State:  s.engine.Snapshot(),
		Config: s.engine.Config(),
	})
}

// toStatus maps domain and engine errors to gRPC status errors.
func toStatus(ctx context.Context, err error) error {
	var validationErr *pomodoro.ValidationError

	switch {
	case errors.As(err, &validationErr):
		return status.Error(codes.InvalidArgument, validationErr.Error())
	case errors.Is(err, engine.ErrClosed):
		return status.Error(codes.Unavailable, "timer is shutting down")
	default:
		logger.ErrorKV(ctx, "Timer command failed", "error", err)

		return status.Error(codes.Internal, "timer command failed")
	}
}
