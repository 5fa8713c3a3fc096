package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"

	api "github.com/oshokin/pomodoro/internal/api/grpc/timer"
	"github.com/oshokin/pomodoro/internal/config"
	"github.com/oshokin/pomodoro/internal/engine"
	"github.com/oshokin/pomodoro/internal/logger"
	"github.com/oshokin/pomodoro/internal/service/instance"
)

// Options controls the pomodoro-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// AllowMultiple skips the single-instance check.
	AllowMultiple bool
	// Ready, when set, receives the bound address once the server accepts connections.
	Ready chan<- net.Addr
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the gRPC server and blocks until context is canceled or server stops.
//
//nolint:funlen // Startup is a linear sequence of steps.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "pomodoro-server")

	settings, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	if !opts.AllowMultiple {
		if err = instance.EnsureSingle(); err != nil {
			return err
		}
	}

	timerConfig, err := settings.Timer()
	if err != nil {
		return fmt.Errorf("timer settings: %w", err)
	}

	eng, err := engine.New(ctx, timerConfig, engine.WithTickInterval(settings.TickInterval))
	if err != nil {
		return fmt.Errorf("initialise engine: %w", err)
	}

	defer eng.Close()

	eng.Subscribe(logEvents(ctx))

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(logCommands(ctx)),
		grpc.ChainStreamInterceptor(logStreams(ctx)),
	)
	api.RegisterTimerServiceServer(grpcServer, api.NewServer(eng))

	logger.InfoKV(ctx, "Timer server listening",
		"listen_address", lis.Addr().String(),
		"work", timerConfig.Work,
		"short_break", timerConfig.ShortBreak,
		"long_break", timerConfig.LongBreak,
		"tick_interval", settings.TickInterval,
	)

	if opts.Ready != nil {
		opts.Ready <- lis.Addr()
	}

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")

		// GracefulStop would wait for Watch streams, which end only when clients leave.
		grpcServer.Stop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise binds the configured address as is.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	if _, _, err := net.SplitHostPort(configAddr); err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	return configAddr, nil
}
