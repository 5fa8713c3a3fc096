//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	api "github.com/oshokin/pomodoro/internal/api/grpc/timer"
	"github.com/oshokin/pomodoro/internal/config"
	"github.com/oshokin/pomodoro/internal/engine"
)

// Client wraps the TimerService gRPC client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the timer server.
	conn *grpc.ClientConn
	// api is the TimerService client.
	api *api.TimerServiceClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// actor is sent with every call for the server's command log.
	actor string
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for unary calls. Watch streams are not bounded by it.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor attaches actor to every call.
func WithActor(actor string) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial creates a client for the timer server at address.
// The transport is insecure; the server is meant for localhost or a trusted network.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial timer server: %w", err)
	}

	return newClient(conn, opts...), nil
}

func newClient(conn *grpc.ClientConn, opts ...Option) *Client {
	client := &Client{
		conn:        conn,
		api:         api.NewTimerServiceClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Start starts the remote timer.
func (c *Client) Start(ctx context.Context) (api.Snapshot, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.Start(callCtx, new(emptypb.Empty))
	if err != nil {
		return api.Snapshot{}, fmt.Errorf("start timer: %w", err)
	}

	return api.SnapshotFromStruct(resp)
}

// Stop stops the remote timer.
func (c *Client) Stop(ctx context.Context) (api.Snapshot, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.Stop(callCtx, new(emptypb.Empty))
	if err != nil {
		return api.Snapshot{}, fmt.Errorf("stop timer: %w", err)
	}

	return api.SnapshotFromStruct(resp)
}

// Reset resets the remote timer. Pass no minutes to keep the durations,
// or work, short break and long break minutes to replace them.
func (c *Client) Reset(ctx context.Context, minutes ...string) (api.Snapshot, error) {
	req, err := api.ResetRequest(minutes...)
	if err != nil {
		return api.Snapshot{}, err
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.Reset(callCtx, req)
	if err != nil {
		return api.Snapshot{}, fmt.Errorf("reset timer: %w", err)
	}

	return api.SnapshotFromStruct(resp)
}

// GetState retrieves the remote timer state.
func (c *Client) GetState(ctx context.Context) (api.Snapshot, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetState(callCtx, new(emptypb.Empty))
	if err != nil {
		return api.Snapshot{}, fmt.Errorf("get timer state: %w", err)
	}

	return api.SnapshotFromStruct(resp)
}

// Watch calls handle for every event the server streams until ctx ends,
// the server closes the stream or handle returns an error.
func (c *Client) Watch(ctx context.Context, handle func(engine.Event) error) error {
	streamCtx, cancel := context.WithCancel(c.withActor(ctx))
	defer cancel()

	stream, err := c.api.Watch(streamCtx, new(emptypb.Empty))
	if err != nil {
		return fmt.Errorf("watch timer: %w", err)
	}

	for {
		msg, err := stream.Recv()

		switch {
		case errors.Is(err, io.EOF):
			return nil
		case status.Code(err) == codes.Canceled && ctx.Err() != nil:
			return nil
		case err != nil:
			return fmt.Errorf("receive event: %w", err)
		}

		ev, err := api.EventFromStruct(msg)
		if err != nil {
			return fmt.Errorf("decode event: %w", err)
		}

		if err = handle(ev); err != nil {
			return err
		}
	}
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = c.withActor(ctx)

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}

func (c *Client) withActor(ctx context.Context) context.Context {
	if c.actor == "" {
		return ctx
	}

	return metadata.AppendToOutgoingContext(ctx, ActorMetadataKey, c.actor)
}
