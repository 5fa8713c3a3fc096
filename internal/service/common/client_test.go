//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	api "github.com/oshokin/pomodoro/internal/api/grpc/timer"
	"github.com/oshokin/pomodoro/internal/domain/pomodoro"
	"github.com/oshokin/pomodoro/internal/engine"
)

var errStopWatching = errors.New("stop watching")

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)

	var nilClient *Client
	require.NoError(t, nilClient.Close())
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestClient_ResetArguments rejects a partial set of durations before calling the server.
func TestClient_ResetArguments(t *testing.T) {
	t.Parallel()

	c := new(Client)

	_, err := c.Reset(context.Background(), "25", "5")
	require.Error(t, err)
}

// TestClient_Roundtrip drives a served engine through the client over an in-memory connection.
func TestClient_Roundtrip(t *testing.T) {
	t.Parallel()

	e, err := engine.New(context.Background(), pomodoro.Config{
		Work:       2 * time.Second,
		ShortBreak: time.Second,
		LongBreak:  3 * time.Second,
	}, engine.WithTickInterval(time.Hour))
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	api.RegisterTimerServiceServer(srv, api.NewServer(e))

	go func() {
		_ = srv.Serve(lis)
	}()

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	c := newClient(conn, WithCallTimeout(3*time.Second), WithActor("tester@bufnet"))

	defer func() {
		_ = c.Close()

		srv.Stop()
		e.Close()
	}()

	ctx := context.Background()

	snapshot, err := c.Start(ctx)
	require.NoError(t, err)
	require.True(t, snapshot.State.Running)

	snapshot, err = c.Reset(ctx, "1", "1", "1")
	require.NoError(t, err)
	require.Equal(t, 60, snapshot.State.RemainingSeconds)
	require.False(t, snapshot.State.Running)

	_, err = c.Reset(ctx, "0", "1", "1")
	require.Error(t, err)

	snapshot, err = c.GetState(ctx)
	require.NoError(t, err)
	require.Equal(t, time.Minute, snapshot.Config.Work)

	// Watch returns the handler's error after the initial event.
	var received []engine.Event

	err = c.Watch(ctx, func(ev engine.Event) error {
		received = append(received, ev)

		return errStopWatching
	})
	require.ErrorIs(t, err, errStopWatching)
	require.Len(t, received, 1)
	require.Equal(t, 60, received[0].State.RemainingSeconds)

	snapshot, err = c.Stop(ctx)
	require.NoError(t, err)
	require.False(t, snapshot.State.Running)
}
