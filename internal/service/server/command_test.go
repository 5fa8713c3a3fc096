package server

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/pomodoro/internal/config"
	"github.com/oshokin/pomodoro/internal/engine"
	"github.com/oshokin/pomodoro/internal/service/common"
)

// TestResolveListenAddress covers override, config and invalid inputs.
func TestResolveListenAddress(t *testing.T) {
	t.Parallel()

	addr, err := resolveListenAddress("127.0.0.1:50515", ":9090")
	require.NoError(t, err)
	require.Equal(t, ":9090", addr)

	addr, err = resolveListenAddress("127.0.0.1:50515", "")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:50515", addr)

	_, err = resolveListenAddress("", "")
	require.ErrorIs(t, err, ErrNoServerAddress)

	_, err = resolveListenAddress("no-port", "")
	require.Error(t, err)
}

// TestRun_Roundtrip starts the real server on a free port and drives it with the client.
func TestRun_Roundtrip(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")

	settings := config.Default()
	settings.ServerAddress = "127.0.0.1:0"
	settings.WorkMinutes = 1
	settings.TickInterval = time.Hour
	require.NoError(t, config.Save(cfgPath, settings))

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan net.Addr, 1)
	stopped := make(chan error, 1)

	go func() {
		stopped <- Run(ctx, &Options{
			ConfigPath:    cfgPath,
			AllowMultiple: true,
			Ready:         ready,
		})
	}()

	var addr net.Addr
	select {
	case addr = <-ready:
	case err := <-stopped:
		t.Fatalf("server stopped early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	c, err := common.Dial(ctx, addr.String(), common.WithCallTimeout(3*time.Second), common.WithActor("test@host"))
	require.NoError(t, err)

	defer func() {
		_ = c.Close()
	}()

	snapshot, err := c.GetState(ctx)
	require.NoError(t, err)
	require.Equal(t, 60, snapshot.State.RemainingSeconds)
	require.Equal(t, 30*time.Minute, snapshot.Config.LongBreak)

	snapshot, err = c.Start(ctx)
	require.NoError(t, err)
	require.True(t, snapshot.State.Running)

	cancel()

	select {
	case err = <-stopped:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

// TestRun_BadConfig surfaces settings errors before listening.
func TestRun_BadConfig(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")
	settings := config.Default()
	settings.ServerAddress = "127.0.0.1:0"
	require.NoError(t, config.Save(cfgPath, settings))

	err := Run(context.Background(), &Options{ConfigPath: cfgPath, ListenAddress: "127.0.0.1:-1", AllowMultiple: true})
	require.Error(t, err)
}

// TestLogEvents ensures the listener accepts both event kinds.
func TestLogEvents(t *testing.T) {
	t.Parallel()

	listen := logEvents(context.Background())
	listen(engine.Event{Kind: engine.KindDisplay})
	listen(engine.Event{Kind: engine.KindNotification})
}
