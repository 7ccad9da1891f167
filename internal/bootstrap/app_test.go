package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/moodmate/internal/infra/config"
)

type closeRecorder struct {
	closed chan struct{}
}

func (c *closeRecorder) Close() { close(c.closed) }

func TestAppRunClosesBackgroundOnShutdown(t *testing.T) {
	cfg := &config.Config{HTTP: config.HTTPConfig{Address: "127.0.0.1:0"}}
	server := &http.Server{Addr: cfg.HTTP.Address, Handler: http.NewServeMux()}
	background := &closeRecorder{closed: make(chan struct{})}
	app := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), server, background)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	select {
	case <-background.closed:
	default:
		t.Fatal("background workers were not closed")
	}
}
