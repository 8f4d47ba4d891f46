package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soumetsu/soumetsu/internal/hcaptcha"
	"github.com/soumetsu/soumetsu/internal/storage"
	"github.com/soumetsu/soumetsu/pkg/config"
	"github.com/soumetsu/soumetsu/pkg/sessions"
	"github.com/soumetsu/soumetsu/pkg/store"
)

func TestServerStartStop(t *testing.T) {
	s, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	sess, err := sessions.Open(sessions.Config{TTL: time.Hour})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	backend, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		// Port 0 asks the kernel for a free port, keeping the test
		// parallel-safe.
		HTTP: config.HTTPConfig{Host: "127.0.0.1", Port: 0},
	}
	srv := NewServer(cfg, Deps{
		Store:    s,
		Sessions: sess,
		Storage:  backend,
		Captcha:  hcaptcha.New(hcaptcha.Config{}),
	})
	assert.Equal(t, "127.0.0.1:0", srv.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	// Stop is idempotent.
	assert.NoError(t, srv.Stop(context.Background()))
}
