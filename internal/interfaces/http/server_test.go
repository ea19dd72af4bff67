package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemNomen/internal/config"
	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/logging"
)

func TestNewServer_Defaults(t *testing.T) {
	s := NewServer(config.ServerConfig{Port: 8080}, http.NewServeMux(), logging.NewNopLogger())

	assert.Equal(t, ":8080", s.srv.Addr)
	assert.Equal(t, 15*time.Second, s.srv.ReadTimeout)
	assert.Equal(t, 15*time.Second, s.srv.WriteTimeout)
	assert.Equal(t, 30*time.Second, s.shutdownTimeout)
	assert.NotNil(t, s.Handler())
}

func TestNewServer_ConfiguredTimeouts(t *testing.T) {
	s := NewServer(config.ServerConfig{
		Port:            9090,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: time.Second,
	}, http.NewServeMux(), logging.NewNopLogger())

	assert.Equal(t, 5*time.Second, s.srv.ReadTimeout)
	assert.Equal(t, 10*time.Second, s.srv.WriteTimeout)
	assert.Equal(t, time.Second, s.shutdownTimeout)
}

func TestServer_StartStop(t *testing.T) {
	s := NewServer(config.ServerConfig{Port: 0}, http.NewServeMux(), logging.NewNopLogger())

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	// Give the listener a moment to bind before shutting down.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
