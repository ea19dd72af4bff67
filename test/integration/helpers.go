// Package integration contains tests that exercise the service against
// real PostgreSQL and Redis instances started as throwaway containers.
// They are skipped under -short and need a reachable Docker daemon.
package integration

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/ChemNomen/internal/config"
	"github.com/turtacn/ChemNomen/internal/infrastructure/database/postgres"
)

const (
	testDBUser     = "chemnomen"
	testDBPassword = "chemnomen"
	testDBName     = "chemnomen_test"
)

// skipUnlessIntegration skips the test under -short.
func skipUnlessIntegration(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

// startPostgres launches a disposable PostgreSQL container, applies the
// schema migrations, and returns a ready-to-use database config.  The
// container is removed when the test finishes.
func startPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testDBUser,
				"POSTGRES_PASSWORD": testDBPassword,
				"POSTGRES_DB":       testDBName,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	host, port := endpointHostPort(t, container)
	cfg := config.DatabaseConfig{
		Host:          host,
		Port:          port,
		User:          testDBUser,
		Password:      testDBPassword,
		DBName:        testDBName,
		SSLMode:       "disable",
		MaxConns:      4,
		MigrationPath: "../../migrations",
	}

	if err := postgres.RunMigrations(cfg); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return cfg
}

// startRedis launches a disposable Redis container and returns its config.
func startRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	host, port := endpointHostPort(t, container)
	return config.RedisConfig{
		Addr: net.JoinHostPort(host, strconv.Itoa(port)),
	}
}

// endpointHostPort resolves the mapped address of the container's single
// exposed port.
func endpointHostPort(t *testing.T, container testcontainers.Container) (string, int) {
	t.Helper()
	endpoint, err := container.Endpoint(context.Background(), "")
	if err != nil {
		t.Fatalf("failed to resolve container endpoint: %v", err)
	}
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		t.Fatalf("unexpected endpoint %q: %v", endpoint, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("unexpected port %q: %v", portStr, err)
	}
	return host, port
}
