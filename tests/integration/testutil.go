//go:build integration

package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lifeclover-platform/lifeclover/internal/config"
	"github.com/lifeclover-platform/lifeclover/internal/database"
	"github.com/lifeclover-platform/lifeclover/internal/events"
)

type TestEnv struct {
	Pool        *pgxpool.Pool
	RedisClient *redis.Client
}

var testEnv *TestEnv

// TestMain starts Postgres (pgvector) and Redis once for the whole
// package and tears them down after the run.
func TestMain(m *testing.M) {
	ctx := context.Background()

	env, cleanup, err := setupEnv(ctx)
	if err != nil {
		log.Fatalf("setting up integration environment: %v", err)
	}
	testEnv = env

	code := m.Run()
	cleanup()
	os.Exit(code)
}

func setupEnv(ctx context.Context) (*TestEnv, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "pgvector/pgvector:0.8.1-pg16",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "lifeclover_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, cleanup, fmt.Errorf("starting postgres container: %w", err)
	}
	cleanups = append(cleanups, func() { pgContainer.Terminate(ctx) })

	pgHost, err := pgContainer.Host(ctx)
	if err != nil {
		return nil, cleanup, err
	}
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		return nil, cleanup, err
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, cleanup, fmt.Errorf("starting redis container: %w", err)
	}
	cleanups = append(cleanups, func() { redisContainer.Terminate(ctx) })

	redisHost, err := redisContainer.Host(ctx)
	if err != nil {
		return nil, cleanup, err
	}
	redisPort, err := redisContainer.MappedPort(ctx, "6379")
	if err != nil {
		return nil, cleanup, err
	}

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/lifeclover_test?sslmode=disable", pgHost, pgPort.Port())
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, cleanup, fmt.Errorf("connecting to postgres: %w", err)
	}
	cleanups = append(cleanups, pool.Close)

	if err := database.RunMigrations(dsn, migrationsPath()); err != nil {
		return nil, cleanup, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", redisHost, redisPort.Port()),
	})
	cleanups = append(cleanups, func() { redisClient.Close() })

	return &TestEnv{Pool: pool, RedisClient: redisClient}, cleanup, nil
}

func migrationsPath() string {
	paths := []string{
		"../../migrations",
		"../../../migrations",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	log.Fatal("migrations directory not found")
	return ""
}

// setupNATS starts a JetStream-enabled NATS container for one test.
func setupNATS(t *testing.T) *events.Client {
	t.Helper()
	ctx := context.Background()

	natsContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "nats:2-alpine",
			ExposedPorts: []string{"4222/tcp"},
			Cmd:          []string{"--jetstream", "--store_dir", "/data"},
			WaitingFor:   wait.ForLog("Server is ready").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { natsContainer.Terminate(ctx) })

	host, _ := natsContainer.Host(ctx)
	port, _ := natsContainer.MappedPort(ctx, "4222")

	client, err := events.NewClient(ctx, config.NATSConfig{
		URL: fmt.Sprintf("nats://%s:%s", host, port.Port()),
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return client
}
