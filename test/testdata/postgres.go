//go:build integration

package testdata

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	postgresImage = "postgres"
	postgresTag   = "16-alpine"
	postgresUser  = "feedback"
	postgresDB    = "feedback"
)

// SetupPostgres starts a disposable PostgreSQL container, applies the
// migrations and returns a pool connected to it. The container is purged when
// the test finishes.
func SetupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "connect to docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: postgresImage,
		Tag:        postgresTag,
		Env: []string{
			"POSTGRES_USER=" + postgresUser,
			"POSTGRES_PASSWORD=" + postgresUser,
			"POSTGRES_DB=" + postgresDB,
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "run postgres container")
	t.Cleanup(func() { _ = pool.Purge(resource) })

	databaseURL := fmt.Sprintf("postgres://%s:%s@localhost:%s/%s?sslmode=disable",
		postgresUser, postgresUser, resource.GetPort("5432/tcp"), postgresDB)

	var db *pgxpool.Pool
	err = pool.Retry(func() error {
		var err error
		db, err = pgxpool.New(context.Background(), databaseURL)
		if err != nil {
			return err
		}
		return db.Ping(context.Background())
	})
	require.NoError(t, err, "connect to postgres")
	t.Cleanup(db.Close)

	err = databaseutil.MigrationUp(migrationSource(), databaseURL, zap.NewNop())
	require.NoError(t, err, "run migrations")

	return db
}

func migrationSource() string {
	_, file, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(file), "..", "..", "internal", "database", "migrations")
	return "file://" + filepath.ToSlash(dir)
}
