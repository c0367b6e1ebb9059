package common

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresPort nat.Port = "5432/tcp"

var (
	postgresOnce      sync.Once
	postgresContainer *PostgresContainer
	postgresError     error
)

const (
	postgresUser     = "stockfolio"
	postgresPassword = "stockfolio"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	container testcontainers.Container
	host      string
	port      string
}

// StartPostgres starts a shared PostgreSQL container for the test run.
func StartPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	RequireDocker(t)

	postgresOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{string(postgresPort)},
			Env: map[string]string{
				"POSTGRES_USER":     postgresUser,
				"POSTGRES_PASSWORD": postgresPassword,
				"POSTGRES_DB":       "stockfolio",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort(postgresPort),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(60 * time.Second),
		}

		container, host, port, err := startContainer(context.Background(), req, postgresPort)
		if err != nil {
			postgresError = err
			return
		}
		postgresContainer = &PostgresContainer{container: container, host: host, port: port}
	})

	if postgresError != nil {
		t.Fatalf("PostgreSQL container failed: %v", postgresError)
	}

	return postgresContainer
}

func (c *PostgresContainer) dsn(database string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, c.host, c.port, database)
}

// NewDatabase creates a database unique to t and returns its DSN.
func (c *PostgresContainer) NewDatabase(t *testing.T) string {
	t.Helper()

	sanitized := strings.ToLower(strings.NewReplacer("/", "_", " ", "_", "-", "_").Replace(t.Name()))
	name := fmt.Sprintf("t_%s_%d", sanitized, time.Now().UnixNano()%100000)
	if len(name) > 63 {
		name = name[len(name)-63:]
	}

	admin, err := sql.Open("pgx", c.dsn("stockfolio"))
	if err != nil {
		t.Fatalf("open admin connection: %v", err)
	}
	defer admin.Close()

	if _, err := admin.ExecContext(context.Background(), `CREATE DATABASE "`+name+`"`); err != nil {
		t.Fatalf("create database %s: %v", name, err)
	}

	return c.dsn(name)
}

// Cleanup terminates the container.
func (c *PostgresContainer) Cleanup() {
	if c != nil && c.container != nil {
		c.container.Terminate(context.Background())
	}
}

// CleanupPostgres terminates the shared container if one was started.
func CleanupPostgres() {
	postgresContainer.Cleanup()
}
