// Package common provides shared test infrastructure
package common

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
)

// DockerEnvVar enables container-backed tests when set to "true".
const DockerEnvVar = "STOCKFOLIO_TEST_DOCKER"

// RequireDocker skips t unless container tests are enabled.
func RequireDocker(t *testing.T) {
	t.Helper()
	if os.Getenv(DockerEnvVar) != "true" {
		t.Skipf("Docker tests disabled (set %s=true to enable)", DockerEnvVar)
	}
}

// startContainer starts req and resolves the host and mapped port for port.
func startContainer(ctx context.Context, req testcontainers.ContainerRequest, port nat.Port) (testcontainers.Container, string, string, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", "", fmt.Errorf("start %s container: %w", req.Image, err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx)
		return nil, "", "", fmt.Errorf("get %s host: %w", req.Image, err)
	}

	mappedPort, err := container.MappedPort(ctx, port)
	if err != nil {
		container.Terminate(ctx)
		return nil, "", "", fmt.Errorf("get %s port: %w", req.Image, err)
	}

	return container, host, mappedPort.Port(), nil
}
