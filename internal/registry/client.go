package registry

import (
	"context"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"

	"github.com/docker/docker/client"

	"github.com/mmr-tortoise/symbolserver-image/internal/model"
)

// pingTimeout bounds the daemon liveness check. Docker Desktop on macOS
// can take a few seconds to answer the first request after waking up.
const pingTimeout = 5 * time.Second

// Client wraps the Docker Engine SDK client. The wrapper exists to keep
// socket detection and daemon liveness checking in one place and to
// translate connection failures into the release tool's exit codes.
type Client struct {
	inner *client.Client
}

// NewClient creates a Docker client with automatic socket detection.
//
// Detection order:
//  1. DOCKER_HOST, when set, is used as-is.
//  2. Platform default sockets: /var/run/docker.sock on Linux; on macOS
//     additionally ~/.docker/run/docker.sock; the docker_engine named
//     pipe on Windows.
//
// Returns a CLIError with ExitDockerNotRunning when no socket is found
// or the SDK client cannot be constructed.
func NewClient() (*Client, error) {
	if host := os.Getenv("DOCKER_HOST"); host != "" {
		return newClientWithHost(host)
	}

	host, err := detectDockerHost()
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"Docker socket not found",
			err,
		)
	}
	return newClientWithHost(host)
}

// newClientWithHost builds the SDK client for a concrete daemon address.
// API version negotiation keeps the tool compatible with whatever
// daemon version the release machine runs.
func newClientWithHost(host string) (*Client, error) {
	c, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to create Docker client for host %q", host),
			err,
		)
	}
	return &Client{inner: c}, nil
}

// detectDockerHost probes the platform's known daemon endpoints and
// returns the first that exists. Existence is checked via the
// filesystem (or a short pipe dial on Windows); actual daemon liveness
// is verified separately by Ping.
func detectDockerHost() (string, error) {
	switch runtime.GOOS {
	case "linux":
		return detectUnixSocket([]string{
			"/var/run/docker.sock",
		})

	case "darwin":
		// Docker Desktop symlinks the standard path; newer versions may
		// only create the per-user socket.
		paths := []string{"/var/run/docker.sock"}
		if homeDir, err := os.UserHomeDir(); err == nil {
			paths = append(paths, homeDir+"/.docker/run/docker.sock")
		}
		return detectUnixSocket(paths)

	case "windows":
		// Named pipes don't answer os.Stat, so probe with a short dial.
		pipePath := `//./pipe/docker_engine`
		conn, err := net.DialTimeout("pipe", pipePath, 1*time.Second)
		if err != nil {
			return "", fmt.Errorf("Docker named pipe not found at %s: %w", pipePath, err)
		}
		conn.Close()
		return "npipe://" + pipePath, nil

	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// detectUnixSocket returns the Docker host URI for the first socket
// path that exists, checked in preference order.
func detectUnixSocket(paths []string) (string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf(
		"Docker socket not found at any of: %v — is Docker running?",
		paths,
	)
}

// Ping verifies the daemon is reachable and responsive, bounded by
// pingTimeout so a paused Docker Desktop doesn't hang the release run.
func (c *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(pingCtx); err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			"Docker daemon is not responding — is Docker running?",
			err,
		)
	}
	return nil
}

// Close releases the client's underlying HTTP connection. Safe to call
// more than once.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}

// Inner exposes the underlying SDK client for operations not wrapped
// here (image tagging uses it directly).
func (c *Client) Inner() *client.Client {
	return c.inner
}
