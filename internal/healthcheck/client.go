package healthcheck

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Client wraps a gRPC connection to a health service.
type Client struct {
	grpcClient healthpb.HealthClient
	conn       *grpc.ClientConn // Store the connection to close it later
	logger     *logrus.Logger
}

// NewClient creates a client for the health service at serverAddr.
// The connection is established lazily on the first call.
func NewClient(serverAddr string, logger *logrus.Logger) (*Client, error) {
	conn, err := grpc.NewClient(serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create health client for %s: %w", serverAddr, err)
	}
	return &Client{grpcClient: healthpb.NewHealthClient(conn), conn: conn, logger: logger}, nil
}

// Close closes the gRPC connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Check returns the serving status of service ("" for the whole server).
func (c *Client) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := c.grpcClient.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		c.logger.WithError(err).WithField("service", service).Warn("Health check RPC failed")
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

// Serving reports whether service is SERVING.
func (c *Client) Serving(ctx context.Context, service string) (bool, error) {
	status, err := c.Check(ctx, service)
	if err != nil {
		return false, err
	}
	return status == healthpb.HealthCheckResponse_SERVING, nil
}
