// Command healthprobe checks the studio's gRPC health endpoint and exits
// non-zero unless it reports SERVING. It is meant for container health checks.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"videothingy/narrator/config"
	"videothingy/narrator/internal/healthcheck"
)

func main() {
	addr := flag.String("addr", "", "health server address (defaults to server.grpc_addr from config)")
	configPath := flag.String("config", os.Getenv("NARRATOR_CONFIG"), "path to the YAML config file")
	timeout := flag.Duration("timeout", 3*time.Second, "probe timeout")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stderr)

	target := *addr
	if target == "" {
		config.LoadDotEnv()
		cfg, err := config.Load(*configPath)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load configuration")
		}
		target = cfg.Server.GRPCAddr
	}

	client, err := healthcheck.NewClient(target, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create health client")
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	serving, err := client.Serving(ctx, healthcheck.ServiceName)
	if err != nil || !serving {
		logger.WithField("addr", target).Error("Studio is not serving")
		os.Exit(1)
	}
	logger.WithField("addr", target).Info("Studio is serving")
}
