package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kestrelhq/devchat-gateway/internal/devapi"
	"github.com/kestrelhq/devchat-gateway/pkg/backend"
	"github.com/kestrelhq/devchat-gateway/pkg/backendtypes"
)

// buildVersion is overridden at build time via -ldflags.
var buildVersion = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "devchat-gateway",
		Short: "Protocol-translating SSE gateway for the Dev chat service",
		Long:  "Accepts OpenAI-shaped chat completion requests and translates the Dev upstream's SSE vocabulary into OpenAI streaming chunks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (default: use built-in defaults)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the gateway version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(buildVersion)
			return nil
		},
	}

	rootCmd.AddCommand(serveCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runServe loads configuration, constructs the server, and blocks until a
// shutdown signal arrives.
func runServe(configPath string) error {
	// Missing .env is not an error: production deployments set real
	// environment variables directly.
	_ = godotenv.Load()

	cfg, err := backendtypes.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Server.Version == "dev" && buildVersion != "dev" {
		cfg.Server.Version = buildVersion
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	dev := devapi.NewClient(cfg.DevUpstream.BaseURL, cfg.DevUpstream.ResponseHeaderTimeout, devapi.NoopSigner{})
	server := backend.NewServer(cfg, dev, logger)

	shutdownSignal := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		close(shutdownSignal)
	}()

	return server.ListenAndServeWithGracefulShutdown(shutdownSignal)
}
