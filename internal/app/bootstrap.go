package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/IlyaGulya/gradle-mcp-server/internal/api/tools"
	"github.com/IlyaGulya/gradle-mcp-server/internal/config"
	"github.com/IlyaGulya/gradle-mcp-server/internal/gradle"
	"github.com/IlyaGulya/gradle-mcp-server/internal/mcpserver"
	"github.com/IlyaGulya/gradle-mcp-server/pkg/logging"
)

const serverName = "gradle-mcp-server"

// Application bootstraps and runs the MCP server
type Application struct {
	config *Config
	server *mcpserver.Server
}

// NewApplication creates and initializes a new application instance
func NewApplication(cfg *Config) (*Application, error) {
	serverCfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogLevel := logging.ParseLevel(serverCfg.LogLevel)
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}
	// stdio carries the MCP protocol, so logs always go to stderr
	logging.Init(appLogLevel, os.Stderr)

	// Flags override file configuration
	if cfg.ProjectDir != "" {
		serverCfg.ProjectDir = cfg.ProjectDir
	}
	if serverCfg.ProjectDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		serverCfg.ProjectDir = wd
	}
	if cfg.Host != "" {
		serverCfg.Server.Host = cfg.Host
	}
	if cfg.Port != 0 {
		serverCfg.Server.Port = cfg.Port
	}
	if cfg.SSE {
		serverCfg.Server.Transport = "sse"
	}
	cfg.ServerConfig = &serverCfg

	logging.Info("Bootstrap", "Using Gradle project directory: %s", serverCfg.ProjectDir)

	connector := gradle.NewConnector(serverCfg.ProjectDir, serverCfg.GradleEnv)
	gradleTools := tools.NewGradleTools(connector, serverCfg)

	server := mcpserver.NewServer(mcpserver.Options{
		Name:    serverName,
		Version: cfg.Version,
		SSE:     serverCfg.Server.Transport == "sse",
		Host:    serverCfg.Server.Host,
		Port:    serverCfg.Server.Port,
	}, gradleTools)

	return &Application{
		config: cfg,
		server: server,
	}, nil
}

// Run serves until the transport ends or a termination signal arrives
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start(ctx)
	}()

	select {
	case sig := <-sigCh:
		logging.Info("Bootstrap", "Received signal %s, shutting down", sig)
		if err := a.server.Stop(context.Background()); err != nil {
			logging.Error("Bootstrap", err, "Shutdown error")
		}
		return nil
	case err := <-errCh:
		return err
	}
}
