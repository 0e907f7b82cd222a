package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/IlyaGulya/gradle-mcp-server/internal/api/tools"
	"github.com/IlyaGulya/gradle-mcp-server/pkg/logging"
)

// Options configures the server transport.
type Options struct {
	// Name and Version identify the server to MCP clients.
	Name    string
	Version string

	// SSE enables the HTTP/SSE transport instead of stdio.
	SSE  bool
	Host string
	Port int
}

// Server exposes the Gradle tool set over an MCP transport
type Server struct {
	opts  Options
	tools *tools.GradleTools

	mcpServer *server.MCPServer
	sseServer *server.SSEServer
	mu        sync.Mutex
}

// NewServer creates an MCP server around the given tool set
func NewServer(opts Options, gradleTools *tools.GradleTools) *Server {
	if opts.Host == "" {
		opts.Host = "localhost"
	}
	if opts.Port == 0 {
		opts.Port = 8092
	}
	return &Server{
		opts:  opts,
		tools: gradleTools,
	}
}

// Start runs the server until the context is cancelled (stdio) or until
// Stop is called (SSE).
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.mcpServer != nil {
		s.mu.Unlock()
		return fmt.Errorf("server already started")
	}

	mcpServer := server.NewMCPServer(
		s.opts.Name,
		s.opts.Version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)
	s.mcpServer = mcpServer

	if !s.opts.SSE {
		s.mu.Unlock()
		logging.Info("Server", "Serving MCP over stdio")
		return server.ServeStdio(mcpServer)
	}

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	s.sseServer = server.NewSSEServer(
		mcpServer,
		server.WithBaseURL(fmt.Sprintf("http://%s", addr)),
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
		server.WithKeepAlive(true),
		server.WithKeepAliveInterval(30*time.Second),
	)
	sseServer := s.sseServer
	s.mu.Unlock()

	logging.Info("Server", "Serving MCP over SSE on %s", addr)
	if err := sseServer.Start(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("sse server: %w", err)
	}
	return nil
}

// Stop shuts down the SSE transport. Stdio serving ends with its stream
// and needs no explicit stop.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	sseServer := s.sseServer
	s.mu.Unlock()

	if sseServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	logging.Info("Server", "Shutting down SSE server")
	if err := sseServer.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("sse shutdown: %w", err)
	}
	return nil
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	handlers := map[string]server.ToolHandlerFunc{
		"get_gradle_project_info": s.tools.HandleGetProjectInfo,
		"execute_gradle_task":     s.tools.HandleExecuteTask,
		"run_gradle_tests":        s.tools.HandleRunTests,
	}

	for _, tool := range s.tools.GetTools() {
		handler, ok := handlers[tool.Name]
		if !ok {
			logging.Warn("Server", "No handler for tool %s, skipping", tool.Name)
			continue
		}
		mcpServer.AddTool(tool, handler)
	}
}
