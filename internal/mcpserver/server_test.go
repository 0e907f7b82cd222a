package mcpserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/IlyaGulya/gradle-mcp-server/internal/api/tools"
	"github.com/IlyaGulya/gradle-mcp-server/internal/config"
	"github.com/IlyaGulya/gradle-mcp-server/internal/gradle"
)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	gt := tools.NewGradleTools(gradle.NewConnector(t.TempDir(), nil), config.GetDefaultConfig())
	return NewServer(opts, gt)
}

func TestNewServerDefaults(t *testing.T) {
	s := newTestServer(t, Options{Name: "test", Version: "0.0.1"})
	assert.Equal(t, "localhost", s.opts.Host)
	assert.Equal(t, 8092, s.opts.Port)
}

func TestNewServerKeepsExplicitAddress(t *testing.T) {
	s := newTestServer(t, Options{Name: "test", Version: "0.0.1", Host: "0.0.0.0", Port: 9000})
	assert.Equal(t, "0.0.0.0", s.opts.Host)
	assert.Equal(t, 9000, s.opts.Port)
}

func TestStopWithoutStart(t *testing.T) {
	s := newTestServer(t, Options{Name: "test", Version: "0.0.1"})
	assert.NoError(t, s.Stop(context.Background()))
}
