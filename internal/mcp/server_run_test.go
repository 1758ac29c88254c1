package mcp

import (
	"bytes"
	"context"
	"log"
	"os"
	"strings"
	"testing"
	"time"
)

// Under go test stdin is /dev/null, so the stdio transport sees EOF
// immediately and Run returns without external input.

func runServer(t *testing.T, srv *Server) error {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("Run() did not return after stdin EOF")
		return nil
	}
}

func TestServerRunStdioMode(t *testing.T) {
	srv := newTestServer(t)

	if err := runServer(t, srv); err != nil {
		t.Errorf("Run() in stdio mode returned error: %v", err)
	}
}

func TestServerRunServerModeFallsBack(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Mode = "server"
	cfg.Port = 18080
	srv := newTestServerWithConfig(t, cfg)

	var logBuf bytes.Buffer
	log.SetOutput(&logBuf)
	defer log.SetOutput(os.Stderr)

	if err := runServer(t, srv); err != nil {
		t.Errorf("Run() in server mode returned error: %v", err)
	}
	if !strings.Contains(logBuf.String(), "Falling back to stdio mode") {
		t.Errorf("expected fallback log message, got: %s", logBuf.String())
	}
}

func TestServerRunStdioModeDebugLogging(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.LogLevel = "debug"
	srv := newTestServerWithConfig(t, cfg)

	var logBuf bytes.Buffer
	log.SetOutput(&logBuf)
	defer log.SetOutput(os.Stderr)

	if err := runServer(t, srv); err != nil {
		t.Errorf("Run() returned error: %v", err)
	}

	logged := logBuf.String()
	if !strings.Contains(logged, "Starting form MCP server in stdio mode") {
		t.Errorf("expected startup log message, got: %s", logged)
	}
	if !strings.Contains(logged, "Storage directory:") {
		t.Errorf("expected storage directory log message, got: %s", logged)
	}
}

func TestServerRunStdioModeQuietByDefault(t *testing.T) {
	srv := newTestServer(t)

	var logBuf bytes.Buffer
	log.SetOutput(&logBuf)
	defer log.SetOutput(os.Stderr)

	if err := runServer(t, srv); err != nil {
		t.Errorf("Run() returned error: %v", err)
	}
	if strings.Contains(logBuf.String(), "Starting form MCP server") {
		t.Errorf("did not expect startup logging at info level, got: %s", logBuf.String())
	}
}
