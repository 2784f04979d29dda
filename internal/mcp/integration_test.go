package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/binsr/inspection-report-server/internal/report"
)

func TestServerIntegration(t *testing.T) {
	cfg := testConfig(t)
	cfg.ServerName = "integration-test-server"

	svc, err := report.NewService(cfg)
	if err != nil {
		t.Fatalf("Failed to create report service: %v", err)
	}

	server, err := NewServer(cfg, svc)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	// Verify server properties
	if server.config != cfg {
		t.Error("server config not set correctly")
	}
	if server.reportService != svc {
		t.Error("server reportService not set correctly")
	}
	if server.mcpServer == nil {
		t.Error("mcpServer should be initialized")
	}
}

func TestServerToolsRegistration(t *testing.T) {
	server := testServer(t)

	// Test that tools are properly registered by checking the MCP server
	if server.mcpServer == nil {
		t.Fatal("MCP server should be initialized")
	}

	// The mark3labs library doesn't expose registered tools directly,
	// but we can verify the server was created successfully
	// which means tools were registered without errors
}

func TestServerRunStdio(t *testing.T) {
	server := testServer(t)

	// Test that the server can start (and quickly stop)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// Start server in a goroutine
	done := make(chan error, 1)
	go func() {
		done <- server.runStdioMode(ctx)
	}()

	// Wait for timeout or completion
	select {
	case err := <-done:
		// Server should have stopped due to context timeout
		// This is expected behavior
		if err != nil {
			t.Logf("Server stopped with: %v (expected due to timeout)", err)
		}
	case <-time.After(200 * time.Millisecond):
		t.Error("Server did not stop within expected time")
	}
}

func TestServerErrorHandling(t *testing.T) {
	cfg := testConfig(t)

	// Test with nil report service (should not panic)
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Server creation with nil service caused panic: %v", r)
		}
	}()

	_, err := NewServer(cfg, nil)
	if err == nil {
		t.Error("expected error with nil report service")
	}
}
