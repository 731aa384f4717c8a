package test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestMcpEndpoint() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initializeRequest := `{
		"jsonrpc": "2.0",
		"id": 1,
		"method": "initialize",
		"params": {
			"protocolVersion": "2025-03-26",
			"capabilities": {},
			"clientInfo": {"name": "test-client", "version": "0.0.1"}
		}
	}`

	t.Run("no secret", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/mcp", serverEndpoint), bytes.NewReader([]byte(initializeRequest)))
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		s.Assert().Equal("no can do", strings.TrimSpace(string(respBytes)))
	})

	t.Run("wrong secret", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/mcp", serverEndpoint), bytes.NewReader([]byte(initializeRequest)))
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-MCP-Secret", "not-the-secret")

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		s.Assert().Equal(http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("initialize with the right secret", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/mcp", serverEndpoint), bytes.NewReader([]byte(initializeRequest)))
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json, text/event-stream")
		req.Header.Set("X-MCP-Secret", testMcpSecret)

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		s.Assert().Contains(string(respBytes), `"jsonrpc"`)
		s.Assert().Contains(string(respBytes), `"result"`)
	})
}
