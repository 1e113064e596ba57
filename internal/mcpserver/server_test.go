package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/andresuchdata/inventory-manager/internal/config"
	"github.com/andresuchdata/inventory-manager/internal/service"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	name string
	args map[string]any
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, name string, args map[string]any) service.ToolResult {
	d.name, d.args = name, args
	if name == service.ToolInventoryStatus {
		return service.ToolResult{Text: "an error occurred: boom", IsError: true}
	}
	return service.ToolResult{Text: `{"ok": true}`}
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

func send(t *testing.T, s *server.MCPServer, id int, method string, params any) (rpcResponse, string) {
	t.Helper()
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	reply := s.HandleMessage(context.Background(), msg)
	raw, err := json.Marshal(reply)
	require.NoError(t, err)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	return resp, string(raw)
}

func call(t *testing.T, s *server.MCPServer, id int, method string, params any) rpcResponse {
	t.Helper()
	resp, raw := send(t, s, id, method, params)
	require.Empty(t, resp.Error, raw)
	return resp
}

func newTestServer() (*server.MCPServer, *recordingDispatcher) {
	disp := &recordingDispatcher{}
	s := New(config.MCPConfig{Name: "inventory-manager", Version: "1.0.0"}, disp)
	return s, disp
}

func initialize(t *testing.T, s *server.MCPServer) {
	t.Helper()
	resp := call(t, s, 1, "initialize", map[string]any{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test", "version": "0.0.1"},
	})

	var result struct {
		ServerInfo struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, "inventory-manager", result.ServerInfo.Name)
	assert.Equal(t, "1.0.0", result.ServerInfo.Version)
}

func TestListTools(t *testing.T) {
	s, _ := newTestServer()
	initialize(t, s)

	resp := call(t, s, 2, "tools/list", map[string]any{})
	var result struct {
		Tools []struct {
			Name        string `json:"name"`
			InputSchema struct {
				Properties map[string]any `json:"properties"`
			} `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &result))

	names := map[string]bool{}
	for _, tool := range result.Tools {
		names[tool.Name] = true
		if tool.Name == service.ToolCurrentInventory {
			assert.Contains(t, tool.InputSchema.Properties, service.ArgProductID)
		}
	}
	assert.Len(t, names, 4)
	for _, tool := range service.Tools() {
		assert.True(t, names[tool.Name], tool.Name)
	}
}

func TestCallToolDelegatesToDispatcher(t *testing.T) {
	s, disp := newTestServer()
	initialize(t, s)

	resp := call(t, s, 3, "tools/call", map[string]any{
		"name":      service.ToolCurrentInventory,
		"arguments": map[string]any{"productId": "product_001"},
	})
	assert.Equal(t, service.ToolCurrentInventory, disp.name)
	assert.Equal(t, "product_001", disp.args["productId"])

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	assert.Equal(t, `{"ok": true}`, result.Content[0].Text)
	assert.False(t, result.IsError)

	resp = call(t, s, 4, "tools/call", map[string]any{"name": service.ToolInventoryStatus})
	result.IsError = false
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.True(t, result.IsError)
	assert.Equal(t, "an error occurred: boom", result.Content[0].Text)
}

func TestCallUnknownToolIsRejectedByProtocol(t *testing.T) {
	s, disp := newTestServer()
	initialize(t, s)

	resp, raw := send(t, s, 5, "tools/call", map[string]any{"name": "bogus_tool"})
	require.NotEmpty(t, resp.Error, raw)

	var rpcErr struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(resp.Error, &rpcErr))
	assert.Equal(t, -32602, rpcErr.Code)
	assert.Contains(t, rpcErr.Message, "bogus_tool")
	assert.Empty(t, disp.name)
}
