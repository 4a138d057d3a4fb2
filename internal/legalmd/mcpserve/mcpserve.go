// Package mcpserve exposes the conversion pipeline as an MCP tool,
// adapted from docpipe.RegisterMCP's registerExtractTool pattern.
package mcpserve

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/legalmd/internal/legalmd"
	"github.com/hazyhaar/legalmd/internal/legalmd/kit"
)

// Server wires a Config and probed Capabilities to the MCP tool surface.
type Server struct {
	cfg  legalmd.Config
	caps legalmd.Capabilities
}

// New binds a Config and Capabilities for tool registration.
func New(cfg legalmd.Config, caps legalmd.Capabilities) *Server {
	return &Server{cfg: cfg, caps: caps}
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

type convertReq struct {
	Path string `json:"path"`
}

type convertResp struct {
	DocID           string `json:"doc_id"`
	PageCount       int    `json:"page_count"`
	SuspectPages    []int  `json:"suspect_pages"`
	BAB             int    `json:"bab"`
	Pasal           int    `json:"pasal"`
	MetaFingerprint string `json:"meta_fingerprint"`
}

// RegisterTools registers legalmd_convert on srv.
func (s *Server) RegisterTools(srv *mcp.Server) {
	s.registerConvertTool(srv)
}

func (s *Server) registerConvertTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "legalmd_convert",
		Description: "Convert one Indonesian regulatory PDF to structured Markdown plus metadata, writing results under the configured output root.",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "Absolute or input-root-relative path to the source PDF"},
		}, []string{"path"}),
	}

	endpoint := kit.Endpoint(func(ctx context.Context, req any) (any, error) {
		r, ok := req.(*convertReq)
		if !ok {
			return nil, fmt.Errorf("internal: unexpected request type %T", req)
		}
		path := r.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.cfg.InputRoot, path)
		}
		pipeline := legalmd.NewPipeline(s.cfg, s.caps)
		summary := pipeline.RunOne(ctx, path)
		if summary.Err != nil {
			return nil, summary.Err
		}
		return &convertResp{
			DocID:           summary.Meta.DocID,
			PageCount:       summary.Meta.PageCount,
			SuspectPages:    summary.Meta.SuspectPages,
			BAB:             summary.Meta.Found.BAB,
			Pasal:           summary.Meta.Found.Pasal,
			MetaFingerprint: summary.Meta.MetaFingerprint,
		}, nil
	})

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r convertReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
