package server

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var dateProperty = map[string]interface{}{
	"type":        "string",
	"pattern":     `^\d{4}-\d{2}-\d{2}$`,
	"description": "Reference date (YYYY-MM-DD). Defaults to today",
}

var restaurantProperty = map[string]interface{}{
	"type":        "string",
	"description": "Restaurant label (e.g. 천안_교직원식당) or name (e.g. CHEONAN_FACULTY)",
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"minLength":   1,
	"description": "Absolute path to the menu image file",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "menu_resolve_week",
			Description: "Resolve the dates a weekly menu announcement title covers. Falls back to Monday..Friday of the reference date's week.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title": map[string]interface{}{
						"type":        "string",
						"description": "Announcement title, e.g. 교직원 식당 주간 메뉴(2024.3.4~3.8)",
					},
					"date": dateProperty,
				},
				"required":             []string{"title"},
				"additionalProperties": false,
			},
		},
		{
			Name:        "menu_parse_ocr_text",
			Description: "Clean raw OCR text of one weekday column into dish lines and the finalized item list for that day.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Raw OCR output",
					},
				},
				"required":             []string{"text"},
				"additionalProperties": false,
			},
		},
		{
			Name:        "menu_extract_image",
			Description: "OCR a saved weekly menu image. Returns per-column diagnostics, and dated menus when a restaurant is given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty,
					"restaurant": restaurantProperty,
					"title": map[string]interface{}{
						"type":        "string",
						"description": "Announcement title used to date the columns",
					},
					"date": dateProperty,
				},
				"required":             []string{"path"},
				"additionalProperties": false,
			},
		},
		{
			Name:        "menu_crawl_week",
			Description: "Crawl the bulletin board for a week's menus. Without a restaurant every image-based board is crawled. Never fails: unavailable data becomes placeholder items.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"restaurant": restaurantProperty,
					"date":       dateProperty,
					"save": map[string]interface{}{
						"type":        "boolean",
						"description": "Store the result. Default false",
						"default":     false,
					},
				},
				"additionalProperties": false,
			},
		},
		{
			Name:        "menu_column_overlay",
			Description: "Draw the weekday column crop boxes over the preprocessed image and return it as base64 PNG. Use to check the crop template still fits.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"color": map[string]interface{}{
						"type":        "string",
						"pattern":     "^#?[0-9A-Fa-f]{6}$",
						"description": "Box color as hex. Default FF0000",
					},
				},
				"required":             []string{"path"},
				"additionalProperties": false,
			},
		},
	}
}

// compileSchemas compiles each tool's input schema for argument validation.
func compileSchemas(tools []Tool) (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	for _, t := range tools {
		b, err := json.Marshal(t.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("marshal schema %s: %w", t.Name, err)
		}
		if err := compiler.AddResource(t.Name+".json", bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", t.Name, err)
		}
	}

	out := make(map[string]*jsonschema.Schema, len(tools))
	for _, t := range tools {
		schema, err := compiler.Compile(t.Name + ".json")
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", t.Name, err)
		}
		out[t.Name] = schema
	}
	return out, nil
}

// validateArgs checks raw tool arguments against the tool's schema. Missing
// arguments are treated as an empty object.
func (s *Server) validateArgs(name string, args json.RawMessage) error {
	schema, ok := s.schemas[name]
	if !ok {
		return fmt.Errorf("unknown tool: %s", name)
	}
	if len(bytes.TrimSpace(args)) == 0 {
		args = json.RawMessage("{}")
	}
	var v interface{}
	if err := json.Unmarshal(args, &v); err != nil {
		return fmt.Errorf("arguments are not valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("arguments do not match schema: %w", err)
	}
	return nil
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
