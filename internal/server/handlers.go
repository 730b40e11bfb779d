package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ironsheep/cafeteria-menu-ocr/internal/daterange"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/imaging"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/menu"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/menutext"
	"github.com/ironsheep/cafeteria-menu-ocr/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// errCrawlDisabled is returned when the server was started without a crawler.
var errCrawlDisabled = errors.New("crawling is not configured")

// handleToolsCall validates the arguments, runs the tool and wraps its result
// in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}
	if err := s.validateArgs(params.Name, params.Arguments); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	s.logger.Debug("tool completed", "tool", params.Name, "duration_ms", time.Since(start).Milliseconds())

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	switch name {
	case "menu_resolve_week":
		return s.handleResolveWeek(args)
	case "menu_parse_ocr_text":
		return s.handleParseOCRText(args)
	case "menu_extract_image":
		return s.handleExtractImage(ctx, args)
	case "menu_crawl_week":
		return s.handleCrawlWeek(ctx, args)
	case "menu_column_overlay":
		return s.handleColumnOverlay(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	if d, ok := data.(string); ok && d == "" {
		data = nil
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// reference parses an optional YYYY-MM-DD argument, defaulting to today.
func (s *Server) reference(date string) (time.Time, error) {
	if date == "" {
		return menu.Day(s.now()), nil
	}
	t, err := time.Parse(menu.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(menu.DateLayout)
	}
	return out
}

type resolveWeekArgs struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

type resolveWeekResult struct {
	Dates      []string `json:"dates"`
	TargetWeek bool     `json:"target_week"`
}

func (s *Server) handleResolveWeek(args json.RawMessage) (interface{}, error) {
	var a resolveWeekArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	ref, err := s.reference(a.Date)
	if err != nil {
		return nil, err
	}
	dates := daterange.Resolve(a.Title, ref)
	return resolveWeekResult{Dates: formatDates(dates), TargetWeek: daterange.IsWeekOf(dates, ref)}, nil
}

type parseOCRTextArgs struct {
	Text string `json:"text"`
}

type parseOCRTextResult struct {
	Lines        []string `json:"lines"`
	Score        int      `json:"score"`
	Items        []string `json:"items"`
	RulesVersion string   `json:"rules_version"`
}

func (s *Server) handleParseOCRText(args json.RawMessage) (interface{}, error) {
	var a parseOCRTextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	lines := menutext.ParseLines(a.Text)
	return parseOCRTextResult{
		Lines:        lines,
		Score:        menutext.Score(lines),
		Items:        menutext.FinalizeDay(lines, []string{a.Text}),
		RulesVersion: menutext.RulesVersion,
	}, nil
}

type extractImageArgs struct {
	Path       string `json:"path"`
	Restaurant string `json:"restaurant"`
	Title      string `json:"title"`
	Date       string `json:"date"`
}

type extractImageResult struct {
	Image   imaging.Info            `json:"image"`
	Columns []pipeline.ColumnResult `json:"columns"`
	Menus   []menu.Menu             `json:"menus,omitempty"`
}

func (s *Server) handleExtractImage(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a extractImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, info, err := imaging.LoadFile(a.Path)
	if err != nil {
		return nil, err
	}

	res := extractImageResult{Image: *info, Columns: s.extractor.Columns(ctx, img)}
	if a.Restaurant == "" {
		return res, nil
	}

	r, err := menu.ParseRestaurant(a.Restaurant)
	if err != nil {
		return nil, err
	}
	ref, err := s.reference(a.Date)
	if err != nil {
		return nil, err
	}
	days := make([][]string, len(res.Columns))
	for i, c := range res.Columns {
		days[i] = c.Items
	}
	res.Menus = pipeline.Assemble(r, daterange.Resolve(a.Title, ref), days)
	return res, nil
}

type crawlWeekArgs struct {
	Restaurant string `json:"restaurant"`
	Date       string `json:"date"`
	Save       bool   `json:"save"`
}

type crawlWeekResult struct {
	Menus []menu.Menu `json:"menus"`
	Saved int         `json:"saved"`
}

func (s *Server) handleCrawlWeek(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a crawlWeekArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if s.crawler == nil {
		return nil, errCrawlDisabled
	}
	ref, err := s.reference(a.Date)
	if err != nil {
		return nil, err
	}

	var menus []menu.Menu
	if a.Restaurant == "" {
		menus = s.crawler.CrawlAll(ctx, ref)
	} else {
		r, err := menu.ParseRestaurant(a.Restaurant)
		if err != nil {
			return nil, err
		}
		menus = s.crawler.CrawlWeek(ctx, r, ref)
	}

	res := crawlWeekResult{Menus: menus}
	if a.Save {
		if s.store == nil {
			return nil, errors.New("save requested but no store is configured")
		}
		if res.Saved, err = s.store.Save(ctx, menus); err != nil {
			return nil, err
		}
	}
	return res, nil
}

type columnOverlayArgs struct {
	Path  string `json:"path"`
	Color string `json:"color"`
}

func (s *Server) handleColumnOverlay(args json.RawMessage) (interface{}, error) {
	var a columnOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = "FF0000"
	}
	img, _, err := imaging.LoadFile(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.ColumnOverlay(img, s.locator, a.Color)
}
