// Package server implements an MCP (Model Context Protocol) tool server over
// the menu extraction pipeline.
//
// # Protocol
//
// The server speaks JSON-RPC 2.0 over stdio, one message per line:
//   - initialize: protocol handshake
//   - tools/list: enumerate the tools below
//   - tools/call: execute a tool
//   - ping: health check
//
// # Tools
//
//   - menu_resolve_week: dates an announcement title covers
//   - menu_parse_ocr_text: run the text cleanup rules over raw OCR output
//   - menu_extract_image: OCR a saved weekly menu image
//   - menu_crawl_week: crawl the bulletin boards for a week's menus
//   - menu_column_overlay: draw the column crop boxes over an image
//
// Tool arguments are validated against each tool's input schema before the
// tool runs. Invalid arguments return code -32602; tool failures return
// -32000 with the error text in data.
package server
