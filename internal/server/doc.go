// Package server implements the MCP (Model Context Protocol) server for the
// pixel-art asset library and editor.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Asset Library:
//   - asset_import: Validate, normalize and store images
//   - asset_analyze: Palette and per-color pixel counts
//   - asset_list: Folders and stored assets
//   - asset_delete: Delete or re-file an asset
//
// Palette Operations:
//   - palette_match: Score a palette against a reference
//   - palette_suggest: Median-cut palette suggestion
//
// Editor Session:
//   - editor_open: Start a session on an image, asset or blank canvas
//   - editor_set_tool: Tool and color selection
//   - editor_pointer: press, move and release events
//   - editor_layer: add, delete, select, visibility, rename, up, down
//   - editor_history: undo and redo
//   - editor_crop: confirm or cancel the crop box
//   - editor_lasso: move, cut or cancel floating content
//   - editor_state: Session state with an optional zoomed preview and pixel grid
//   - editor_save: PNG export, file write and library store
//
// Only one editor session exists at a time. Opening another replaces it and
// keeps the drawing colors.
//
// # Image Caching
//
// Images read from disk are cached by path for the lifetime of the process.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC errors with code -32000 and the error
// text in data. Malformed tools/call params yield -32602 and unknown methods
// -32601. No-op editor actions are not errors: they return changed=false.
//
// Logging goes to the injected zap logger, never to stdout.
package server
