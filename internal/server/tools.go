package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// sourceProperties describes the image-selecting arguments shared by the
// analysis tools, merged with extra.
func sourceProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to an image file",
		},
		"data_url": map[string]interface{}{
			"type":        "string",
			"description": "Base64 data URL of an image",
		},
		"folder": map[string]interface{}{
			"type":        "string",
			"description": "Library folder of a stored asset",
		},
		"name": map[string]interface{}{
			"type":        "string",
			"description": "Name of a stored asset",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

func actionSchema(description string, actions ...string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"action": map[string]interface{}{
				"type":        "string",
				"enum":        actions,
				"description": description,
			},
		},
		"required": []string{"action"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Asset Library
		{
			Name:        "asset_import",
			Description: "Import pixel-art images (16-32 px per side, or an integer upscale of one) into the asset library. Oversized images are downscaled by 10, 8, 4 or 2 and their palette reduced to at most 15 colors. Files that fail validation are reported and skipped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths to image files",
					},
					"data_url": map[string]interface{}{
						"type":        "string",
						"description": "Base64 data URL to import instead of files",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Asset name for a data_url import",
					},
					"folder": map[string]interface{}{
						"type":        "string",
						"description": "Library folder to file the assets under",
					},
				},
			},
		},
		{
			Name:        "asset_analyze",
			Description: "Count the opaque colors of an image. Returns the palette, exact per-color pixel counts and the original color count.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": sourceProperties(map[string]interface{}{
					"quantize": map[string]interface{}{
						"type":        "boolean",
						"description": "Reduce palettes above 15 colors",
						"default":     false,
					},
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "RGB distance under which colors merge when quantizing",
						"default":     30,
					},
				}),
			},
		},
		{
			Name:        "asset_list",
			Description: "List library folders and the assets they hold.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"folder": map[string]interface{}{
						"type":        "string",
						"description": "Only list this folder",
					},
				},
			},
		},
		{
			Name:        "asset_delete",
			Description: "Delete a stored asset, or move it to another folder when move_to is set.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"folder":  map[string]interface{}{"type": "string"},
					"name":    map[string]interface{}{"type": "string"},
					"move_to": map[string]interface{}{"type": "string"},
				},
				"required": []string{"name"},
			},
		},

		// Palette Operations
		{
			Name:        "palette_match",
			Description: "Score an image palette against a reference palette: the percentage of image colors found exactly or within distance 20, classified as exact, similar or different, plus the nearest reference entry per color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": sourceProperties(map[string]interface{}{
					"reference": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Reference lines, \"#RRGGBB optional name\"",
					},
					"reference_path": map[string]interface{}{
						"type":        "string",
						"description": "Path to a reference palette file",
					},
				}),
			},
		},
		{
			Name:        "palette_suggest",
			Description: "Suggest a reduced palette for an image using median cut.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": sourceProperties(map[string]interface{}{
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors (1-15)",
						"default":     8,
					},
				}),
			},
		},

		// Editor Session
		{
			Name:        "editor_open",
			Description: "Open an editor session on an image, a stored asset or a blank canvas. Replaces any open session.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": sourceProperties(map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Blank canvas width",
						"default":     16,
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Blank canvas height (defaults to width)",
					},
				}),
			},
		},
		{
			Name:        "editor_set_tool",
			Description: "Select the drawing tool and colors. Switching tools drops any floating lasso selection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"tool": map[string]interface{}{
						"type": "string",
						"enum": []string{"pencil", "eraser", "line", "rectangle", "circle", "fill", "picker", "lasso", "crop"},
					},
					"primary": map[string]interface{}{
						"type":        "string",
						"description": "Primary color \"#RRGGBB\" or \"transparent\"",
					},
					"secondary": map[string]interface{}{
						"type":        "string",
						"description": "Secondary color \"#RRGGBB\" or \"transparent\"",
					},
					"fill_shapes": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw filled rectangles and circles",
					},
				},
			},
		},
		{
			Name:        "editor_pointer",
			Description: "Send a pointer event at canvas pixel (x, y). Tools act on press, move and release like a mouse drag.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"action": map[string]interface{}{
						"type": "string",
						"enum": []string{"press", "move", "release"},
					},
					"x": map[string]interface{}{"type": "integer"},
					"y": map[string]interface{}{"type": "integer"},
					"button": map[string]interface{}{
						"type":    "string",
						"enum":    []string{"primary", "secondary"},
						"default": "primary",
					},
				},
				"required": []string{"action", "x", "y"},
			},
		},
		{
			Name:        "editor_layer",
			Description: "Manage layers. index defaults to the current layer.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"action": map[string]interface{}{
						"type": "string",
						"enum": []string{"add", "delete", "select", "visibility", "rename", "up", "down"},
					},
					"index":   map[string]interface{}{"type": "integer"},
					"name":    map[string]interface{}{"type": "string"},
					"visible": map[string]interface{}{"type": "boolean"},
				},
				"required": []string{"action"},
			},
		},
		{
			Name:        "editor_history",
			Description: "Undo or redo the last committed change.",
			InputSchema: actionSchema("History step", "undo", "redo"),
		},
		{
			Name:        "editor_crop",
			Description: "Apply or reset the crop box while the crop tool is active.",
			InputSchema: actionSchema("Crop action", "confirm", "cancel"),
		},
		{
			Name:        "editor_lasso",
			Description: "Drop floating lasso content at its current position (move), discard it leaving a hole (cut), or abandon the selection (cancel).",
			InputSchema: actionSchema("Lasso action", "move", "cut", "cancel"),
		},
		{
			Name:        "editor_state",
			Description: "Return the editor session state, optionally with a zoomed PNG preview and pixel grid.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"zoom": map[string]interface{}{
						"type":        "integer",
						"description": "Preview magnification (1-32); 0 omits the preview",
						"default":     0,
					},
					"grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw a one-cell-per-pixel grid over the preview (zoom 2 or more)",
						"default":     false,
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid line color as #RRGGBB",
						"default":     "#404040",
					},
					"grid_labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Label each grid cell with its pixel coordinates",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "editor_save",
			Description: "Export the visible layers as PNG. Optionally write it to path and store it in the library.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   map[string]interface{}{"type": "string"},
					"store":  map[string]interface{}{"type": "boolean", "default": false},
					"folder": map[string]interface{}{"type": "string"},
					"name":   map[string]interface{}{"type": "string"},
				},
			},
		},
	}
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
