package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ironsheep/pixelkit/internal/imaging"
	"github.com/ironsheep/pixelkit/internal/importer"
	"github.com/ironsheep/pixelkit/internal/palette"
	"github.com/ironsheep/pixelkit/internal/store"
)

// errNoLibrary is returned by library tools when the server runs without a
// database.
var errNoLibrary = errors.New("no asset library configured")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "asset_import", "editor_pointer").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Info("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from the cache, a data URL or the asset library
//  4. Calls into importer, palette, store or the editor session
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Asset Library
	case "asset_import":
		return s.handleAssetImport(args)
	case "asset_analyze":
		return s.handleAssetAnalyze(args)
	case "asset_list":
		return s.handleAssetList(args)
	case "asset_delete":
		return s.handleAssetDelete(args)

	// Palette Operations
	case "palette_match":
		return s.handlePaletteMatch(args)
	case "palette_suggest":
		return s.handlePaletteSuggest(args)

	// Editor Session
	case "editor_open":
		return s.handleEditorOpen(args)
	case "editor_set_tool":
		return s.handleEditorSetTool(args)
	case "editor_pointer":
		return s.handleEditorPointer(args)
	case "editor_layer":
		return s.handleEditorLayer(args)
	case "editor_history":
		return s.handleEditorHistory(args)
	case "editor_crop":
		return s.handleEditorCrop(args)
	case "editor_lasso":
		return s.handleEditorLasso(args)
	case "editor_state":
		return s.handleEditorState(args)
	case "editor_save":
		return s.handleEditorSave(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// imageSource names an image by file path, data URL or stored asset, checked
// in that order.
type imageSource struct {
	Path    string `json:"path"`
	DataURL string `json:"data_url"`
	Folder  string `json:"folder"`
	Name    string `json:"name"`
}

func (s *Server) loadImage(src imageSource) (image.Image, error) {
	switch {
	case src.Path != "":
		return s.cache.Load(src.Path)
	case src.DataURL != "":
		return imaging.DecodeDataURL(src.DataURL)
	case src.Name != "":
		if s.db == nil {
			return nil, errNoLibrary
		}
		rec, err := s.db.Get(src.Folder, src.Name)
		if err != nil {
			return nil, err
		}
		return rec.Image()
	default:
		return nil, errors.New("one of path, data_url or name is required")
	}
}

// === Asset Library Handlers ===

type assetImportArgs struct {
	Paths   []string `json:"paths"`
	DataURL string   `json:"data_url"`
	Name    string   `json:"name"`
	Folder  string   `json:"folder"`
}

type importedAsset struct {
	*importer.Record
	ID int64 `json:"id,omitempty"`
}

type assetImportResult struct {
	Imported []importedAsset    `json:"imported"`
	Failures []importer.Failure `json:"failures"`
	Stored   bool               `json:"stored"`
}

func (s *Server) handleAssetImport(args json.RawMessage) (interface{}, error) {
	var a assetImportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	batch := &importer.BatchResult{}
	switch {
	case len(a.Paths) > 0:
		batch = importer.ImportFiles(a.Paths, a.Folder, s.log)
	case a.DataURL != "":
		if a.Name == "" {
			return nil, errors.New("name is required with data_url")
		}
		rec, err := importer.ImportDataURL(a.Name, a.DataURL)
		if err != nil {
			return nil, err
		}
		rec.Folder = a.Folder
		batch.Imported = append(batch.Imported, rec)
	default:
		return nil, errors.New("paths or data_url is required")
	}

	res := &assetImportResult{
		Imported: make([]importedAsset, 0, len(batch.Imported)),
		Failures: batch.Failures,
		Stored:   s.db != nil,
	}
	if res.Failures == nil {
		res.Failures = []importer.Failure{}
	}
	for _, rec := range batch.Imported {
		asset := importedAsset{Record: rec}
		if s.db != nil {
			id, err := s.db.Put(rec)
			if err != nil {
				return nil, fmt.Errorf("failed to store %s: %w", rec.Name, err)
			}
			asset.ID = id
		}
		res.Imported = append(res.Imported, asset)
	}
	return res, nil
}

type assetAnalyzeArgs struct {
	imageSource
	Quantize  bool    `json:"quantize"`
	Threshold float64 `json:"threshold"`
}

type assetAnalyzeResult struct {
	*palette.Analysis
	Width  int                `json:"width"`
	Height int                `json:"height"`
	File   *imaging.ImageInfo `json:"file,omitempty"`
}

func (s *Server) handleAssetAnalyze(args json.RawMessage) (interface{}, error) {
	var a assetAnalyzeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Threshold == 0 {
		a.Threshold = palette.DefaultThreshold
	}
	img, err := s.loadImage(a.imageSource)
	if err != nil {
		return nil, err
	}
	res := &assetAnalyzeResult{
		Analysis: palette.Analyze(img, a.Quantize, a.Threshold),
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
	}
	if a.Path != "" {
		if res.File, err = imaging.LoadImageInfo(s.cache, a.Path); err != nil {
			return nil, err
		}
	}
	return res, nil
}

type assetListArgs struct {
	Folder string `json:"folder"`
}

func (s *Server) handleAssetList(args json.RawMessage) (interface{}, error) {
	var a assetListArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if s.db == nil {
		return nil, errNoLibrary
	}
	folders, err := s.db.Folders()
	if err != nil {
		return nil, err
	}
	assets, err := s.db.List(a.Folder)
	if err != nil {
		return nil, err
	}
	if folders == nil {
		folders = []string{}
	}
	if assets == nil {
		assets = []store.Summary{}
	}
	return map[string]interface{}{
		"folders": folders,
		"assets":  assets,
	}, nil
}

type assetDeleteArgs struct {
	Folder string `json:"folder"`
	Name   string `json:"name"`
	// MoveTo re-files the asset instead of deleting it.
	MoveTo string `json:"move_to"`
}

func (s *Server) handleAssetDelete(args json.RawMessage) (interface{}, error) {
	var a assetDeleteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if s.db == nil {
		return nil, errNoLibrary
	}
	if a.MoveTo != "" {
		if err := s.db.Move(a.Folder, a.Name, a.MoveTo); err != nil {
			return nil, err
		}
		return map[string]interface{}{"moved": true, "folder": a.MoveTo, "name": a.Name}, nil
	}
	if err := s.db.Delete(a.Folder, a.Name); err != nil {
		return nil, err
	}
	return map[string]interface{}{"deleted": true, "folder": a.Folder, "name": a.Name}, nil
}

// === Palette Handlers ===

type paletteMatchArgs struct {
	imageSource
	// Reference lines use the reference palette file format.
	Reference     []string `json:"reference"`
	ReferencePath string   `json:"reference_path"`
}

func (s *Server) handlePaletteMatch(args json.RawMessage) (interface{}, error) {
	var a paletteMatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	ref, err := loadReference(a.Reference, a.ReferencePath)
	if err != nil {
		return nil, err
	}
	img, err := s.loadImage(a.imageSource)
	if err != nil {
		return nil, err
	}
	analysis := palette.Analyze(img, true, palette.DefaultThreshold)
	return palette.Match(analysis.Colors, ref), nil
}

func loadReference(lines []string, path string) ([]palette.ReferenceColor, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open reference palette: %w", err)
		}
		defer f.Close()
		return palette.ParseReference(f)
	}
	if len(lines) == 0 {
		return nil, errors.New("reference or reference_path is required")
	}
	return palette.ParseReference(strings.NewReader(strings.Join(lines, "\n")))
}

type paletteSuggestArgs struct {
	imageSource
	Count int `json:"count"`
}

func (s *Server) handlePaletteSuggest(args json.RawMessage) (interface{}, error) {
	var a paletteSuggestArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 8
	}
	if a.Count < 1 || a.Count > palette.MaxColors {
		return nil, fmt.Errorf("count %d out of range 1-%d", a.Count, palette.MaxColors)
	}
	img, err := s.loadImage(a.imageSource)
	if err != nil {
		return nil, err
	}
	colors := palette.Suggest(img, a.Count)
	if colors == nil {
		colors = []palette.Color{}
	}
	return map[string]interface{}{"colors": colors}, nil
}
