package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"

	"go.uber.org/zap"

	"github.com/ironsheep/pixelkit/internal/editor"
	"github.com/ironsheep/pixelkit/internal/imaging"
	"github.com/ironsheep/pixelkit/internal/importer"
	"github.com/ironsheep/pixelkit/internal/palette"
	"github.com/ironsheep/pixelkit/internal/raster"
)

// Canvas sizes accepted by editor_open for a blank canvas.
const (
	defaultCanvasSize = 16
	maxCanvasSize     = 256
)

var errNoSession = errors.New("no editor session; call editor_open first")

// session is the single open editor canvas.
type session struct {
	name   string
	folder string
	engine *editor.Engine
}

func (s *Server) engine() (*editor.Engine, error) {
	if s.session == nil {
		return nil, errNoSession
	}
	return s.session.engine, nil
}

type layerState struct {
	Index   int    `json:"index"`
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
	Current bool   `json:"current"`
}

type rectState struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

type editorState struct {
	Name       string                `json:"name"`
	Folder     string                `json:"folder,omitempty"`
	Width      int                   `json:"width"`
	Height     int                   `json:"height"`
	Tool       string                `json:"tool"`
	Phase      string                `json:"phase"`
	Primary    palette.Color         `json:"primary"`
	Secondary  palette.Color         `json:"secondary"`
	FillShapes bool                  `json:"fill_shapes"`
	Layers     []layerState          `json:"layers"`
	CanUndo    bool                  `json:"can_undo"`
	CanRedo    bool                  `json:"can_redo"`
	Floating   bool                  `json:"floating"`
	Crop       *rectState            `json:"crop,omitempty"`
	Colors     []palette.Color       `json:"colors"`
	ColorMap   palette.ColorMap      `json:"color_map"`
	Preview    *imaging.RenderResult `json:"preview,omitempty"`
}

// actionResult reports what one editor call changed plus the resulting state.
type actionResult struct {
	Changed   bool                 `json:"changed"`
	Committed bool                 `json:"committed"`
	Picked    *imaging.ColorResult `json:"picked,omitempty"`
	State     *editorState         `json:"state"`
}

// state snapshots the session. A positive zoom adds a preview, with a pixel
// grid when grid is set.
func (s *Server) state(zoom int, grid *imaging.Grid) (*editorState, error) {
	e := s.session.engine
	st := e.Stack()
	opts := e.Options()

	layers := make([]layerState, st.Len())
	for i, l := range st.Layers() {
		layers[i] = layerState{
			Index:   i,
			ID:      l.ID,
			Name:    l.Name,
			Visible: l.Visible,
			Current: i == st.CurrentIndex(),
		}
	}

	analysis := palette.Analyze(st.Compose(), false, 0)
	out := &editorState{
		Name:       s.session.name,
		Folder:     s.session.folder,
		Width:      st.Width(),
		Height:     st.Height(),
		Tool:       e.Tool().String(),
		Phase:      e.Phase().String(),
		Primary:    opts.Primary,
		Secondary:  opts.Secondary,
		FillShapes: opts.FillShapes,
		Layers:     layers,
		CanUndo:    e.CanUndo(),
		CanRedo:    e.CanRedo(),
		Floating:   e.Floating(),
		Colors:     analysis.Colors,
		ColorMap:   analysis.ColorMap,
	}
	if box := e.CropBox(); box != nil {
		out.Crop = &rectState{X1: box.Rect.Min.X, Y1: box.Rect.Min.Y, X2: box.Rect.Max.X, Y2: box.Rect.Max.Y}
	}
	if zoom > 0 {
		var preview *imaging.RenderResult
		var err error
		if grid != nil {
			preview, err = imaging.RenderGrid(e.Preview(), zoom, *grid)
		} else {
			preview, err = imaging.Render(e.Preview(), zoom)
		}
		if err != nil {
			return nil, err
		}
		out.Preview = preview
	}
	return out, nil
}

func (s *Server) result(fx editor.Effects, changed bool) (interface{}, error) {
	st, err := s.state(0, nil)
	if err != nil {
		return nil, err
	}
	return &actionResult{
		Changed:   changed || fx.Committed || fx.LayersChanged || fx.OverlayChanged,
		Committed: fx.Committed,
		State:     st,
	}, nil
}

// === Editor Session Handlers ===

type editorOpenArgs struct {
	imageSource
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleEditorOpen(args json.RawMessage) (interface{}, error) {
	var a editorOpenArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var surface *raster.Surface
	if a.Path != "" || a.DataURL != "" || (a.Name != "" && a.Width == 0 && a.Height == 0) {
		img, err := s.loadImage(a.imageSource)
		if err != nil {
			return nil, err
		}
		surface = raster.FromImage(img)
	} else {
		if a.Width == 0 {
			a.Width = defaultCanvasSize
		}
		if a.Height == 0 {
			a.Height = a.Width
		}
		if a.Width < 1 || a.Height < 1 || a.Width > maxCanvasSize || a.Height > maxCanvasSize {
			return nil, fmt.Errorf("canvas %dx%d out of range 1-%d", a.Width, a.Height, maxCanvasSize)
		}
		surface = raster.New(a.Width, a.Height)
	}

	name := a.Name
	if name == "" && a.Path != "" {
		name = importer.NameFromPath(a.Path)
	}
	if name == "" {
		name = "untitled"
	}

	opts := editor.DefaultOptions()
	if s.session != nil {
		opts = s.session.engine.Options()
	}
	s.session = &session{
		name:   name,
		folder: a.Folder,
		engine: editor.New(raster.StackFromSurface(surface), opts),
	}
	s.log.Debug("editor session opened",
		zap.String("name", name),
		zap.Int("width", surface.Width),
		zap.Int("height", surface.Height))

	return s.state(0, nil)
}

type editorSetToolArgs struct {
	Tool       string `json:"tool"`
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	FillShapes *bool  `json:"fill_shapes"`
}

func (s *Server) handleEditorSetTool(args json.RawMessage) (interface{}, error) {
	var a editorSetToolArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.engine()
	if err != nil {
		return nil, err
	}

	opts := e.Options()
	if a.Primary != "" {
		if opts.Primary, err = palette.ParseColor(a.Primary); err != nil {
			return nil, fmt.Errorf("primary: %w", err)
		}
	}
	if a.Secondary != "" {
		if opts.Secondary, err = palette.ParseColor(a.Secondary); err != nil {
			return nil, fmt.Errorf("secondary: %w", err)
		}
	}
	if a.FillShapes != nil {
		opts.FillShapes = *a.FillShapes
	}

	var fx editor.Effects
	if a.Tool != "" {
		tool, err := editor.ParseTool(a.Tool)
		if err != nil {
			return nil, err
		}
		fx = e.SetTool(tool)
	}
	changed := opts != e.Options()
	e.SetOptions(opts)
	return s.result(fx, changed)
}

type editorPointerArgs struct {
	Action string `json:"action"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Button string `json:"button"`
}

func parseButton(s string) (editor.Button, error) {
	switch s {
	case "", "primary", "left":
		return editor.ButtonPrimary, nil
	case "secondary", "right":
		return editor.ButtonSecondary, nil
	default:
		return 0, fmt.Errorf("unknown button %q", s)
	}
}

func (s *Server) handleEditorPointer(args json.RawMessage) (interface{}, error) {
	var a editorPointerArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.engine()
	if err != nil {
		return nil, err
	}

	pt := image.Pt(a.X, a.Y)
	var fx editor.Effects
	switch a.Action {
	case "press":
		b, err := parseButton(a.Button)
		if err != nil {
			return nil, err
		}
		fx = e.OnPress(pt, b)
	case "move":
		fx = e.OnMove(pt)
	case "release":
		fx = e.OnRelease(pt)
	default:
		return nil, fmt.Errorf("unknown pointer action %q (want press, move or release)", a.Action)
	}

	res, err := s.result(fx, false)
	if err != nil {
		return nil, err
	}
	if fx.Picked != "" {
		picked, err := imaging.SampleColor(e.Stack().Compose(), a.X, a.Y)
		if err != nil {
			return nil, err
		}
		r := res.(*actionResult)
		r.Changed = true
		r.Picked = picked
	}
	return res, nil
}

type editorLayerArgs struct {
	Action  string `json:"action"`
	Index   *int   `json:"index"`
	Name    string `json:"name"`
	Visible *bool  `json:"visible"`
}

func (s *Server) handleEditorLayer(args json.RawMessage) (interface{}, error) {
	var a editorLayerArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.engine()
	if err != nil {
		return nil, err
	}

	index := e.Stack().CurrentIndex()
	if a.Index != nil {
		index = *a.Index
	}
	if index < 0 || index >= e.Stack().Len() {
		return nil, fmt.Errorf("layer %d out of range 0-%d", index, e.Stack().Len()-1)
	}

	var fx editor.Effects
	changed := false
	switch a.Action {
	case "add":
		fx = e.AddLayer()
	case "delete":
		fx = e.DeleteLayer()
	case "select":
		changed = e.SelectLayer(index)
	case "visibility":
		if a.Visible == nil {
			return nil, errors.New("visible is required")
		}
		fx = e.SetLayerVisibility(index, *a.Visible)
	case "rename":
		if a.Name == "" {
			return nil, errors.New("name is required")
		}
		changed = e.RenameLayer(index, a.Name)
	case "up":
		fx = e.MoveLayerUp()
	case "down":
		fx = e.MoveLayerDown()
	default:
		return nil, fmt.Errorf("unknown layer action %q", a.Action)
	}
	return s.result(fx, changed)
}

type editorActionArgs struct {
	Action string `json:"action"`
}

func (s *Server) handleEditorHistory(args json.RawMessage) (interface{}, error) {
	var a editorActionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.engine()
	if err != nil {
		return nil, err
	}

	switch a.Action {
	case "undo":
		return s.result(e.Undo(), false)
	case "redo":
		return s.result(e.Redo(), false)
	default:
		return nil, fmt.Errorf("unknown history action %q (want undo or redo)", a.Action)
	}
}

func (s *Server) handleEditorCrop(args json.RawMessage) (interface{}, error) {
	var a editorActionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.engine()
	if err != nil {
		return nil, err
	}
	if e.Tool() != editor.ToolCrop {
		return nil, errors.New("crop tool is not active")
	}

	switch a.Action {
	case "confirm":
		return s.result(e.ConfirmCrop(), false)
	case "cancel":
		return s.result(e.CancelCrop(), false)
	default:
		return nil, fmt.Errorf("unknown crop action %q (want confirm or cancel)", a.Action)
	}
}

func (s *Server) handleEditorLasso(args json.RawMessage) (interface{}, error) {
	var a editorActionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.engine()
	if err != nil {
		return nil, err
	}
	if !e.Floating() {
		return nil, errors.New("no lasso selection")
	}

	switch a.Action {
	case "move":
		return s.result(e.LassoMove(), false)
	case "cut":
		return s.result(e.LassoCut(), false)
	case "cancel":
		return s.result(e.LassoCancel(), true)
	default:
		return nil, fmt.Errorf("unknown lasso action %q (want move, cut or cancel)", a.Action)
	}
}

type editorStateArgs struct {
	Zoom       int    `json:"zoom"`
	Grid       bool   `json:"grid"`
	GridColor  string `json:"grid_color"`
	GridLabels bool   `json:"grid_labels"`
}

func (s *Server) handleEditorState(args json.RawMessage) (interface{}, error) {
	var a editorStateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if s.session == nil {
		return nil, errNoSession
	}
	if !a.Grid {
		return s.state(a.Zoom, nil)
	}
	if a.Zoom < 2 {
		return nil, fmt.Errorf("grid needs a zoom of at least 2")
	}
	return s.state(a.Zoom, &imaging.Grid{Color: a.GridColor, Labels: a.GridLabels})
}

type editorSaveArgs struct {
	Path   string `json:"path"`
	Folder string `json:"folder"`
	Name   string `json:"name"`
	Store  bool   `json:"store"`
}

type editorSaveResult struct {
	*editor.SaveResult
	Path    string `json:"path,omitempty"`
	ID      int64  `json:"id,omitempty"`
	DataURL string `json:"data_url"`
}

func (s *Server) handleEditorSave(args json.RawMessage) (interface{}, error) {
	var a editorSaveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	e, err := s.engine()
	if err != nil {
		return nil, err
	}

	saved, err := e.Save()
	if err != nil {
		return nil, err
	}
	res := &editorSaveResult{SaveResult: saved, DataURL: imaging.PNGDataURL(saved.PNG)}

	if a.Path != "" {
		if err := os.WriteFile(a.Path, saved.PNG, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", a.Path, err)
		}
		s.cache.Evict(a.Path)
		res.Path = a.Path
	}

	if a.Store {
		if s.db == nil {
			return nil, errNoLibrary
		}
		if a.Name == "" {
			a.Name = s.session.name
		}
		if a.Folder == "" {
			a.Folder = s.session.folder
		}
		analysis := &palette.Analysis{Colors: saved.Colors, ColorMap: saved.ColorMap, OriginalColorCount: saved.ColorCount}
		if err := importer.Validate(saved.Width, saved.Height, analysis); err != nil {
			return nil, err
		}
		id, err := s.db.Put(&importer.Record{
			Name:               a.Name,
			Folder:             a.Folder,
			Width:              saved.Width,
			Height:             saved.Height,
			PNG:                saved.PNG,
			Colors:             saved.Colors,
			ColorMap:           saved.ColorMap,
			OriginalColorCount: saved.ColorCount,
			Scale:              1,
		})
		if err != nil {
			return nil, err
		}
		res.ID = id
		s.session.name, s.session.folder = a.Name, a.Folder
		s.log.Info("stored canvas", zap.String("folder", a.Folder), zap.String("name", a.Name), zap.Int64("id", id))
	}
	return res, nil
}
