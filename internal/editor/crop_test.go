package editor

import (
	"image"
	"testing"
)

func TestCropBox_HandleAt(t *testing.T) {
	c := NewCropBox(image.Rect(0, 0, 16, 16))

	tests := []struct {
		name string
		p    image.Point
		want Handle
	}{
		{"top-left corner", image.Pt(0, 0), HandleTopLeft},
		{"bottom-right within tolerance", image.Pt(15, 15), HandleBottomRight},
		{"top edge midpoint", image.Pt(8, 0), HandleTop},
		{"left edge midpoint", image.Pt(0, 8), HandleLeft},
		{"right edge midpoint", image.Pt(15, 8), HandleRight},
		{"interior", image.Pt(8, 8), HandleMove},
		{"outside", image.Pt(20, 20), HandleNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.HandleAt(tt.p); got != tt.want {
				t.Errorf("HandleAt(%v): got %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestCropBox_Resize(t *testing.T) {
	c := NewCropBox(image.Rect(0, 0, 16, 16))

	c.Begin(image.Pt(0, 0))
	c.Drag(image.Pt(4, 2))
	c.End()

	if want := image.Rect(4, 2, 16, 16); c.Rect != want {
		t.Errorf("Rect: got %v, want %v", c.Rect, want)
	}
	if c.Grabbed() != HandleNone {
		t.Error("End should release the handle")
	}
}

func TestCropBox_MinimumSize(t *testing.T) {
	c := NewCropBox(image.Rect(0, 0, 16, 16))

	c.Begin(image.Pt(15, 15))
	c.Drag(image.Pt(-100, -100))

	if want := image.Rect(0, 0, 1, 1); c.Rect != want {
		t.Errorf("Rect: got %v, want %v", c.Rect, want)
	}
}

func TestCropBox_MoveStaysInBounds(t *testing.T) {
	c := NewCropBox(image.Rect(0, 0, 16, 16))
	c.Begin(image.Pt(0, 0))
	c.Drag(image.Pt(8, 8))
	c.End()

	if !c.Begin(image.Pt(12, 12)) || c.Grabbed() != HandleMove {
		t.Fatalf("interior press grabbed %v", c.Grabbed())
	}
	c.Drag(image.Pt(0, 0))

	if want := image.Rect(0, 0, 8, 8); c.Rect != want {
		t.Errorf("Rect: got %v, want %v", c.Rect, want)
	}
}

func TestEngine_ConfirmCrop(t *testing.T) {
	e := createTestEngine(16, 16)
	layerPixels(e).Set(5, 5, red)
	e.History().Reset(e.Stack())
	e.AddLayer()
	e.SetTool(ToolCrop)

	drag(e, ButtonPrimary, image.Pt(0, 0), image.Pt(4, 4))
	if want := image.Rect(4, 4, 16, 16); e.CropBox().Rect != want {
		t.Fatalf("crop box: got %v, want %v", e.CropBox().Rect, want)
	}

	fx := e.ConfirmCrop()

	if !fx.Committed {
		t.Fatal("ConfirmCrop should commit")
	}
	if e.Stack().Width() != 12 || e.Stack().Height() != 12 {
		t.Errorf("canvas: got %dx%d, want 12x12", e.Stack().Width(), e.Stack().Height())
	}
	for i, l := range e.Stack().Layers() {
		if l.Surface.Width != 12 || l.Surface.Height != 12 {
			t.Errorf("layer %d: got %dx%d", i, l.Surface.Width, l.Surface.Height)
		}
	}
	if e.Overlay().Width != 12 {
		t.Errorf("overlay width: got %d, want 12", e.Overlay().Width)
	}
	if got := e.Stack().Layer(0).Surface.Get(1, 1); got != red {
		t.Errorf("shifted pixel: got %v, want %v", got, red)
	}
	if e.CropBox().Rect != image.Rect(0, 0, 12, 12) {
		t.Errorf("crop box should reset to the new canvas, got %v", e.CropBox().Rect)
	}

	e.Undo()
	if e.Stack().Width() != 16 {
		t.Errorf("undo should restore the canvas size, got %d", e.Stack().Width())
	}
}

func TestEngine_CancelCrop(t *testing.T) {
	e := createTestEngine(16, 16)
	e.SetTool(ToolCrop)
	drag(e, ButtonPrimary, image.Pt(15, 15), image.Pt(10, 10))

	e.CancelCrop()

	if e.CropBox().Rect != image.Rect(0, 0, 16, 16) {
		t.Errorf("cancel should reset the box, got %v", e.CropBox().Rect)
	}
	if fx := e.ConfirmCrop(); fx.Committed {
		t.Error("confirming the full canvas should be a no-op")
	}
	if e.History().Len() != 1 {
		t.Errorf("history length: got %d, want 1", e.History().Len())
	}
}

func TestEngine_CropOnlyInCropMode(t *testing.T) {
	e := createTestEngine(8, 8)
	if e.CropBox() != nil {
		t.Error("no crop box outside crop mode")
	}
	if e.ConfirmCrop().Committed {
		t.Error("ConfirmCrop outside crop mode should be a no-op")
	}
}
