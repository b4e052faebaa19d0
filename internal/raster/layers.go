package raster

import (
	"fmt"
	"image"
)

// Layer is one drawable surface in a Stack.
type Layer struct {
	ID      int
	Name    string
	Visible bool
	Surface *Surface
}

func (l *Layer) clone() *Layer {
	return &Layer{ID: l.ID, Name: l.Name, Visible: l.Visible, Surface: l.Surface.Clone()}
}

// Stack is an ordered set of layers, bottom first, plus the index of the
// layer that drawing tools write to. A Stack always holds at least one layer.
type Stack struct {
	width   int
	height  int
	layers  []*Layer
	current int
	nextID  int
}

// NewStack creates a stack with a single transparent "Background" layer.
func NewStack(width, height int) *Stack {
	st := &Stack{width: width, height: height}
	st.push("Background", New(width, height))
	return st
}

// StackFromSurface creates a single-layer stack that takes ownership of s.
func StackFromSurface(s *Surface) *Stack {
	st := &Stack{width: s.Width, height: s.Height}
	st.push("Background", s)
	return st
}

func (st *Stack) push(name string, s *Surface) *Layer {
	st.nextID++
	l := &Layer{ID: st.nextID, Name: name, Visible: true, Surface: s}
	st.layers = append(st.layers, l)
	st.current = len(st.layers) - 1
	return l
}

// Width returns the canvas width shared by every layer.
func (st *Stack) Width() int { return st.width }

// Height returns the canvas height shared by every layer.
func (st *Stack) Height() int { return st.height }

// Len returns the number of layers.
func (st *Stack) Len() int { return len(st.layers) }

// Layers returns the layers bottom first. The slice must not be modified.
func (st *Stack) Layers() []*Layer { return st.layers }

// CurrentIndex returns the index of the active layer.
func (st *Stack) CurrentIndex() int { return st.current }

// Current returns the active layer.
func (st *Stack) Current() *Layer { return st.layers[st.current] }

// Layer returns the layer at i, or nil when i is out of range.
func (st *Stack) Layer(i int) *Layer {
	if i < 0 || i >= len(st.layers) {
		return nil
	}
	return st.layers[i]
}

// Add appends a transparent layer on top and makes it current.
func (st *Stack) Add() *Layer {
	return st.push(fmt.Sprintf("Layer %d", st.nextID+1), New(st.width, st.height))
}

// Delete removes the current layer. It does nothing and returns false when
// only one layer remains.
func (st *Stack) Delete() bool {
	if len(st.layers) <= 1 {
		return false
	}
	copy(st.layers[st.current:], st.layers[st.current+1:])
	st.layers[len(st.layers)-1] = nil
	st.layers = st.layers[:len(st.layers)-1]
	if st.current >= len(st.layers) {
		st.current = len(st.layers) - 1
	}
	return true
}

// Select makes layer i current. Out-of-range indexes are ignored.
func (st *Stack) Select(i int) bool {
	if i < 0 || i >= len(st.layers) {
		return false
	}
	st.current = i
	return true
}

// SetVisibility shows or hides layer i without touching its pixels.
func (st *Stack) SetVisibility(i int, visible bool) bool {
	l := st.Layer(i)
	if l == nil {
		return false
	}
	l.Visible = visible
	return true
}

// Rename sets the name of layer i.
func (st *Stack) Rename(i int, name string) bool {
	l := st.Layer(i)
	if l == nil || name == "" {
		return false
	}
	l.Name = name
	return true
}

// MoveUp swaps the current layer with the one above it.
func (st *Stack) MoveUp() bool {
	if st.current >= len(st.layers)-1 {
		return false
	}
	st.layers[st.current], st.layers[st.current+1] = st.layers[st.current+1], st.layers[st.current]
	st.current++
	return true
}

// MoveDown swaps the current layer with the one below it.
func (st *Stack) MoveDown() bool {
	if st.current == 0 {
		return false
	}
	st.layers[st.current], st.layers[st.current-1] = st.layers[st.current-1], st.layers[st.current]
	st.current--
	return true
}

// Compose paints the visible layers bottom to top into a new surface.
// Transparent pixels let lower layers show through.
func (st *Stack) Compose() *Surface {
	out := New(st.width, st.height)
	for _, l := range st.layers {
		if !l.Visible {
			continue
		}
		out.DrawFrom(l.Surface, l.Surface.Bounds(), image.Point{})
	}
	return out
}

// Crop cuts every layer to r (clipped to the canvas). An empty intersection
// leaves the stack untouched and returns false.
func (st *Stack) Crop(r image.Rectangle) bool {
	r = r.Intersect(image.Rect(0, 0, st.width, st.height))
	if r.Empty() {
		return false
	}
	for _, l := range st.layers {
		l.Surface = l.Surface.Crop(r)
	}
	st.width, st.height = r.Dx(), r.Dy()
	return true
}

// Clone returns a deep copy of the stack. Nothing in the copy aliases st.
func (st *Stack) Clone() *Stack {
	c := &Stack{
		width:   st.width,
		height:  st.height,
		layers:  make([]*Layer, len(st.layers)),
		current: st.current,
		nextID:  st.nextID,
	}
	for i, l := range st.layers {
		c.layers[i] = l.clone()
	}
	return c
}

// Restore replaces the contents of st with a deep copy of from.
func (st *Stack) Restore(from *Stack) {
	c := from.Clone()
	st.width, st.height = c.width, c.height
	st.layers = c.layers
	st.current = c.current
	st.nextID = c.nextID
}
