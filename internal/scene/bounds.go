package scene

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/fogleman/fauxgl"
	"github.com/mitchellh/reflectwalk"
	"reflect"
	"unsafe"
)

var sdf3Type = reflect.TypeOf((*sdf.SDF3)(nil)).Elem()

// Bounds lists the bounding boxes of solid and of every solid it is built from, parents before children.
// Solids below a transform are skipped: their boxes are not in world space.
// Reflection is slow: call it once per solid.
func Bounds(solid sdf.SDF3) []sdf.Box3 {
	w := &boundsWalker{skipBelow: -1}
	if err := reflectwalk.Walk([]interface{}{solid} /* <-- Wrapper for root to work */, w); err != nil {
		panic(err) // Shouldn't happen
	}
	return w.boxes
}

// BoundsMesh converts boxes to outlines in mesh space (Y-up).
func BoundsMesh(boxes []sdf.Box3) *fauxgl.Mesh {
	mesh := &fauxgl.Mesh{}
	for _, bb := range boxes {
		outline := fauxgl.NewCubeOutlineForBox(fauxgl.Box{Min: toVector(bb.Min), Max: toVector(bb.Max)})
		mesh.Lines = append(mesh.Lines, outline.Lines...)
	}
	return mesh
}

// boundsWalker records SDF3 values found in interface fields, tracking the nesting level to skip subtrees
type boundsWalker struct {
	level, skipBelow int
	boxes            []sdf.Box3
}

func (w *boundsWalker) Enter(_ reflectwalk.Location) error {
	w.level++
	return nil
}

func (w *boundsWalker) Exit(_ reflectwalk.Location) error {
	w.level--
	if w.skipBelow >= 0 && w.level <= w.skipBelow {
		w.skipBelow = -1
	}
	return nil
}

func (w *boundsWalker) Interface(value reflect.Value) error {
	if w.skipBelow >= 0 || value.IsNil() {
		return nil
	}
	if !value.CanInterface() {
		if !value.CanAddr() {
			return nil
		}
		// Read-only access to an unexported field
		value = reflect.NewAt(value.Type(), unsafe.Pointer(value.UnsafeAddr())).Elem()
	}
	elem := value.Elem()
	if !elem.Type().Implements(sdf3Type) {
		return nil
	}
	s := elem.Interface().(sdf.SDF3)
	w.boxes = append(w.boxes, s.BoundingBox())
	switch s.(type) {
	case *sdf.TransformSDF3, *sdf.ScaleUniformSDF3:
		w.skipBelow = w.level
	}
	return nil
}
