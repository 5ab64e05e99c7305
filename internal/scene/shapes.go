package scene

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Spiral is a flat extruded spiral about 8 units wide, centered on the origin.
func Spiral() (sdf.SDF3, error) {
	s, err := sdf.ArcSpiral2D(0.2, 0.2, 0.25*sdf.Pi, 6*sdf.Pi, 0.3)
	if err != nil {
		return nil, err
	}
	return sdf.Extrude3D(s, 1), nil
}

// Pedestal is a rounded box with a sphere resting on top, useful to check orientation (the sphere is "up").
func Pedestal() (sdf.SDF3, error) {
	box, err := sdf.Box3D(v3.Vec{X: 4, Y: 4, Z: 1}, 0.2)
	if err != nil {
		return nil, err
	}
	ball, err := sdf.Sphere3D(1.2)
	if err != nil {
		return nil, err
	}
	ball = sdf.Transform3D(ball, sdf.Translate3d(v3.Vec{Z: 1.5}))
	return sdf.Union3D(box, ball), nil
}
