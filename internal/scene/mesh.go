// Package scene turns SDF solids into meshes and rasterizes them on the CPU with the camera's matrices.
package scene

import (
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/fogleman/fauxgl"
	"log"
)

// Mesh triangulates s and smooths normals of adjacent faces closer than smoothRadians.
// SDF space is Z-up; the mesh is Y-up (Y and Z are swapped).
func Mesh(s sdf.SDF3, meshGenerator render.Render3, smoothRadians float64) *fauxgl.Mesh {
	log.Println("[Engine] Meshing SDF...")
	var triangles []*fauxgl.Triangle
	triChan := make(chan []*sdf.Triangle3)
	go func() {
		meshGenerator.Render(s, triChan)
		close(triChan)
	}()
	for tris := range triChan {
		for _, tri := range tris {
			triangles = append(triangles, convertTriangle(tri))
		}
	}
	mesh := fauxgl.NewTriangleMesh(triangles)
	if smoothRadians > 0 {
		mesh.SmoothNormalsThreshold(smoothRadians)
	}
	log.Println("[Engine] Mesh is ready:", len(mesh.Triangles), "triangles")
	return mesh
}

// MeshCells triangulates s with uniform marching cubes, using cells divisions along its longest side.
func MeshCells(s sdf.SDF3, cells int, smoothRadians float64) *fauxgl.Mesh {
	return Mesh(s, render.NewMarchingCubesUniform(cells), smoothRadians)
}

func convertTriangle(tri *sdf.Triangle3) *fauxgl.Triangle {
	normal := toVector(tri.Normal())
	return &fauxgl.Triangle{
		V1: fauxgl.Vertex{Position: toVector(tri.V[0]), Normal: normal, Color: fauxgl.Gray(1)},
		V2: fauxgl.Vertex{Position: toVector(tri.V[1]), Normal: normal, Color: fauxgl.Gray(1)},
		V3: fauxgl.Vertex{Position: toVector(tri.V[2]), Normal: normal, Color: fauxgl.Gray(1)},
	}
}

func toVector(v v3.Vec) fauxgl.Vector {
	return fauxgl.Vector{X: v.X, Y: v.Z, Z: v.Y}
}
