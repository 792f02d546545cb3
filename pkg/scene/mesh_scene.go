package scene

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
)

// plyScale shrinks PLY models, which are usually authored in larger units
const plyScale = 1.0 / 20.0

// NewMeshScene creates a triangle mesh on a mirror floor under a sky
// gradient. With opts.MeshPath set the mesh is loaded from a PLY file and
// shaded with its vertex normals; otherwise a few procedural meshes are used.
func NewMeshScene(opts Options, rng *rand.Rand) (*Scene, error) {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(7, 3, -7),
		LookAt:        core.NewVec3(0, -0.5, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	s := New(
		geometry.MergeCameraConfig(defaultCameraConfig, opts.Camera),
		SamplingConfig{SamplesPerPixel: 100, MaxDepth: 5},
		SkyBackground(),
	)

	addMirrorFloor(s, -0.5)

	if opts.MeshPath == "" {
		if err := addProceduralMeshes(s, rng); err != nil {
			return nil, err
		}
		return s, nil
	}

	mesh, err := loadPLYMesh(opts.MeshPath, material.NewLambertian(core.NewVec3(0.7, 0.2, 0.1)), rng)
	if err != nil {
		return nil, err
	}
	s.Add(mesh)
	return s, nil
}

// addMirrorFloor adds two huge triangles forming a mirror floor at height y
func addMirrorFloor(s *Scene, y float64) {
	mirror := material.NewMetal(core.NewVec3(0.5, 0.5, 0.5), 0.0)
	s.Add(
		geometry.NewTriangle(core.NewVec3(1000, y, 0), core.NewVec3(0, y, -1000), core.NewVec3(0, y, 1000), mirror),
		geometry.NewTriangle(core.NewVec3(0, y, -1000), core.NewVec3(-1000, y, 0), core.NewVec3(0, y, 1000), mirror),
	)
}

// loadPLYMesh loads a PLY file as a triangle mesh, using its vertex normals
// for smooth shading when present
func loadPLYMesh(path string, mat material.Material, rng *rand.Rand) (*geometry.TriangleMesh, error) {
	plyData, err := loaders.LoadPLY(path)
	if err != nil {
		return nil, fmt.Errorf("loading mesh: %w", err)
	}

	options := &geometry.TriangleMeshOptions{
		Scale:         plyScale,
		SmoothNormals: true,
	}
	if len(plyData.Normals) > 0 {
		options.VertexNormals = plyData.Normals
	}

	mesh, err := geometry.NewTriangleMesh(plyData.Vertices, plyData.Faces, mat, options, rng)
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", path, err)
	}
	logger.Infof("Created mesh from %s with %d triangles", path, mesh.TriangleCount())
	return mesh, nil
}

// addProceduralMeshes adds a box, a pyramid and a smooth icosahedron
func addProceduralMeshes(s *Scene, rng *rand.Rand) error {
	redMetal := material.NewMetal(core.NewVec3(0.8, 0.2, 0.2), 0.1)
	blueLambertian := material.NewLambertian(core.NewVec3(0.2, 0.3, 0.8))
	orange := material.NewLambertian(core.NewVec3(0.7, 0.2, 0.1))

	box, err := createBoxMesh(
		core.NewVec3(0, 0, 1.2),       // center (sitting on the floor)
		core.NewVec3(1, 1, 1),         // size
		core.NewVec3(0, math.Pi/6, 0), // rotation (30° around Y-axis)
		redMetal, rng,
	)
	if err != nil {
		return err
	}

	pyramid, err := createPyramidMesh(
		core.NewVec3(0, 0.25, -1.2),   // center
		1.2,                           // base size
		1.5,                           // height
		core.NewVec3(0, math.Pi/4, 0), // rotation (45° around Y-axis)
		blueLambertian, rng,
	)
	if err != nil {
		return err
	}

	icosahedron, err := createIcosahedronMesh(
		core.NewVec3(0, 0.2, 0), // center
		0.7,                     // radius
		orange, rng,
	)
	if err != nil {
		return err
	}

	s.Add(box, pyramid, icosahedron)
	return nil
}

// createBoxMesh creates a triangle mesh representing a box
func createBoxMesh(center, size, rotation core.Vec3, mat material.Material, rng *rand.Rand) (*geometry.TriangleMesh, error) {
	// Calculate the 8 corners of the box
	halfSize := size.Multiply(0.5)
	vertices := []core.Vec3{
		center.Add(core.NewVec3(-halfSize.X, -halfSize.Y, -halfSize.Z)), // 0: left-bottom-back
		center.Add(core.NewVec3(+halfSize.X, -halfSize.Y, -halfSize.Z)), // 1: right-bottom-back
		center.Add(core.NewVec3(+halfSize.X, +halfSize.Y, -halfSize.Z)), // 2: right-top-back
		center.Add(core.NewVec3(-halfSize.X, +halfSize.Y, -halfSize.Z)), // 3: left-top-back
		center.Add(core.NewVec3(-halfSize.X, -halfSize.Y, +halfSize.Z)), // 4: left-bottom-front
		center.Add(core.NewVec3(+halfSize.X, -halfSize.Y, +halfSize.Z)), // 5: right-bottom-front
		center.Add(core.NewVec3(+halfSize.X, +halfSize.Y, +halfSize.Z)), // 6: right-top-front
		center.Add(core.NewVec3(-halfSize.X, +halfSize.Y, +halfSize.Z)), // 7: left-top-front
	}

	// 2 triangles per face
	faces := []int{
		0, 1, 2, 0, 2, 3, // back (Z-)
		4, 6, 5, 4, 7, 6, // front (Z+)
		0, 3, 7, 0, 7, 4, // left (X-)
		1, 5, 6, 1, 6, 2, // right (X+)
		0, 4, 5, 0, 5, 1, // bottom (Y-)
		3, 2, 6, 3, 6, 7, // top (Y+)
	}

	return geometry.NewTriangleMesh(vertices, faces, mat, &geometry.TriangleMeshOptions{
		Rotation: &rotation,
		Center:   &center,
	}, rng)
}

// createPyramidMesh creates a triangle mesh representing a square pyramid
func createPyramidMesh(center core.Vec3, baseSize, height float64, rotation core.Vec3, mat material.Material, rng *rand.Rand) (*geometry.TriangleMesh, error) {
	halfBase := baseSize * 0.5
	halfHeight := height * 0.5

	vertices := []core.Vec3{
		center.Add(core.NewVec3(-halfBase, -halfHeight, -halfBase)), // 0: left-back
		center.Add(core.NewVec3(+halfBase, -halfHeight, -halfBase)), // 1: right-back
		center.Add(core.NewVec3(+halfBase, -halfHeight, +halfBase)), // 2: right-front
		center.Add(core.NewVec3(-halfBase, -halfHeight, +halfBase)), // 3: left-front
		center.Add(core.NewVec3(0, +halfHeight, 0)),                 // 4: apex
	}

	faces := []int{
		0, 2, 1, 0, 3, 2, // base
		0, 1, 4, // back
		1, 2, 4, // right
		2, 3, 4, // front
		3, 0, 4, // left
	}

	return geometry.NewTriangleMesh(vertices, faces, mat, &geometry.TriangleMeshOptions{
		Rotation: &rotation,
		Center:   &center,
	}, rng)
}

// createIcosahedronMesh creates a smooth-shaded icosahedron
func createIcosahedronMesh(center core.Vec3, radius float64, mat material.Material, rng *rand.Rand) (*geometry.TriangleMesh, error) {
	phi := math.Phi
	// (±1, ±phi, 0) lies at distance sqrt(1 + phi^2) from the origin
	scale := radius / math.Sqrt(1+phi*phi)

	raw := []core.Vec3{
		core.NewVec3(-1, phi, 0),  // 0
		core.NewVec3(1, phi, 0),   // 1
		core.NewVec3(-1, -phi, 0), // 2
		core.NewVec3(1, -phi, 0),  // 3
		core.NewVec3(0, -1, phi),  // 4
		core.NewVec3(0, 1, phi),   // 5
		core.NewVec3(0, -1, -phi), // 6
		core.NewVec3(0, 1, -phi),  // 7
		core.NewVec3(phi, 0, -1),  // 8
		core.NewVec3(phi, 0, 1),   // 9
		core.NewVec3(-phi, 0, -1), // 10
		core.NewVec3(-phi, 0, 1),  // 11
	}

	faces := []int{
		// 5 faces around point 0
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		// 5 adjacent faces
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		// 5 faces around point 3
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		// 5 adjacent faces
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	return geometry.NewTriangleMesh(raw, faces, mat, &geometry.TriangleMeshOptions{
		SmoothNormals: true,
		Scale:         scale,
		Translate:     center,
	}, rng)
}
