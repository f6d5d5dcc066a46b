package converter

import (
	"path/filepath"

	"github.com/binzume/emjconv/geom"
	"github.com/binzume/emjconv/logger"
	"github.com/binzume/emjconv/scene"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
)

type SceneToGLTFOption struct {
	Scale      float32 // Default: 1/16 (one block)
	ForceUnlit bool

	Texture      string // image file, optional
	TextureScale float32
}

type sceneToGltf struct {
	*SceneToGLTFOption
	*gltf.Document
	material *uint32
}

func NewSceneToGLTFConverter(options *SceneToGLTFOption) *sceneToGltf {
	if options == nil {
		options = &SceneToGLTFOption{}
	}
	if options.Scale == 0 {
		options.Scale = 1.0 / 16
	}
	if options.TextureScale == 0 {
		options.TextureScale = 1.0
	}
	return &sceneToGltf{
		SceneToGLTFOption: options,
		Document:          gltf.NewDocument(),
	}
}

type boxFace struct {
	normal  [3]float32
	corners [4][3]int // index into {from, to} per axis: TL, TR, BR, BL
	uv      func(u, v, sx, sy, sz float64) (u1, v1, u2, v2 float64)
	mirror  int // face used instead when mirrored
}

// Faces in the order north, east, south, west, up, down. Box UV layout:
//
//	      [up][down]
//	[east][north][west][south]
var boxFaces = [6]boxFace{
	{[3]float32{0, 0, -1}, [4][3]int{{1, 1, 0}, {0, 1, 0}, {0, 0, 0}, {1, 0, 0}},
		func(u, v, sx, sy, sz float64) (float64, float64, float64, float64) {
			return u + sz, v + sz, u + sz + sx, v + sz + sy
		}, 0},
	{[3]float32{1, 0, 0}, [4][3]int{{1, 1, 1}, {1, 1, 0}, {1, 0, 0}, {1, 0, 1}},
		func(u, v, sx, sy, sz float64) (float64, float64, float64, float64) {
			return u, v + sz, u + sz, v + sz + sy
		}, 3},
	{[3]float32{0, 0, 1}, [4][3]int{{0, 1, 1}, {1, 1, 1}, {1, 0, 1}, {0, 0, 1}},
		func(u, v, sx, sy, sz float64) (float64, float64, float64, float64) {
			return u + sz*2 + sx, v + sz, u + sz*2 + sx*2, v + sz + sy
		}, 2},
	{[3]float32{-1, 0, 0}, [4][3]int{{0, 1, 0}, {0, 1, 1}, {0, 0, 1}, {0, 0, 0}},
		func(u, v, sx, sy, sz float64) (float64, float64, float64, float64) {
			return u + sz + sx, v + sz, u + sz*2 + sx, v + sz + sy
		}, 1},
	{[3]float32{0, 1, 0}, [4][3]int{{0, 1, 0}, {1, 1, 0}, {1, 1, 1}, {0, 1, 1}},
		func(u, v, sx, sy, sz float64) (float64, float64, float64, float64) {
			return u + sz, v, u + sz + sx, v + sz
		}, 4},
	{[3]float32{0, -1, 0}, [4][3]int{{1, 0, 0}, {0, 0, 0}, {0, 0, 1}, {1, 0, 1}},
		func(u, v, sx, sy, sz float64) (float64, float64, float64, float64) {
			return u + sz + sx, v, u + sz + sx*2, v + sz
		}, 5},
}

// cubeGeometry returns 24 vertices (4 per face) relative to origin.
func (m *sceneToGltf) cubeGeometry(c *scene.Cube, origin *geom.Vector3, tex scene.TextureSize) ([][3]float32, [][3]float32, [][2]float32, []uint16) {
	inflate := &geom.Vector3{X: c.Inflate, Y: c.Inflate, Z: c.Inflate}
	corners := [2]*geom.Vector3{
		c.From.Sub(inflate).Sub(origin).Scale(float64(m.Scale)),
		c.To.Add(inflate).Sub(origin).Scale(float64(m.Scale)),
	}
	size := c.Size()
	tw, th := c.TextureSize(tex)

	var positions, normals [][3]float32
	var texcoords [][2]float32
	var indices []uint16
	for i, f := range boxFaces {
		uvFace := f
		if c.MirrorUV {
			uvFace = boxFaces[f.mirror]
		}
		u1, v1, u2, v2 := uvFace.uv(c.UVOffset.X, c.UVOffset.Y, size.X, size.Y, size.Z)
		if c.MirrorUV {
			u1, u2 = u2, u1
		}
		uvs := [4][2]float32{
			{float32(u1 / tw), float32(v1 / th)},
			{float32(u2 / tw), float32(v1 / th)},
			{float32(u2 / tw), float32(v2 / th)},
			{float32(u1 / tw), float32(v2 / th)},
		}
		for j, sel := range f.corners {
			positions = append(positions, [3]float32{
				float32(corners[sel[0]].X), float32(corners[sel[1]].Y), float32(corners[sel[2]].Z),
			})
			normals = append(normals, f.normal)
			texcoords = append(texcoords, uvs[j])
		}
		b := uint16(i * 4)
		indices = append(indices, b, b+3, b+2, b, b+2, b+1)
	}
	return positions, normals, texcoords, indices
}

func (m *sceneToGltf) addCube(n *scene.Node, origin *geom.Vector3, tex scene.TextureSize) uint32 {
	positions, normals, texcoords, indices := m.cubeGeometry(n.Cube, origin, tex)
	attributes := map[string]uint32{
		"POSITION":   modeler.WritePosition(m.Document, positions),
		"TEXCOORD_0": modeler.WriteTextureCoord(m.Document, texcoords),
	}
	if !m.ForceUnlit {
		attributes["NORMAL"] = modeler.WriteNormal(m.Document, normals)
	}
	m.Meshes = append(m.Meshes, &gltf.Mesh{
		Name: n.Name,
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(modeler.WriteIndices(m.Document, indices)),
			Attributes: attributes,
			Material:   m.material,
		}},
	})
	m.Nodes = append(m.Nodes, &gltf.Node{
		Name:        n.Name,
		Mesh:        gltf.Index(uint32(len(m.Meshes) - 1)),
		Translation: [3]float32{0, 0, 0},
		Rotation:    [4]float32{0, 0, 0, 1},
		Scale:       [3]float32{1, 1, 1},
	})
	return uint32(len(m.Nodes) - 1)
}

// addNode adds n and its subtree. parentOrigin is the absolute origin of the
// parent group.
func (m *sceneToGltf) addNode(s *scene.Scene, n *scene.Node, parentOrigin *geom.Vector3) uint32 {
	switch n.Kind {
	case scene.KindCube:
		return m.addCube(n, parentOrigin, s.Texture)
	case scene.KindGroup:
	default:
		panic("unknown node kind")
	}
	g := n.Group
	t := g.Origin.Sub(parentOrigin).Scale(float64(m.Scale))
	q := geom.NewEulerFromDegrees(&g.Rotation, geom.RotationOrderZYX).ToQuaternion()
	node := &gltf.Node{
		Name:        n.Name,
		Translation: t.Float32(),
		Rotation:    q.Float32(),
		Scale:       [3]float32{1, 1, 1},
	}
	m.Nodes = append(m.Nodes, node)
	id := uint32(len(m.Nodes) - 1)
	for _, c := range s.ChildrenOf(n.ID) {
		node.Children = append(node.Children, m.addNode(s, c, &g.Origin))
	}
	return id
}

func (m *sceneToGltf) addTexture(path string) (*uint32, error) {
	img, err := LoadTexture(path)
	if err != nil {
		return nil, err
	}
	r, err := encodeTexture(img, m.TextureScale)
	if err != nil {
		return nil, err
	}
	index, err := modeler.WriteImage(m.Document, filepath.Base(path), "image/png", r)
	if err != nil {
		return nil, err
	}
	m.Buffers[0].ByteLength = uint32(len(m.Buffers[0].Data)) // avoid AddImage bug
	m.Samplers = []*gltf.Sampler{{MagFilter: gltf.MagNearest, MinFilter: gltf.MinNearest}}
	m.Textures = append(m.Textures, &gltf.Texture{Sampler: gltf.Index(0), Source: gltf.Index(index)})
	return gltf.Index(uint32(len(m.Textures) - 1)), nil
}

func (m *sceneToGltf) addMaterial() {
	var rf float32 = 1
	var mf float32 = 0
	mat := &gltf.Material{
		Name: "skin",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{1, 1, 1, 1},
			RoughnessFactor: &rf,
			MetallicFactor:  &mf,
		},
		AlphaMode:   gltf.AlphaMask,
		DoubleSided: true,
	}
	if m.Texture != "" {
		if tex, err := m.addTexture(m.Texture); err == nil {
			mat.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: *tex}
		} else {
			logger.Warn("texture read error", zap.String("path", m.Texture), zap.Error(err))
		}
	}
	if m.ForceUnlit {
		mat.Extensions = map[string]interface{}{"KHR_materials_unlit": map[string]string{}}
		m.ExtensionsUsed = append(m.ExtensionsUsed, "KHR_materials_unlit")
	}
	m.Materials = append(m.Materials, mat)
	m.material = gltf.Index(uint32(len(m.Materials) - 1))
}

// Convert builds a preview of s. Groups become nodes; each cube becomes a
// mesh node under its group.
func (m *sceneToGltf) Convert(s *scene.Scene) (*gltf.Document, error) {
	m.addMaterial()
	for _, n := range s.RootNodes() {
		m.Scenes[0].Nodes = append(m.Scenes[0].Nodes, m.addNode(s, n, &geom.Vector3{}))
	}
	logger.Debug("gltf preview", zap.Int("nodes", len(m.Nodes)), zap.Int("meshes", len(m.Meshes)))
	return m.Document, nil
}
