package converter

import (
	"github.com/binzume/emjconv/geom"
	"github.com/binzume/emjconv/mqo"
	"github.com/binzume/emjconv/scene"
)

type SceneToMQOOption struct {
	Scale   float32 // Default: 1 (one pixel)
	Texture string
}

type sceneToMqo struct {
	options *SceneToMQOOption
}

func NewSceneToMQOConverter(options *SceneToMQOOption) *sceneToMqo {
	if options == nil {
		options = &SceneToMQOOption{}
	}
	if options.Scale == 0 {
		options.Scale = 1
	}
	return &sceneToMqo{options: options}
}

type pivot struct {
	origin   *geom.Vector3
	rotation *geom.Quaternion
}

// toWorld applies the group rotations from the innermost group outwards.
func toWorld(v *geom.Vector3, pivots []pivot) *geom.Vector3 {
	for i := len(pivots) - 1; i >= 0; i-- {
		p := pivots[i]
		v = p.rotation.ApplyTo(v.Sub(p.origin)).Add(p.origin)
	}
	return v
}

func (c *sceneToMqo) convertCube(n *scene.Node, pivots []pivot, tex scene.TextureSize) *mqo.Object {
	obj := mqo.NewObject(n.Name)
	cube := n.Cube
	inflate := &geom.Vector3{X: cube.Inflate, Y: cube.Inflate, Z: cube.Inflate}
	corners := [2]*geom.Vector3{cube.From.Sub(inflate), cube.To.Add(inflate)}
	scale := float64(c.options.Scale)
	for i := 0; i < 8; i++ {
		v := geom.NewVector3(corners[i&1].X, corners[(i>>1)&1].Y, corners[(i>>2)&1].Z)
		v = toWorld(v, pivots).Scale(scale)
		obj.Vertexes = append(obj.Vertexes, &mqo.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)})
	}

	size := cube.Size()
	tw, th := cube.TextureSize(tex)
	for _, f := range boxFaces {
		uvFace := f
		if cube.MirrorUV {
			uvFace = boxFaces[f.mirror]
		}
		u1, v1, u2, v2 := uvFace.uv(cube.UVOffset.X, cube.UVOffset.Y, size.X, size.Y, size.Z)
		if cube.MirrorUV {
			u1, u2 = u2, u1
		}
		face := &mqo.Face{
			UVs: []mqo.Vector2{
				{X: float32(u1 / tw), Y: float32(v1 / th)},
				{X: float32(u2 / tw), Y: float32(v1 / th)},
				{X: float32(u2 / tw), Y: float32(v2 / th)},
				{X: float32(u1 / tw), Y: float32(v2 / th)},
			},
		}
		for _, sel := range f.corners {
			face.Verts = append(face.Verts, sel[0]|sel[1]<<1|sel[2]<<2)
		}
		obj.Faces = append(obj.Faces, face)
	}
	return obj
}

// Convert flattens the tree into objects. A group becomes an empty object and
// its children follow it one level deeper.
func (c *sceneToMqo) Convert(s *scene.Scene) (*mqo.Document, error) {
	doc := mqo.NewDocument()
	mat := mqo.NewMaterial("skin")
	mat.Texture = c.options.Texture
	doc.Materials = append(doc.Materials, mat)

	var pivots []pivot
	s.Walk(func(n *scene.Node, depth int) {
		if len(pivots) > depth {
			pivots = pivots[:depth]
		}
		switch n.Kind {
		case scene.KindGroup:
			obj := mqo.NewObject(n.Name)
			obj.Depth = depth
			doc.Objects = append(doc.Objects, obj)
			rot := geom.NewEulerFromDegrees(&n.Group.Rotation, geom.RotationOrderZYX).ToQuaternion()
			origin := n.Group.Origin
			pivots = append(pivots, pivot{origin: &origin, rotation: rot})
		case scene.KindCube:
			obj := c.convertCube(n, pivots, s.Texture)
			obj.Depth = depth
			doc.Objects = append(doc.Objects, obj)
		}
	})
	return doc, nil
}
