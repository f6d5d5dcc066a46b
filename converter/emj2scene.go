package converter

import (
	"github.com/binzume/emjconv/emj"
	"github.com/binzume/emjconv/geom"
	"github.com/binzume/emjconv/logger"
	"github.com/binzume/emjconv/scene"
	"go.uber.org/zap"
)

type EMJToSceneOption struct {
	// RootName is the name of the group created for mesh.root. Default: "root"
	RootName string
}

type emjToScene struct {
	options *EMJToSceneOption
}

func NewEMJToSceneConverter(options *EMJToSceneOption) *emjToScene {
	if options == nil {
		options = &EMJToSceneOption{}
	}
	if options.RootName == "" {
		options.RootName = "root"
	}
	return &emjToScene{options: options}
}

// Convert builds a detached scene from doc. Attach it to a project scene with
// (*scene.Scene).Attach.
func (c *emjToScene) Convert(doc *emj.Document) (*scene.Scene, error) {
	s := scene.NewScene()
	s.Texture.Width, s.Texture.Height = doc.Material.TextureSize()

	mesh := doc.Mesh
	if mesh == nil {
		return nil, emj.ErrNotEntityModel
	}
	s.Mesh = scene.MeshOptions{
		Parent:           mesh.Parent,
		Overwrite:        mesh.Overwrite,
		FixVanillaOffset: mesh.FixVanillaOffset,
	}
	if mesh.UniversalCubeDeformation != nil {
		v := float64(*mesh.UniversalCubeDeformation)
		s.Mesh.UniversalCubeDeformation = &v
	}

	if root := mesh.Root; root != nil {
		if root.PartPose == nil && root.Cubes != nil && root.Cubes.Keyed() {
			// Several top-level nodes under a synthetic root.
			if root.Children != nil {
				for pair := root.Children.Oldest(); pair != nil; pair = pair.Next() {
					c.convertBone(s, scene.NoParent, &geom.Vector3{}, pair.Key, pair.Value)
				}
			}
			c.addCubes(s, scene.NoParent, &geom.Vector3{}, root.Cubes)
		} else {
			c.convertBone(s, scene.NoParent, &geom.Vector3{}, c.options.RootName, root)
		}
	}
	logger.Debug("imported model", zap.Int("nodes", len(s.Nodes)),
		zap.Int("textureWidth", s.Texture.Width), zap.Int("textureHeight", s.Texture.Height))
	return s, nil
}

// convertBone adds part as a group. parentOrigin is the absolute origin of
// the parent in entity model space.
func (c *emjToScene) convertBone(s *scene.Scene, parent scene.NodeID, parentOrigin *geom.Vector3, name string, part *emj.Part) {
	origin := parentOrigin
	var rotation geom.Vector3
	if part.PartPose != nil {
		offset := part.PartPose.Offset()
		origin = origin.Add(geom.NewVector3FromArray(offset))
		rot := part.PartPose.Rotation()
		rotation = geom.Vector3{
			X: -geom.RadToDeg(rot[0]),
			Y: -geom.RadToDeg(rot[1]),
			Z: geom.RadToDeg(rot[2]),
		}
	}

	id := s.AddGroup(parent, name, scene.Group{Origin: *origin.Flip(), Rotation: rotation})
	logger.Debug("bone", zap.String("name", name), zap.Int("cubes", part.Cubes.Len()))

	c.addCubes(s, id, origin, part.Cubes)
	if part.Children != nil {
		for pair := part.Children.Oldest(); pair != nil; pair = pair.Next() {
			c.convertBone(s, id, origin, pair.Key, pair.Value)
		}
	}
}

func (c *emjToScene) addCubes(s *scene.Scene, parent scene.NodeID, origin *geom.Vector3, cubes *emj.CubeList) {
	if cubes == nil {
		return
	}
	for i, cube := range cubes.Cubes {
		name := cube.Name()
		if cubes.Keyed() && cube.Comment == nil {
			name = cubes.Keys[i]
		}
		s.AddCube(parent, name, c.convertCube(cube, origin))
	}
}

func (c *emjToScene) convertCube(cube *emj.Cube, parentOrigin *geom.Vector3) scene.Cube {
	size := geom.NewVector3FromArray(*cube.Dimensions)
	pos := geom.NewVector3FromArray(*cube.Origin).Add(parentOrigin)

	dst := scene.Cube{
		To:       *pos.Add(&geom.Vector3{Z: size.Z}).Flip(),
		From:     *pos.Add(&geom.Vector3{X: size.X, Y: size.Y}).Flip(),
		UVOffset: geom.Vector2{X: cube.TexCoord.U, Y: cube.TexCoord.V},
	}
	if cube.Grow != nil {
		dst.Inflate = float64(*cube.Grow)
	}
	if cube.Mirror != nil {
		dst.MirrorUV = *cube.Mirror
	}
	if cube.TexScaleX != nil || cube.TexScaleY != nil {
		dst.TexScale = &geom.Vector2{X: 1, Y: 1}
		if cube.TexScaleX != nil {
			dst.TexScale.X = *cube.TexScaleX
		}
		if cube.TexScaleY != nil {
			dst.TexScale.Y = *cube.TexScaleY
		}
	}
	return dst
}
