package converter

import (
	"github.com/binzume/emjconv/emj"
	"github.com/binzume/emjconv/geom"
	"github.com/binzume/emjconv/logger"
	"github.com/binzume/emjconv/scene"
	"go.uber.org/zap"
)

type SceneToEMJOption struct {
}

type sceneToEmj struct {
	options *SceneToEMJOption
}

func NewSceneToEMJConverter(options *SceneToEMJOption) *sceneToEmj {
	if options == nil {
		options = &SceneToEMJOption{}
	}
	return &sceneToEmj{options: options}
}

// clean drops the sign of negative zero, which encoding/json would write as -0.
func clean(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}

func cleanVec(v *geom.Vector3) emj.Vec3 {
	return emj.Vec3{clean(v.X), clean(v.Y), clean(v.Z)}
}

func (c *sceneToEmj) Convert(s *scene.Scene) (*emj.Document, error) {
	w, h := s.Texture.Width, s.Texture.Height
	doc := &emj.Document{
		Material: &emj.Material{XTexSize: &w, YTexSize: &h},
		Mesh: &emj.Mesh{
			Parent:           s.Mesh.Parent,
			Overwrite:        s.Mesh.Overwrite,
			FixVanillaOffset: s.Mesh.FixVanillaOffset,
		},
	}
	if s.Mesh.UniversalCubeDeformation != nil {
		g := emj.Grow(*s.Mesh.UniversalCubeDeformation)
		doc.Mesh.UniversalCubeDeformation = &g
	}

	roots := s.RootNodes()
	if len(roots) == 1 && roots[0].Kind == scene.KindGroup {
		doc.Mesh.Root = c.convertBone(s, roots[0], &geom.Vector3{})
		return doc, nil
	}

	// Several top-level nodes share a synthetic root. Cubes are keyed by name.
	root := &emj.Part{}
	var cubes *emj.CubeList
	for _, n := range roots {
		switch n.Kind {
		case scene.KindGroup:
			if root.Children == nil {
				root.Children = emj.NewChildren()
			}
			root.Children.Set(n.Name, c.convertBone(s, n, &geom.Vector3{}))
		case scene.KindCube:
			if cubes == nil {
				cubes = &emj.CubeList{Keys: []string{}}
			}
			cubes.Put(n.Name, c.convertCube(n, &geom.Vector3{}))
		}
	}
	root.Cubes = cubes
	doc.Mesh.Root = root
	logger.Debug("synthetic root", zap.Int("roots", len(roots)))
	return doc, nil
}

// convertBone exports a group. parentOrigin is the absolute origin of the
// parent in entity model space.
func (c *sceneToEmj) convertBone(s *scene.Scene, bone *scene.Node, parentOrigin *geom.Vector3) *emj.Part {
	part := &emj.Part{}
	bOrigin := bone.Group.Origin.Flip()

	if rel := bOrigin.Sub(parentOrigin); !rel.IsZero() {
		if part.PartPose == nil {
			part.PartPose = &emj.PartPose{}
		}
		part.PartPose.SetOffset(cleanVec(rel))
	}
	r := bone.Group.Rotation
	if rot := (&geom.Vector3{X: -r.X, Y: -r.Y, Z: r.Z}).DegToRad(); !rot.IsZero() {
		if part.PartPose == nil {
			part.PartPose = &emj.PartPose{}
		}
		part.PartPose.SetRotation(cleanVec(rot))
	}

	for _, child := range s.ChildrenOf(bone.ID) {
		switch child.Kind {
		case scene.KindGroup:
			if part.Children == nil {
				part.Children = emj.NewChildren()
			}
			part.Children.Set(child.Name, c.convertBone(s, child, bOrigin))
		case scene.KindCube:
			if part.Cubes == nil {
				part.Cubes = &emj.CubeList{}
			}
			part.Cubes.Add(c.convertCube(child, bOrigin))
		}
	}
	logger.Debug("bone", zap.String("name", bone.Name), zap.Int("cubes", part.Cubes.Len()))
	return part
}

func (c *sceneToEmj) convertCube(n *scene.Node, bOrigin *geom.Vector3) *emj.Cube {
	cube := n.Cube
	size := cube.Size()
	pos := geom.NewVector3(cube.From.X+size.X, cube.From.Y+size.Y, cube.From.Z).Flip()
	origin := cleanVec(pos.Sub(bOrigin))
	dimensions := cleanVec(size)

	dst := &emj.Cube{
		TexCoord:   &emj.TexCoord{U: clean(cube.UVOffset.X), V: clean(cube.UVOffset.Y)},
		Origin:     &origin,
		Dimensions: &dimensions,
	}
	if n.Name != emj.DefaultCubeName {
		name := n.Name
		dst.Comment = &name
	}
	if cube.MirrorUV {
		mirror := true
		dst.Mirror = &mirror
	}
	if cube.Inflate > 0 {
		g := emj.Grow(cube.Inflate)
		dst.Grow = &g
	}
	if ts := cube.TexScale; ts != nil {
		if ts.X != 1 {
			x := ts.X
			dst.TexScaleX = &x
		}
		if ts.Y != 1 {
			y := ts.Y
			dst.TexScaleY = &y
		}
	}
	return dst
}
