package scene

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/binzume/emjconv/geom"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Project files store the scene as a nested outliner, the way an editor
// shows it, instead of the flat arena.

type projectFile struct {
	Name       string         `yaml:"name,omitempty"`
	Texture    textureFile    `yaml:"texture"`
	Mesh       *meshFile      `yaml:"mesh,omitempty"`
	Outliner   []*outlineNode `yaml:"outliner"`
	Animations []*Animation   `yaml:"animations,omitempty"`
}

type textureFile struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type meshFile struct {
	Parent                   *string  `yaml:"parent,omitempty"`
	UniversalCubeDeformation *float64 `yaml:"universal_cube_deformation,omitempty"`
	Overwrite                *bool    `yaml:"overwrite,omitempty"`
	FixVanillaOffset         *bool    `yaml:"fix_vanilla_offset,omitempty"`
}

type outlineNode struct {
	Group *groupFile `yaml:"group,omitempty"`
	Cube  *cubeFile  `yaml:"cube,omitempty"`
}

type groupFile struct {
	Name     string         `yaml:"name"`
	Origin   []float64      `yaml:"origin,flow"`
	Rotation []float64      `yaml:"rotation,flow,omitempty"`
	Children []*outlineNode `yaml:"children,omitempty"`
}

type cubeFile struct {
	Name     string    `yaml:"name"`
	From     []float64 `yaml:"from,flow"`
	To       []float64 `yaml:"to,flow"`
	Inflate  float64   `yaml:"inflate,omitempty"`
	MirrorUV bool      `yaml:"mirror_uv,omitempty"`
	UVOffset []float64 `yaml:"uv_offset,flow"`
	TexScale []float64 `yaml:"tex_scale,flow,omitempty"`
}

func vec3(v []float64, field string) (geom.Vector3, error) {
	switch len(v) {
	case 0:
		return geom.Vector3{}, nil
	case 3:
		return *geom.NewVector3FromSlice(v), nil
	}
	return geom.Vector3{}, errors.Errorf("%s: want 3 elements, got %d", field, len(v))
}

func vec2(v []float64, field string) (geom.Vector2, error) {
	switch len(v) {
	case 0:
		return geom.Vector2{}, nil
	case 2:
		return geom.Vector2{X: v[0], Y: v[1]}, nil
	}
	return geom.Vector2{}, errors.Errorf("%s: want 2 elements, got %d", field, len(v))
}

// Decode reads a project file.
func Decode(r io.Reader) (*Scene, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var pf projectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, errors.Wrap(err, "decode project")
	}

	s := NewScene()
	s.Name = pf.Name
	if pf.Texture.Width > 0 {
		s.Texture.Width = pf.Texture.Width
	}
	if pf.Texture.Height > 0 {
		s.Texture.Height = pf.Texture.Height
	}
	if pf.Mesh != nil {
		s.Mesh = MeshOptions(*pf.Mesh)
	}
	for i, n := range pf.Outliner {
		if err := s.decodeNode(n, NoParent, fmt.Sprintf("outliner[%d]", i)); err != nil {
			return nil, err
		}
	}
	for _, a := range pf.Animations {
		for _, b := range a.Animators {
			for _, ch := range [][]*Keyframe{b.Position, b.Rotation, b.Scale} {
				for _, k := range ch {
					k.Interpolation = jsonValue(k.Interpolation)
				}
			}
		}
	}
	s.Animations = pf.Animations
	return s, nil
}

func (s *Scene) decodeNode(n *outlineNode, parent NodeID, path string) error {
	switch {
	case n == nil:
		return errors.Errorf("%s: empty node", path)
	case n.Group != nil:
		g := n.Group
		origin, err := vec3(g.Origin, path+".origin")
		if err != nil {
			return err
		}
		rotation, err := vec3(g.Rotation, path+".rotation")
		if err != nil {
			return err
		}
		id := s.AddGroup(parent, g.Name, Group{Origin: origin, Rotation: rotation})
		for i, c := range g.Children {
			if err := s.decodeNode(c, id, fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
				return err
			}
		}
	case n.Cube != nil:
		c := n.Cube
		from, err := vec3(c.From, path+".from")
		if err != nil {
			return err
		}
		to, err := vec3(c.To, path+".to")
		if err != nil {
			return err
		}
		uv, err := vec2(c.UVOffset, path+".uv_offset")
		if err != nil {
			return err
		}
		cube := Cube{From: from, To: to, Inflate: c.Inflate, MirrorUV: c.MirrorUV, UVOffset: uv}
		if len(c.TexScale) > 0 {
			ts, err := vec2(c.TexScale, path+".tex_scale")
			if err != nil {
				return err
			}
			cube.TexScale = &ts
		}
		s.AddCube(parent, c.Name, cube)
	default:
		return errors.Errorf("%s: neither group nor cube", path)
	}
	return nil
}

// jsonValue converts maps decoded by yaml (map[interface{}]interface{}) so
// the value can be written as JSON.
func jsonValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = jsonValue(e)
		}
		return m
	case []interface{}:
		for i, e := range t {
			t[i] = jsonValue(e)
		}
		return t
	}
	return v
}

func (s *Scene) encodeNode(n *Node) *outlineNode {
	switch n.Kind {
	case KindGroup:
		g := &groupFile{
			Name:   n.Name,
			Origin: []float64{n.Group.Origin.X, n.Group.Origin.Y, n.Group.Origin.Z},
		}
		if !n.Group.Rotation.IsZero() {
			r := n.Group.Rotation
			g.Rotation = []float64{r.X, r.Y, r.Z}
		}
		for _, c := range s.ChildrenOf(n.ID) {
			g.Children = append(g.Children, s.encodeNode(c))
		}
		return &outlineNode{Group: g}
	case KindCube:
		c := n.Cube
		cf := &cubeFile{
			Name:     n.Name,
			From:     []float64{c.From.X, c.From.Y, c.From.Z},
			To:       []float64{c.To.X, c.To.Y, c.To.Z},
			Inflate:  c.Inflate,
			MirrorUV: c.MirrorUV,
			UVOffset: []float64{c.UVOffset.X, c.UVOffset.Y},
		}
		if c.TexScale != nil {
			cf.TexScale = []float64{c.TexScale.X, c.TexScale.Y}
		}
		return &outlineNode{Cube: cf}
	}
	return nil
}

// Encode writes the project file.
func (s *Scene) Encode(w io.Writer) error {
	pf := projectFile{
		Name:       s.Name,
		Texture:    textureFile{Width: s.Texture.Width, Height: s.Texture.Height},
		Outliner:   []*outlineNode{},
		Animations: s.Animations,
	}
	if s.Mesh != (MeshOptions{}) {
		m := meshFile(s.Mesh)
		pf.Mesh = &m
	}
	for _, n := range s.RootNodes() {
		pf.Outliner = append(pf.Outliner, s.encodeNode(n))
	}
	data, err := yaml.Marshal(&pf)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Load reads a project file from path.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return s, nil
}

// Save writes the project file to path, creating the parent directory.
func (s *Scene) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.Encode(f)
}
