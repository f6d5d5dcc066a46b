// Package emj reads and writes Entity Model JSON layer definitions and
// animation definitions.
package emj

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	DefaultTextureWidth  = 64
	DefaultTextureHeight = 32

	// DefaultCubeName is the cube name used when "comment" is absent.
	DefaultCubeName = "cube"
)

type Vec3 = [3]float64

type Document struct {
	Material *Material `json:"material,omitempty"`
	Mesh     *Mesh     `json:"mesh"`
}

type Material struct {
	XTexSize *int `json:"xTexSize,omitempty"`
	YTexSize *int `json:"yTexSize,omitempty"`
}

// TextureSize returns the texture size, substituting defaults for absent fields.
func (m *Material) TextureSize() (int, int) {
	w, h := DefaultTextureWidth, DefaultTextureHeight
	if m == nil {
		return w, h
	}
	if m.XTexSize != nil {
		w = *m.XTexSize
	}
	if m.YTexSize != nil {
		h = *m.YTexSize
	}
	return w, h
}

type Mesh struct {
	Root *Part `json:"root,omitempty"`

	// Mesh options understood by the mod. Kept as-is.
	Parent                   *string `json:"parent,omitempty"`
	UniversalCubeDeformation *Grow   `json:"universalCubeDeformation,omitempty"`
	Overwrite                *bool   `json:"overwrite,omitempty"`
	FixVanillaOffset         *bool   `json:"fixVanillaOffset,omitempty"`
}

type Children = orderedmap.OrderedMap[string, *Part]

func NewChildren() *Children {
	return orderedmap.New[string, *Part]()
}

// Part is a bone.
type Part struct {
	PartPose *PartPose `json:"partPose,omitempty"`
	Children *Children `json:"children,omitempty"`
	Cubes    *CubeList `json:"cubes,omitempty"`
}

// PartPose is the offset from the parent (pixels) and rotation (radians).
type PartPose struct {
	X    *float64 `json:"x,omitempty"`
	Y    *float64 `json:"y,omitempty"`
	Z    *float64 `json:"z,omitempty"`
	XRot *float64 `json:"xRot,omitempty"`
	YRot *float64 `json:"yRot,omitempty"`
	ZRot *float64 `json:"zRot,omitempty"`
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (p *PartPose) Offset() Vec3 {
	return Vec3{valueOrZero(p.X), valueOrZero(p.Y), valueOrZero(p.Z)}
}

func (p *PartPose) Rotation() Vec3 {
	return Vec3{valueOrZero(p.XRot), valueOrZero(p.YRot), valueOrZero(p.ZRot)}
}

func (p *PartPose) SetOffset(v Vec3) {
	p.X, p.Y, p.Z = &v[0], &v[1], &v[2]
}

func (p *PartPose) SetRotation(v Vec3) {
	p.XRot, p.YRot, p.ZRot = &v[0], &v[1], &v[2]
}

type TexCoord struct {
	U float64 `json:"u"`
	V float64 `json:"v"`
}

type Cube struct {
	TexCoord   *TexCoord `json:"texCoord"`
	Comment    *string   `json:"comment,omitempty"`
	Origin     *Vec3     `json:"origin"`
	Dimensions *Vec3     `json:"dimensions"`
	Mirror     *bool     `json:"mirror,omitempty"`
	Grow       *Grow     `json:"grow,omitempty"`

	// Texture size multipliers. Absent means 1.
	TexScaleX *float64 `json:"texScaleX,omitempty"`
	TexScaleY *float64 `json:"texScaleY,omitempty"`
}

// Name returns the comment or DefaultCubeName.
func (c *Cube) Name() string {
	if c.Comment == nil {
		return DefaultCubeName
	}
	return *c.Comment
}

// Grow is the cube inflate amount. It is written as a number and read from a
// number, an array (first element) or a {growX, growY, growZ} object (growX).
type Grow float64

func (g *Grow) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("grow: empty value")
	}
	switch data[0] {
	case '[':
		var arr []float64
		if err := json.Unmarshal(data, &arr); err != nil {
			return errors.Wrap(err, "grow")
		}
		if len(arr) == 0 {
			return errors.New("grow: empty array")
		}
		*g = Grow(arr[0])
	case '{':
		var obj struct {
			GrowX float64 `json:"growX"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return errors.Wrap(err, "grow")
		}
		*g = Grow(obj.GrowX)
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return errors.Wrap(err, "grow")
		}
		*g = Grow(v)
	}
	return nil
}

// CubeList is normally a JSON array. A list with Keys set is written as an
// object keyed by cube name, which is how a model with several top-level
// nodes stores its root cubes.
type CubeList struct {
	Cubes []*Cube
	Keys  []string
}

func (l *CubeList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Cubes)
}

func (l *CubeList) Add(c *Cube) {
	l.Cubes = append(l.Cubes, c)
}

// Put adds a cube under a key. A duplicate key replaces the earlier cube in place.
func (l *CubeList) Put(key string, c *Cube) {
	for i, k := range l.Keys {
		if k == key {
			l.Cubes[i] = c
			return
		}
	}
	l.Keys = append(l.Keys, key)
	l.Cubes = append(l.Cubes, c)
}

func (l *CubeList) Keyed() bool {
	return l.Keys != nil
}

func (l *CubeList) MarshalJSON() ([]byte, error) {
	if !l.Keyed() {
		if l.Cubes == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(l.Cubes)
	}
	m := orderedmap.New[string, *Cube]()
	for i, k := range l.Keys {
		m.Set(k, l.Cubes[i])
	}
	return json.Marshal(m)
}

func (l *CubeList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		m := orderedmap.New[string, *Cube]()
		if err := json.Unmarshal(data, m); err != nil {
			return err
		}
		l.Keys = []string{}
		l.Cubes = nil
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			l.Keys = append(l.Keys, pair.Key)
			l.Cubes = append(l.Cubes, pair.Value)
		}
		return nil
	}
	l.Keys = nil
	return json.Unmarshal(data, &l.Cubes)
}
