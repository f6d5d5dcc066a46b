package scene

import (
	"strconv"
	"strings"

	"github.com/binzume/emjconv/geom"
	"github.com/pkg/errors"
)

type LoopMode string

const (
	LoopOnce LoopMode = "once"
	LoopHold LoopMode = "hold"
	LoopLoop LoopMode = "loop"
)

type Animation struct {
	Name      string          `yaml:"name"`
	Length    float64         `yaml:"length"`
	Loop      LoopMode        `yaml:"loop,omitempty"`
	Animators []*BoneAnimator `yaml:"animators,omitempty"`
}

// Animator types. Only bone animators carry transform channels.
const (
	AnimatorBone   = "bone"
	AnimatorEffect = "effect"
)

// BoneAnimator holds the keyframes of one animated node. Keyframes are kept
// in the order they were added.
type BoneAnimator struct {
	Name     string      `yaml:"name"`
	Type     string      `yaml:"type,omitempty"`
	Position []*Keyframe `yaml:"position,omitempty"`
	Rotation []*Keyframe `yaml:"rotation,omitempty"`
	Scale    []*Keyframe `yaml:"scale,omitempty"`
}

func (a *BoneAnimator) IsBone() bool {
	return a.Type == "" || a.Type == AnimatorBone
}

type Keyframe struct {
	Time          float64     `yaml:"time"`
	DataPoints    []DataPoint `yaml:"data_points"`
	Interpolation interface{} `yaml:"interpolation,omitempty"`
}

// DataPoint components are numeric strings as typed in the editor.
type DataPoint struct {
	X string `yaml:"x"`
	Y string `yaml:"y"`
	Z string `yaml:"z"`
}

func NewDataPoint(v *geom.Vector3) DataPoint {
	f := func(e geom.Element) string {
		return strconv.FormatFloat(e, 'g', -1, 64)
	}
	return DataPoint{X: f(v.X), Y: f(v.Y), Z: f(v.Z)}
}

// Vector parses the components. An empty component is 0.
func (d DataPoint) Vector() (*geom.Vector3, error) {
	var v geom.Vector3
	for _, c := range []struct {
		name string
		s    string
		dst  *geom.Element
	}{{"x", d.X, &v.X}, {"y", d.Y, &v.Y}, {"z", d.Z, &v.Z}} {
		str := strings.TrimSpace(c.s)
		if str == "" {
			*c.dst = 0
			continue
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return nil, errors.Errorf("%s: not a number: %q", c.name, c.s)
		}
		*c.dst = f
	}
	return &v, nil
}

// Animator returns the animator for name, creating it if needed.
func (a *Animation) Animator(name string) *BoneAnimator {
	for _, b := range a.Animators {
		if b.Name == name {
			return b
		}
	}
	b := &BoneAnimator{Name: name}
	a.Animators = append(a.Animators, b)
	return b
}

func (s *Scene) FindAnimation(name string) *Animation {
	for _, a := range s.Animations {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// AddAnimation adds a or replaces the animation with the same name.
func (s *Scene) AddAnimation(a *Animation) {
	for i, old := range s.Animations {
		if old.Name == a.Name {
			s.Animations[i] = a
			return
		}
	}
	s.Animations = append(s.Animations, a)
}
