package emj

import (
	"encoding/json"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Animation channel targets.
const (
	TargetPosition = "position"
	TargetRotation = "rotation"
	TargetScale    = "scale"
)

type BoneAnimations = orderedmap.OrderedMap[string, []*Channel]

type AnimationDefinition struct {
	LengthInSeconds float64         `json:"lengthInSeconds"`
	BoneAnimations  *BoneAnimations `json:"boneAnimations"`
	Looping         bool            `json:"looping,omitempty"`
}

func NewAnimationDefinition(length float64) *AnimationDefinition {
	return &AnimationDefinition{
		LengthInSeconds: length,
		BoneAnimations:  orderedmap.New[string, []*Channel](),
	}
}

type Channel struct {
	Target    string      `json:"target"`
	Keyframes []*Keyframe `json:"keyframes"`
}

type Keyframe struct {
	Timestamp float64 `json:"timestamp"`
	Target    Vec3    `json:"target"`

	// Interpolation is passed through without interpretation.
	Interpolation interface{} `json:"interpolation,omitempty"`
}

// ParseAnimation reads an animation definition.
func ParseAnimation(r io.Reader) (*AnimationDefinition, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, errors.Wrap(err, "decode animation definition")
	}
	for _, key := range []string{"lengthInSeconds", "boneAnimations"} {
		if _, ok := top[key]; !ok {
			return nil, errors.Errorf("missing %q", key)
		}
	}
	def := NewAnimationDefinition(0)
	if err := json.Unmarshal(data, def); err != nil {
		return nil, errors.Wrap(err, "decode animation definition")
	}
	if def.BoneAnimations == nil {
		return nil, errors.New("boneAnimations: null")
	}
	for pair := def.BoneAnimations.Oldest(); pair != nil; pair = pair.Next() {
		for i, ch := range pair.Value {
			if ch == nil {
				return nil, errors.Errorf("boneAnimations.%s[%d]: null channel", pair.Key, i)
			}
			switch ch.Target {
			case TargetPosition, TargetRotation, TargetScale:
			default:
				return nil, errors.Errorf("boneAnimations.%s[%d]: unknown target %q", pair.Key, i, ch.Target)
			}
		}
	}
	return def, nil
}

// WriteAnimation encodes the whole definition in memory before writing it to w.
func WriteAnimation(def *AnimationDefinition, w io.Writer) error {
	data, err := Marshal(def)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
