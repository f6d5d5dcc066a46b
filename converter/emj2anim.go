package converter

import (
	"github.com/binzume/emjconv/emj"
	"github.com/binzume/emjconv/geom"
	"github.com/binzume/emjconv/logger"
	"github.com/binzume/emjconv/scene"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type EMJToAnimationOption struct {
}

type emjToAnim struct {
	options *EMJToAnimationOption
}

func NewEMJToAnimationConverter(options *EMJToAnimationOption) *emjToAnim {
	if options == nil {
		options = &EMJToAnimationOption{}
	}
	return &emjToAnim{options: options}
}

// Convert is the inverse of the animation exporter.
func (c *emjToAnim) Convert(name string, def *emj.AnimationDefinition) (*scene.Animation, error) {
	a := &scene.Animation{
		Name:   name,
		Length: def.LengthInSeconds,
		Loop:   scene.LoopOnce,
	}
	if def.Looping {
		a.Loop = scene.LoopLoop
	}
	if def.BoneAnimations == nil {
		return a, nil
	}

	for pair := def.BoneAnimations.Oldest(); pair != nil; pair = pair.Next() {
		b := a.Animator(pair.Key)
		b.Type = scene.AnimatorBone
		for _, ch := range pair.Value {
			var keyframes []*scene.Keyframe
			for _, k := range ch.Keyframes {
				v := geom.NewVector3FromArray(k.Target)
				switch ch.Target {
				case emj.TargetPosition:
					v = v.FlipY()
				case emj.TargetRotation:
					v = v.RadToDeg()
				case emj.TargetScale:
					v = v.Add(&geom.Vector3{X: 1, Y: 1, Z: 1})
				default:
					return nil, errors.Errorf("%s: unknown target %q", pair.Key, ch.Target)
				}
				v = geom.NewVector3FromArray(cleanVec(v))
				keyframes = append(keyframes, &scene.Keyframe{
					Time:          k.Timestamp,
					DataPoints:    []scene.DataPoint{scene.NewDataPoint(v)},
					Interpolation: k.Interpolation,
				})
			}
			switch ch.Target {
			case emj.TargetPosition:
				b.Position = append(b.Position, keyframes...)
			case emj.TargetRotation:
				b.Rotation = append(b.Rotation, keyframes...)
			case emj.TargetScale:
				b.Scale = append(b.Scale, keyframes...)
			}
		}
		logger.Debug("animator", zap.String("name", b.Name),
			zap.Int("position", len(b.Position)), zap.Int("rotation", len(b.Rotation)), zap.Int("scale", len(b.Scale)))
	}
	return a, nil
}
