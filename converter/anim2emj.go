package converter

import (
	"github.com/binzume/emjconv/emj"
	"github.com/binzume/emjconv/geom"
	"github.com/binzume/emjconv/logger"
	"github.com/binzume/emjconv/scene"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type AnimationToEMJOption struct {
}

type animToEmj struct {
	options *AnimationToEMJOption
}

func NewAnimationToEMJConverter(options *AnimationToEMJOption) *animToEmj {
	if options == nil {
		options = &AnimationToEMJOption{}
	}
	return &animToEmj{options: options}
}

type channelTransform struct {
	target    string
	keyframes func(b *scene.BoneAnimator) []*scene.Keyframe
	convert   func(v *geom.Vector3) *geom.Vector3
}

var channelTransforms = []channelTransform{
	{
		target:    emj.TargetPosition,
		keyframes: func(b *scene.BoneAnimator) []*scene.Keyframe { return b.Position },
		convert:   func(v *geom.Vector3) *geom.Vector3 { return v.FlipY() },
	},
	{
		target:    emj.TargetRotation,
		keyframes: func(b *scene.BoneAnimator) []*scene.Keyframe { return b.Rotation },
		convert:   func(v *geom.Vector3) *geom.Vector3 { return v.DegToRad() },
	},
	{
		target:    emj.TargetScale,
		keyframes: func(b *scene.BoneAnimator) []*scene.Keyframe { return b.Scale },
		convert:   func(v *geom.Vector3) *geom.Vector3 { return v.Sub(&geom.Vector3{X: 1, Y: 1, Z: 1}) },
	},
}

func (c *animToEmj) Convert(a *scene.Animation) (*emj.AnimationDefinition, error) {
	def := emj.NewAnimationDefinition(a.Length)
	def.Looping = a.Loop == scene.LoopLoop

	for _, b := range a.Animators {
		if !b.IsBone() {
			logger.Warn("skip animator", zap.String("name", b.Name), zap.String("type", b.Type))
			continue
		}
		var channels []*emj.Channel
		for _, t := range channelTransforms {
			src := t.keyframes(b)
			if len(src) == 0 {
				continue
			}
			ch := &emj.Channel{Target: t.target}
			for _, k := range src {
				kf, err := c.convertKeyframe(k, t.convert)
				if err != nil {
					return nil, errors.Wrapf(err, "%s %s", b.Name, t.target)
				}
				ch.Keyframes = append(ch.Keyframes, kf)
			}
			channels = append(channels, ch)
		}
		if len(channels) == 0 {
			continue
		}
		def.BoneAnimations.Set(b.Name, channels)
		logger.Debug("animator", zap.String("name", b.Name), zap.Int("channels", len(channels)))
	}
	return def, nil
}

func (c *animToEmj) convertKeyframe(k *scene.Keyframe, convert func(v *geom.Vector3) *geom.Vector3) (*emj.Keyframe, error) {
	if len(k.DataPoints) == 0 {
		return nil, errors.Errorf("keyframe at %v has no data point", k.Time)
	}
	v, err := k.DataPoints[0].Vector()
	if err != nil {
		return nil, errors.Wrapf(err, "keyframe at %v", k.Time)
	}
	return &emj.Keyframe{
		Timestamp:     k.Time,
		Target:        cleanVec(convert(v)),
		Interpolation: k.Interpolation,
	}, nil
}
