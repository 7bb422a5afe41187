package renderer

import (
	"github.com/ivlev/uno2video/internal/director"
	"github.com/ivlev/uno2video/internal/effects"
)

// MotionState is where a placement sits at a given moment: center anchor as
// canvas fractions, a scale factor over its authored size and an opacity.
type MotionState struct {
	X     float64
	Y     float64
	Scale float64
	Alpha float64
}

// StaticState is the state of a placement without keyframes.
func StaticState(pl *director.Placement) MotionState {
	return MotionState{X: pl.X, Y: pl.Y, Scale: 1, Alpha: 1}
}

// InterpolateKeyframes calculates the state at placement progress p by
// easing between the surrounding keyframes. Before the first keyframe the
// first one holds, after the last one the last one holds.
func InterpolateKeyframes(keyframes []director.Keyframe, p float64, ease effects.Easing) MotionState {
	if len(keyframes) == 0 {
		return MotionState{Scale: 1, Alpha: 1}
	}
	if ease == nil {
		ease = effects.EaseInOutCubic
	}

	if p <= keyframes[0].At {
		return stateOf(keyframes[0])
	}
	last := keyframes[len(keyframes)-1]
	if p >= last.At {
		return stateOf(last)
	}

	// Find surrounding keyframes
	var prevKf, nextKf director.Keyframe
	for i := 0; i < len(keyframes)-1; i++ {
		if p >= keyframes[i].At && p < keyframes[i+1].At {
			prevKf = keyframes[i]
			nextKf = keyframes[i+1]
			break
		}
	}

	span := nextKf.At - prevKf.At
	if span <= 0 {
		return stateOf(nextKf)
	}
	t := ease((p - prevKf.At) / span)

	return MotionState{
		X:     effects.Lerp(prevKf.X, nextKf.X, t),
		Y:     effects.Lerp(prevKf.Y, nextKf.Y, t),
		Scale: effects.Lerp(prevKf.Scale, nextKf.Scale, t),
		Alpha: effects.Clamp01(effects.Lerp(prevKf.Alpha, nextKf.Alpha, t)),
	}
}

func stateOf(kf director.Keyframe) MotionState {
	return MotionState{X: kf.X, Y: kf.Y, Scale: kf.Scale, Alpha: effects.Clamp01(kf.Alpha)}
}

// motionAt resolves keyframe motion for a placement, falling back to its
// static anchor when it has none.
func motionAt(pl *director.Placement, p float64) (MotionState, error) {
	if len(pl.Motion) == 0 {
		return StaticState(pl), nil
	}
	ease, err := effects.ByName(pl.Easing)
	if err != nil {
		return MotionState{}, err
	}
	return InterpolateKeyframes(pl.Motion, p, ease), nil
}
