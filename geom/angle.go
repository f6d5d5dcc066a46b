package geom

import "math"

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

func DegToRad(deg Element) Element {
	return deg * deg2rad
}

func RadToDeg(rad Element) Element {
	return rad * rad2deg
}

// DegToRad converts each component from degrees to radians.
func (v *Vector3) DegToRad() *Vector3 {
	return &Vector3{X: DegToRad(v.X), Y: DegToRad(v.Y), Z: DegToRad(v.Z)}
}

func (v *Vector3) RadToDeg() *Vector3 {
	return &Vector3{X: RadToDeg(v.X), Y: RadToDeg(v.Y), Z: RadToDeg(v.Z)}
}
