package geom

// Element is float64 so that values read from JSON survive a round trip unchanged.
type Element = float64

type Vector3 struct {
	X Element
	Y Element
	Z Element
}

func NewVector3(x, y, z Element) *Vector3 {
	return &Vector3{X: x, Y: y, Z: z}
}

func NewVector3FromArray(arr [3]Element) *Vector3 {
	return &Vector3{X: arr[0], Y: arr[1], Z: arr[2]}
}

func NewVector3FromSlice(arr []Element) *Vector3 {
	return &Vector3{X: arr[0], Y: arr[1], Z: arr[2]}
}

func (v *Vector3) Add(v2 *Vector3) *Vector3 {
	return &Vector3{X: v.X + v2.X, Y: v.Y + v2.Y, Z: v.Z + v2.Z}
}

func (v *Vector3) Sub(v2 *Vector3) *Vector3 {
	return &Vector3{X: v.X - v2.X, Y: v.Y - v2.Y, Z: v.Z - v2.Z}
}

func (v *Vector3) Scale(s Element) *Vector3 {
	return &Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Flip converts between the editor space and the entity model space.
// Both spaces share Z; X and Y point the other way. Flip(Flip(v)) == v.
func (v *Vector3) Flip() *Vector3 {
	return &Vector3{X: -v.X, Y: -v.Y, Z: v.Z}
}

// FlipY negates Y only (animation position channels).
func (v *Vector3) FlipY() *Vector3 {
	return &Vector3{X: v.X, Y: -v.Y, Z: v.Z}
}

// IsZero reports whether every component is exactly zero.
func (v *Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Float32 is used when writing glTF buffers.
func (v *Vector3) Float32() [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
