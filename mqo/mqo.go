// Package mqo writes Metasequoia documents.
package mqo

type Vector2 struct {
	X float32
	Y float32
}

type Vector3 struct {
	X float32
	Y float32
	Z float32
}

type Vector4 struct {
	X float32
	Y float32
	Z float32
	W float32
}

type Material struct {
	Name  string
	Color Vector4

	Diffuse  float32
	Ambient  float32
	Emission float32
	Specular float32
	Power    float32
	Texture  string

	DoubleSided bool
}

type Face struct {
	Verts    []int
	Material int
	UVs      []Vector2
}

type Object struct {
	Name     string
	Vertexes []*Vector3
	Faces    []*Face
	Visible  bool
	Locked   bool
	Depth    int
	Shading  int
	Facet    float32
}

func NewObject(name string) *Object {
	return &Object{Name: name, Visible: true, Shading: 1, Facet: 59.5}
}

type Document struct {
	Materials []*Material
	Objects   []*Object
}

func NewDocument() *Document {
	return &Document{}
}

func NewMaterial(name string) *Material {
	return &Material{
		Name:    name,
		Color:   Vector4{X: 1, Y: 1, Z: 1, W: 1},
		Diffuse: 0.8,
		Ambient: 0.6,
		Power:   5,
	}
}
