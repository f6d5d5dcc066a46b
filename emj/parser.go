package emj

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
)

// ErrNotEntityModel is returned when the document has no "mesh" key.
var ErrNotEntityModel = errors.New("not an entity model json (no \"mesh\" key)")

// Detect reports whether data is a JSON object with a "mesh" key.
func Detect(data []byte) bool {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return false
	}
	_, ok := top["mesh"]
	return ok
}

// Parse reads a layer definition. Required cube fields are checked before
// the document is returned; the first missing one is reported with its path.
func Parse(r io.Reader) (*Document, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseBytes(data)
}

func ParseBytes(data []byte) (*Document, error) {
	if !Detect(data) {
		return nil, ErrNotEntityModel
	}
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode model")
	}
	if doc.Mesh == nil {
		return nil, errors.New("mesh: null")
	}
	if doc.Mesh.Root != nil {
		if err := validatePart(doc.Mesh.Root, "mesh.root"); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

func validatePart(p *Part, path string) error {
	if p == nil {
		return errors.Errorf("%s: null bone", path)
	}
	for i, c := range p.Cubes.cubes() {
		cubePath := fmt.Sprintf("%s.cubes[%d]", path, i)
		if p.Cubes.Keyed() {
			cubePath = fmt.Sprintf("%s.cubes.%s", path, p.Cubes.Keys[i])
		}
		if err := validateCube(c, cubePath); err != nil {
			return err
		}
	}
	if p.Children != nil {
		for pair := p.Children.Oldest(); pair != nil; pair = pair.Next() {
			if err := validatePart(pair.Value, path+".children."+pair.Key); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateCube(c *Cube, path string) error {
	switch {
	case c == nil:
		return errors.Errorf("%s: null cube", path)
	case c.Origin == nil:
		return errors.Errorf("%s: missing \"origin\"", path)
	case c.Dimensions == nil:
		return errors.Errorf("%s: missing \"dimensions\"", path)
	case c.TexCoord == nil:
		return errors.Errorf("%s: missing \"texCoord\"", path)
	}
	return nil
}

func (l *CubeList) cubes() []*Cube {
	if l == nil {
		return nil
	}
	return l.Cubes
}
