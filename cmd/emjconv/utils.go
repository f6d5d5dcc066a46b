package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/emjconv/converter"
	"github.com/binzume/emjconv/emj"
	"github.com/binzume/emjconv/logger"
	"github.com/binzume/emjconv/scene"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var spewConfig *spew.ConfigState

func init() {
	spewConfig = spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
	spewConfig.DisablePointerAddresses = true
}

func Dump(a ...interface{}) {
	fmt.Println(spewConfig.Sdump(a...))
}

func baseName(path string) string {
	name := filepath.Base(path)
	return name[:len(name)-len(filepath.Ext(name))]
}

func loadModel(input string) (*scene.Scene, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, err
	}
	return parseModel(input, data)
}

func parseModel(input string, data []byte) (*scene.Scene, error) {
	doc, err := emj.ParseBytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", input)
	}
	return converter.NewEMJToSceneConverter(nil).Convert(doc)
}

// loadScene reads a model json when the file has a "mesh" key, otherwise a project file.
func loadScene(input string) (*scene.Scene, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, err
	}
	if emj.Detect(data) {
		return parseModel(input, data)
	}
	s, err := scene.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", input)
	}
	return s, nil
}

// applyTexture sets the texture size from the -texture image.
func applyTexture(opt *options, s *scene.Scene) error {
	if opt.texture == "" {
		return nil
	}
	img, err := converter.LoadTexture(opt.texture)
	if err != nil {
		return errors.Wrapf(err, "texture %s", opt.texture)
	}
	b := img.Bounds()
	s.Texture = scene.TextureSize{Width: b.Dx(), Height: b.Dy()}
	logger.Debug("texture size", zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
	return nil
}

func sceneTree(s *scene.Scene) string {
	var sb strings.Builder
	s.Walk(func(n *scene.Node, depth int) {
		indent := strings.Repeat("  ", depth)
		switch n.Kind {
		case scene.KindGroup:
			fmt.Fprintf(&sb, "%s%s origin=%v rotation=%v\n", indent, n.Name, n.Group.Origin, n.Group.Rotation)
		case scene.KindCube:
			fmt.Fprintf(&sb, "%s[%s] from=%v to=%v uv=%v\n", indent, n.Name, n.Cube.From, n.Cube.To, n.Cube.UVOffset)
		}
	})
	return sb.String()
}
