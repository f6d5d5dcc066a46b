package converter

import (
	"os"
	"strings"
	"testing"

	"github.com/binzume/emjconv/emj"
	"github.com/binzume/emjconv/geom"
	"github.com/binzume/emjconv/scene"
)

func exportJSON(t *testing.T, s *scene.Scene) []byte {
	t.Helper()
	doc, err := NewSceneToEMJConverter(nil).Convert(s)
	if err != nil {
		t.Fatal(err)
	}
	data, err := emj.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestRoundTrip(t *testing.T) {
	src, err := os.ReadFile(SkeletonPath)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewEMJToSceneConverter(nil).Convert(loadModel(t, SkeletonPath))
	if err != nil {
		t.Fatal(err)
	}
	out := exportJSON(t, s)
	if !jsonEqual(decodeJSON(t, src), decodeJSON(t, out)) {
		t.Errorf("round trip mismatch:\n%s", out)
	}

	// and once more from our own output
	doc, err := emj.ParseBytes(out)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := NewEMJToSceneConverter(nil).Convert(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !jsonEqual(decodeJSON(t, out), decodeJSON(t, exportJSON(t, s2))) {
		t.Error("second round trip mismatch")
	}
}

func TestRoundTripMultiRoot(t *testing.T) {
	tests := []struct {
		name  string
		build func(s *scene.Scene)
	}{
		{"group and cube", func(s *scene.Scene) {
			a := s.AddGroup(scene.NoParent, "A", scene.Group{Origin: geom.Vector3{X: 1, Y: 2, Z: 3}})
			s.AddCube(a, "inner", scene.Cube{From: geom.Vector3{X: 0, Y: 2, Z: 3}, To: geom.Vector3{X: 1, Y: 3, Z: 4}})
			s.AddCube(scene.NoParent, "B", scene.Cube{To: geom.Vector3{X: 2, Y: 2, Z: 2}, MirrorUV: true})
		}},
		{"two cubes", func(s *scene.Scene) {
			s.AddCube(scene.NoParent, "B", scene.Cube{To: geom.Vector3{X: 2, Y: 2, Z: 2}})
			s.AddCube(scene.NoParent, "C", scene.Cube{From: geom.Vector3{X: -1, Y: -1, Z: -1}, Inflate: 0.25})
		}},
		{"single cube", func(s *scene.Scene) {
			s.AddCube(scene.NoParent, "cube", scene.Cube{To: geom.Vector3{X: 1, Y: 1, Z: 1}})
		}},
		{"two groups", func(s *scene.Scene) {
			s.AddGroup(scene.NoParent, "A", scene.Group{Rotation: geom.Vector3{Y: 45}})
			s.AddGroup(scene.NoParent, "B", scene.Group{Origin: geom.Vector3{Y: 8}})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.NewScene()
			tt.build(s)
			first := exportJSON(t, s)

			doc, err := emj.ParseBytes(first)
			if err != nil {
				t.Fatal(err)
			}
			imported, err := NewEMJToSceneConverter(nil).Convert(doc)
			if err != nil {
				t.Fatal(err)
			}
			second := exportJSON(t, imported)
			if !jsonEqual(decodeJSON(t, first), decodeJSON(t, second)) {
				t.Errorf("round trip differs:\n%s\n%s", first, second)
			}
		})
	}
}

func TestSceneToEMJTexScale(t *testing.T) {
	s := scene.NewScene()
	root := s.AddGroup(scene.NoParent, "root", scene.Group{})
	s.AddCube(root, "a", scene.Cube{To: geom.Vector3{X: 1, Y: 1, Z: 1}, TexScale: &geom.Vector2{X: 1, Y: 0.5}})
	s.AddCube(root, "b", scene.Cube{To: geom.Vector3{X: 1, Y: 1, Z: 1}, TexScale: &geom.Vector2{X: 1, Y: 1}})

	doc, err := NewSceneToEMJConverter(nil).Convert(s)
	if err != nil {
		t.Fatal(err)
	}
	a, b := doc.Mesh.Root.Cubes.Cubes[0], doc.Mesh.Root.Cubes.Cubes[1]
	if a.TexScaleX != nil || a.TexScaleY == nil || *a.TexScaleY != 0.5 {
		t.Errorf("a: %v %v", a.TexScaleX, a.TexScaleY)
	}
	if b.TexScaleX != nil || b.TexScaleY != nil {
		t.Error("default tex scale should be omitted")
	}
}

func TestRoundTripKeepsOrder(t *testing.T) {
	src := `{"mesh": {"root": {"children": {"z": {}, "a": {}, "m": {}}}}}`
	s, err := NewEMJToSceneConverter(nil).Convert(parseModel(t, src))
	if err != nil {
		t.Fatal(err)
	}
	out := string(exportJSON(t, s))
	z, a, m := strings.Index(out, `"z"`), strings.Index(out, `"a"`), strings.Index(out, `"m"`)
	if !(z < a && a < m) {
		t.Errorf("children order lost:\n%s", out)
	}
}

func TestSceneToEMJOmitsDefaults(t *testing.T) {
	s := scene.NewScene()
	root := s.AddGroup(scene.NoParent, "root", scene.Group{})
	s.AddCube(root, "cube", scene.Cube{To: geom.Vector3{X: 1, Y: 1, Z: 1}})

	out := decodeJSON(t, exportJSON(t, s))
	mesh := out["mesh"].(map[string]interface{})
	part := mesh["root"].(map[string]interface{})
	if _, ok := part["partPose"]; ok {
		t.Error("partPose should be omitted")
	}
	if _, ok := part["children"]; ok {
		t.Error("children should be omitted")
	}
	cube := part["cubes"].([]interface{})[0].(map[string]interface{})
	for _, key := range []string{"comment", "mirror", "grow"} {
		if _, ok := cube[key]; ok {
			t.Errorf("%s should be omitted", key)
		}
	}
	for _, key := range []string{"origin", "dimensions", "texCoord"} {
		if _, ok := cube[key]; !ok {
			t.Errorf("%s is required", key)
		}
	}
	// always written
	material := out["material"].(map[string]interface{})
	if material["xTexSize"] != 64.0 || material["yTexSize"] != 32.0 {
		t.Errorf("material: %v", material)
	}
}

func TestSceneToEMJPartPose(t *testing.T) {
	s := scene.NewScene()
	root := s.AddGroup(scene.NoParent, "root", scene.Group{})
	s.AddGroup(root, "arm", scene.Group{
		Origin:   geom.Vector3{X: 5, Y: -22, Z: 0},
		Rotation: geom.Vector3{X: 0, Y: 0, Z: 90},
	})

	doc, err := NewSceneToEMJConverter(nil).Convert(s)
	if err != nil {
		t.Fatal(err)
	}
	arm, ok := doc.Mesh.Root.Children.Get("arm")
	if !ok {
		t.Fatal("arm not found")
	}
	pose := arm.PartPose
	if pose.Offset() != (emj.Vec3{-5, 22, 0}) {
		t.Errorf("offset: %v", pose.Offset())
	}
	if !approxEqual(*pose.ZRot, geom.DegToRad(90)) || *pose.XRot != 0 || *pose.YRot != 0 {
		t.Errorf("rotation: %v", pose.Rotation())
	}

	// -0 must not leak into the output
	out := string(exportJSON(t, s))
	if strings.Contains(out, "-0") {
		t.Errorf("negative zero in output:\n%s", out)
	}
}

func TestSceneToEMJCube(t *testing.T) {
	s := scene.NewScene()
	s.Texture = scene.TextureSize{Width: 128, Height: 128}
	root := s.AddGroup(scene.NoParent, "root", scene.Group{Origin: geom.Vector3{X: 0, Y: -10, Z: 0}})
	s.AddCube(root, "hat", scene.Cube{
		From:     geom.Vector3{X: -4, Y: -10, Z: -4},
		To:       geom.Vector3{X: 4, Y: -2, Z: 4},
		Inflate:  0.5,
		MirrorUV: true,
		UVOffset: geom.Vector2{X: 32, Y: 16},
	})

	doc, err := NewSceneToEMJConverter(nil).Convert(s)
	if err != nil {
		t.Fatal(err)
	}
	cube := doc.Mesh.Root.Cubes.Cubes[0]
	// pos = flip(4, -2, -4) = (-4, 2, -4), bOrigin = (0, 10, 0)
	if *cube.Origin != (emj.Vec3{-4, -8, -4}) {
		t.Errorf("origin: %v", *cube.Origin)
	}
	if *cube.Dimensions != (emj.Vec3{8, 8, 8}) {
		t.Errorf("dimensions: %v", *cube.Dimensions)
	}
	if *cube.TexCoord != (emj.TexCoord{U: 32, V: 16}) {
		t.Errorf("texCoord: %v", *cube.TexCoord)
	}
	if cube.Name() != "hat" || cube.Mirror == nil || !*cube.Mirror || cube.Grow == nil || *cube.Grow != 0.5 {
		t.Errorf("cube: %+v", cube)
	}
	if *doc.Material.XTexSize != 128 || *doc.Material.YTexSize != 128 {
		t.Errorf("material: %v %v", *doc.Material.XTexSize, *doc.Material.YTexSize)
	}
}

func TestSceneToEMJMultiRoot(t *testing.T) {
	s := scene.NewScene()
	s.AddGroup(scene.NoParent, "A", scene.Group{Origin: geom.Vector3{X: 1, Y: 2, Z: 3}})
	s.AddCube(scene.NoParent, "B", scene.Cube{To: geom.Vector3{X: 2, Y: 2, Z: 2}})

	out := decodeJSON(t, exportJSON(t, s))
	root := out["mesh"].(map[string]interface{})["root"].(map[string]interface{})
	if len(root) != 2 {
		t.Errorf("root keys: %v", root)
	}
	children := root["children"].(map[string]interface{})
	a := children["A"].(map[string]interface{})
	pose := a["partPose"].(map[string]interface{})
	if pose["x"] != -1.0 || pose["y"] != -2.0 || pose["z"] != 3.0 {
		t.Errorf("A partPose: %v", pose)
	}
	cubes, ok := root["cubes"].(map[string]interface{})
	if !ok {
		t.Fatalf("cubes should be keyed by name: %v", root["cubes"])
	}
	b := cubes["B"].(map[string]interface{})
	if b["comment"] != "B" {
		t.Errorf("B: %v", b)
	}
	if !jsonEqual(b["origin"], []interface{}{-2.0, -2.0, 0.0}) {
		t.Errorf("B origin: %v", b["origin"])
	}
}

func TestSceneToEMJSingleRoot(t *testing.T) {
	s := scene.NewScene()
	root := s.AddGroup(scene.NoParent, "root", scene.Group{})
	s.AddGroup(root, "body", scene.Group{})

	out := decodeJSON(t, exportJSON(t, s))
	part := out["mesh"].(map[string]interface{})["root"].(map[string]interface{})
	children := part["children"].(map[string]interface{})
	if _, ok := children["root"]; ok {
		t.Error("single root must not be wrapped")
	}
	if _, ok := children["body"]; !ok {
		t.Errorf("children: %v", children)
	}
}

func TestSceneToEMJSingleCubeRoot(t *testing.T) {
	s := scene.NewScene()
	s.AddCube(scene.NoParent, "cube", scene.Cube{To: geom.Vector3{X: 1, Y: 1, Z: 1}})

	doc, err := NewSceneToEMJConverter(nil).Convert(s)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Mesh.Root.Cubes.Len() != 1 || !doc.Mesh.Root.Cubes.Keyed() {
		t.Errorf("cube root should be wrapped: %+v", doc.Mesh.Root)
	}
}

func TestSceneToEMJStaleChild(t *testing.T) {
	s := scene.NewScene()
	root := s.AddGroup(scene.NoParent, "root", scene.Group{})
	a := s.AddGroup(root, "a", scene.Group{})
	b := s.AddGroup(root, "b", scene.Group{})
	cube := s.AddCube(a, "cube", scene.Cube{To: geom.Vector3{X: 1, Y: 1, Z: 1}})
	// stale membership: listed under b, but owned by a
	s.Node(b).Children = append(s.Node(b).Children, cube, cube)

	doc, err := NewSceneToEMJConverter(nil).Convert(s)
	if err != nil {
		t.Fatal(err)
	}
	pa, _ := doc.Mesh.Root.Children.Get("a")
	pb, _ := doc.Mesh.Root.Children.Get("b")
	if pa.Cubes.Len() != 1 {
		t.Errorf("a cubes: %d", pa.Cubes.Len())
	}
	if pb.Cubes != nil {
		t.Errorf("b cubes: %d", pb.Cubes.Len())
	}
}

func TestSceneToEMJMeshOptions(t *testing.T) {
	parent := "minecraft:zombie"
	deformation := 0.25
	s := scene.NewScene()
	s.Mesh = scene.MeshOptions{Parent: &parent, UniversalCubeDeformation: &deformation}
	s.AddGroup(scene.NoParent, "root", scene.Group{})

	out := decodeJSON(t, exportJSON(t, s))
	mesh := out["mesh"].(map[string]interface{})
	if mesh["parent"] != parent || mesh["universalCubeDeformation"] != deformation {
		t.Errorf("mesh: %v", mesh)
	}
	if _, ok := mesh["overwrite"]; ok {
		t.Error("overwrite should be omitted")
	}
}
