package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/emjconv/config"
	"github.com/binzume/emjconv/converter"
	"github.com/binzume/emjconv/emj"
	"github.com/binzume/emjconv/logger"
	"github.com/binzume/emjconv/mqo"
	"github.com/binzume/emjconv/scene"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

type options struct {
	cfg     *config.Config
	texture string
	scale   float64
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s [options] <command> [args]

Commands:
  import <model.json> <project.yaml>
  export <project.yaml> <model.json>
  anim <project.yaml> <animation> <out.json>
  animimport <def.json> <project.yaml>
  preview <project.yaml|model.json> <out.glb|out.mqo>
  dump <project.yaml|model.json>

Options:
`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	configPath := flag.String("config", "emjconv.yaml", "config file")
	debug := flag.Bool("debug", false, "debug log")
	logFile := flag.String("log", "", "log file")
	texture := flag.String("texture", "", "texture image (sets texture size, embedded in previews)")
	scale := flag.Float64("scale", 0, "preview scale. 0:config")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Logging.Level = "debug"
	}
	if *logFile != "" {
		cfg.Logging.LogFile = *logFile
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, "logger error:", err)
		os.Exit(1)
	}
	defer logger.Sync()
	emj.Indent = cfg.Export.Indent

	opt := &options{cfg: cfg, texture: *texture, scale: *scale}
	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "import":
		err = runWithArgs(args, 2, func() error { return importModel(opt, args[0], args[1]) })
	case "export":
		err = runWithArgs(args, 2, func() error { return exportModel(opt, args[0], args[1]) })
	case "anim":
		err = runWithArgs(args, 3, func() error { return exportAnimation(args[0], args[1], args[2]) })
	case "animimport":
		err = runWithArgs(args, 2, func() error { return importAnimation(args[0], args[1]) })
	case "preview":
		err = runWithArgs(args, 2, func() error { return preview(opt, args[0], args[1]) })
	case "dump":
		err = runWithArgs(args, 1, func() error { return dump(opt, args[0]) })
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", cmd), zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		logger.Sync()
		os.Exit(1)
	}
}

func runWithArgs(args []string, n int, f func() error) error {
	if len(args) != n {
		flag.Usage()
		os.Exit(2)
	}
	return f()
}

func importModel(opt *options, input, output string) error {
	imported, err := loadModel(input)
	if err != nil {
		return err
	}
	project := scene.NewScene()
	if _, err := os.Stat(output); err == nil {
		if project, err = scene.Load(output); err != nil {
			return err
		}
	}
	roots := project.Attach(imported)
	if project.Name == "" {
		project.Name = baseName(input)
	}
	if err := applyTexture(opt, project); err != nil {
		return err
	}
	logger.Info("imported", zap.String("input", input), zap.Int("roots", len(roots)), zap.Int("nodes", len(project.Nodes)))
	return project.Save(output)
}

func exportModel(opt *options, input, output string) error {
	s, err := scene.Load(input)
	if err != nil {
		return err
	}
	if err := applyTexture(opt, s); err != nil {
		return err
	}
	doc, err := converter.NewSceneToEMJConverter(nil).Convert(s)
	if err != nil {
		return err
	}
	data, err := emj.Marshal(doc)
	if err != nil {
		return err
	}
	logger.Info("exported", zap.String("output", output), zap.Int("bytes", len(data)))
	return os.WriteFile(output, data, 0644)
}

func exportAnimation(input, name, output string) error {
	s, err := scene.Load(input)
	if err != nil {
		return err
	}
	a := s.FindAnimation(name)
	if a == nil {
		return errors.Errorf("animation not found: %s", name)
	}
	def, err := converter.NewAnimationToEMJConverter(nil).Convert(a)
	if err != nil {
		return errors.Wrapf(err, "animation %s", name)
	}
	data, err := emj.Marshal(def)
	if err != nil {
		return err
	}
	return os.WriteFile(output, data, 0644)
}

func importAnimation(input, output string) error {
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()
	def, err := emj.ParseAnimation(f)
	if err != nil {
		return errors.Wrapf(err, "read %s", input)
	}
	a, err := converter.NewEMJToAnimationConverter(nil).Convert(baseName(input), def)
	if err != nil {
		return err
	}

	project := scene.NewScene()
	if _, err := os.Stat(output); err == nil {
		if project, err = scene.Load(output); err != nil {
			return err
		}
	}
	project.AddAnimation(a)
	logger.Info("animation imported", zap.String("name", a.Name), zap.Int("animators", len(a.Animators)))
	return project.Save(output)
}

func preview(opt *options, input, output string) error {
	s, err := loadScene(input)
	if err != nil {
		return err
	}
	if err := applyTexture(opt, s); err != nil {
		return err
	}
	pc := opt.cfg.Preview

	switch ext := strings.ToLower(filepath.Ext(output)); ext {
	case ".glb":
		scale := pc.Scale
		if opt.scale != 0 {
			scale = float32(opt.scale)
		}
		doc, err := converter.NewSceneToGLTFConverter(&converter.SceneToGLTFOption{
			Scale:        scale,
			ForceUnlit:   pc.ForceUnlit,
			Texture:      opt.texture,
			TextureScale: pc.TextureScale,
		}).Convert(s)
		if err != nil {
			return err
		}
		return gltf.SaveBinary(doc, output)
	case ".mqo":
		doc, err := converter.NewSceneToMQOConverter(&converter.SceneToMQOOption{
			Scale:   float32(opt.scale),
			Texture: opt.texture,
		}).Convert(s)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := mqo.WriteMQO(doc, &buf, &mqo.WriterOption{ShiftJIS: pc.ShiftJIS}); err != nil {
			return err
		}
		return os.WriteFile(output, buf.Bytes(), 0644)
	default:
		return errors.Errorf("unsupported output type: %v", ext)
	}
}

func dump(opt *options, input string) error {
	s, err := loadScene(input)
	if err != nil {
		return err
	}
	if err := applyTexture(opt, s); err != nil {
		return err
	}
	fmt.Println(sceneTree(s))
	Dump(s.Texture, s.Mesh, s.Animations)
	return nil
}
