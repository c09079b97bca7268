package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/shar-tools/p3d_browser/config"
	"github.com/shar-tools/p3d_browser/p3d"
	"github.com/shar-tools/p3d_browser/p3d/p3dexport"
	"github.com/shar-tools/p3d_browser/utils"
)

var formatExt = map[string]string{
	"obj":  ".obj",
	"gltf": ".glb",
	"yaml": ".yaml",
	"json": ".json",
	"spew": ".txt",
}

func checkArgs(kind, format string) error {
	if !p3d.IsExtractKind(kind) {
		return errors.Errorf("unknown kind %q", kind)
	}
	if _, ok := formatExt[format]; !ok {
		return errors.Errorf("unknown format %q", format)
	}
	return nil
}

func writeVariants(w io.Writer, format string, variants []p3d.Variant, opts p3dexport.ShapeOptions) error {
	switch format {
	case "obj":
		return p3dexport.ExportObj(w, variants, opts)
	case "gltf":
		return p3dexport.WriteGLB(w, variants, opts)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return errors.Wrapf(enc.Encode(variants), "yaml")
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrapf(enc.Encode(p3d.JSONValue(variants)), "json")
	case "spew":
		utils.Dump(w, variants)
		return nil
	}
	return errors.Errorf("unknown format %q", format)
}

// extractFile decodes one file and writes the selected records next to outDir.
func extractFile(path, outDir, kind, format string, opts *p3d.Options, shapeOpts p3dexport.ShapeOptions) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrapf(err, "reading")
	}
	tree, err := p3d.DecodeTree(data, opts)
	if err != nil {
		return 0, err
	}
	if tree.Trailing != 0 {
		utils.Log.Warn().Str("file", path).Int("trailing", tree.Trailing).Msg("Trailing data after root chunk")
	}

	variants := p3d.Extract(tree.Root, p3d.KindPredicate(kind))
	if len(variants) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	if err := writeVariants(&buf, format, variants, shapeOpts); err != nil {
		return 0, err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(outDir, base+"_"+kind+formatExt[format])
	if err := os.WriteFile(outPath, buf.Bytes(), 0666); err != nil {
		return 0, errors.Wrapf(err, "writing %s", outPath)
	}
	return len(variants), nil
}

func inputFiles(in string) ([]string, error) {
	st, err := os.Stat(in)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return []string{in}, nil
	}
	entries, err := os.ReadDir(in)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, filepath.Join(in, e.Name()))
		}
	}
	return files, nil
}

func main() {
	var in, kind, format, configDir string
	var fenceHeight float32
	pflag.StringVar(&in, "in", "", "p3d file or directory of p3d files")
	pflag.String("out", "./export", "Output directory")
	pflag.StringVar(&kind, "kind", p3d.KIND_LOCATOR, "locator, fence, sphere, cylinder, obbox, intersect, collisionvec, unknown or all")
	pflag.StringVar(&format, "format", "obj", "obj, gltf, yaml, json or spew")
	pflag.Float32Var(&fenceHeight, "fenceheight", p3dexport.DefaultShapeOptions.FenceHeight, "Height of extruded fences")
	pflag.StringVar(&configDir, "config", "", "Directory with p3d_browser.yaml")
	pflag.String("encoding", config.ENCODING_UTF8, "Text encoding of string fields")
	pflag.String("logLevel", "info", "trace, debug, info, warn or error")
	pflag.Int("maxDepth", 512, "Maximum chunk nesting")
	pflag.Bool("explicitStack", false, "Walk chunks without recursion")
	pflag.Parse()

	if err := config.Load(configDir, pflag.CommandLine); err != nil {
		utils.Log.Fatal().Err(err).Msg("Failed to load config")
	}
	utils.InitLogger(config.GetString("logLevel"), os.Stderr)

	if in == "" {
		pflag.PrintDefaults()
		return
	}
	if err := checkArgs(kind, format); err != nil {
		utils.Log.Fatal().Err(err).Msg("Bad arguments")
	}

	outDir := config.GetString("out")
	if err := os.MkdirAll(outDir, 0777); err != nil {
		utils.Log.Fatal().Err(err).Msg("Failed to create output directory")
	}

	files, err := inputFiles(in)
	if err != nil {
		utils.Log.Fatal().Err(err).Msg("Failed to list input")
	}

	shapeOpts := p3dexport.DefaultShapeOptions
	shapeOpts.FenceHeight = fenceHeight
	opts := config.DecodeOptions()

	failed := 0
	for _, path := range files {
		count, err := extractFile(path, outDir, kind, format, opts, shapeOpts)
		if err != nil {
			failed++
			utils.Log.Warn().Str("file", path).Err(err).Msg("Skipped")
			continue
		}
		utils.Log.Info().Str("file", path).Int("records", count).Msg("Extracted")
	}
	if failed != 0 {
		os.Exit(1)
	}
}
