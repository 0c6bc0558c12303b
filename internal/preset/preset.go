package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/ms-henglu/treeline/internal/tree"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// FileSuffix marks preset files picked up by DiscoverPresetFiles.
const FileSuffix = ".treeline.hcl"

// Definition is one preset block from a preset file. Nil fields keep the
// value of the inherited preset.
type Definition struct {
	Name     string
	Inherits string
	File     string

	Space *string
	Line  *string
	Last  *string
	Join  *string
	Bar   *string
	Depth *int
}

// Apply returns base with the fields set in d overridden.
func (d Definition) Apply(base tree.Config) tree.Config {
	cfg := base
	if d.Space != nil {
		cfg.Space = *d.Space
	}
	if d.Line != nil {
		cfg.Line = *d.Line
	}
	if d.Last != nil {
		cfg.Last = *d.Last
	}
	if d.Join != nil {
		cfg.Join = *d.Join
	}
	if d.Bar != nil {
		cfg.Bar = *d.Bar
	}
	if d.Depth != nil {
		cfg.Depth = *d.Depth
	}
	return cfg
}

// Parse reads a preset file. Expressions may refer to the built-in presets,
// e.g. `bar = preset.simple.bar`.
func Parse(path string) ([]Definition, error) {
	var defs []Definition
	err := parseFile(path, NewRegistry().evalContext, func(def Definition) error {
		defs = append(defs, def)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}

func parseFile(path string, ctx func() *hcl.EvalContext, each func(Definition) error) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read preset file: %w", err)
	}
	return parseBytes(data, path, ctx, each)
}

// parseBytes checks the layout of the whole file, then decodes the preset
// blocks in order. ctx is called again for every block, so a block sees what
// each has done for the blocks before it.
func parseBytes(data []byte, filename string, ctx func() *hcl.EvalContext, each func(Definition) error) error {
	f, diags := hclsyntax.ParseConfig(data, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse presets: %s", diags.Error())
	}

	body, ok := f.Body.(*hclsyntax.Body)
	if !ok {
		return fmt.Errorf("failed to parse presets: unexpected body in %s", filename)
	}
	if names := sortedAttributeNames(body.Attributes); len(names) > 0 {
		attr := body.Attributes[names[0]]
		return fmt.Errorf("%s: unexpected attribute %q outside a preset block", attr.SrcRange, attr.Name)
	}

	for _, block := range body.Blocks {
		if block.Type != "preset" {
			return fmt.Errorf("%s: unsupported block type %q", block.TypeRange, block.Type)
		}
		if len(block.Labels) != 1 || block.Labels[0] == "" {
			return fmt.Errorf("%s: preset block needs exactly one non-empty name", block.TypeRange)
		}
		if len(block.Body.Blocks) > 0 {
			nested := block.Body.Blocks[0]
			return fmt.Errorf("%s: unexpected block %q inside preset %q", nested.TypeRange, nested.Type, block.Labels[0])
		}
	}

	for _, block := range body.Blocks {
		def, err := decodeDefinition(block, filename, ctx())
		if err != nil {
			return err
		}
		if err := each(def); err != nil {
			return err
		}
	}
	return nil
}

func decodeDefinition(block *hclsyntax.Block, filename string, ctx *hcl.EvalContext) (Definition, error) {
	def := Definition{Name: block.Labels[0], File: filename}

	for _, name := range sortedAttributeNames(block.Body.Attributes) {
		attr := block.Body.Attributes[name]
		val, diags := attr.Expr.Value(ctx)
		if diags.HasErrors() {
			return Definition{}, fmt.Errorf("preset %q: %s", def.Name, diags.Error())
		}

		if name == "depth" {
			depth, err := depthValue(val)
			if err != nil {
				return Definition{}, fmt.Errorf("%s: preset %q: depth %w", attr.SrcRange, def.Name, err)
			}
			def.Depth = &depth
			continue
		}

		s, err := stringValue(val)
		if err != nil {
			return Definition{}, fmt.Errorf("%s: preset %q: %s %w", attr.SrcRange, def.Name, name, err)
		}
		switch name {
		case "inherits":
			def.Inherits = s
		case "space":
			def.Space = &s
		case "line":
			def.Line = &s
		case "last":
			def.Last = &s
		case "join":
			def.Join = &s
		case "bar":
			def.Bar = &s
		default:
			return Definition{}, fmt.Errorf("%s: preset %q: unsupported attribute %q", attr.SrcRange, def.Name, name)
		}
	}
	return def, nil
}

func stringValue(val cty.Value) (string, error) {
	if val.IsNull() || !val.IsWhollyKnown() {
		return "", fmt.Errorf("must be a known string")
	}
	s, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("must be a string: %w", err)
	}
	return s.AsString(), nil
}

func depthValue(val cty.Value) (int, error) {
	if val.IsNull() || !val.IsWhollyKnown() {
		return 0, fmt.Errorf("must be a known number")
	}
	n, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("must be a number: %w", err)
	}
	var depth int
	if err := gocty.FromCtyValue(n, &depth); err != nil {
		return 0, fmt.Errorf("must be a whole number: %w", err)
	}
	if depth < 0 {
		return 0, fmt.Errorf("must not be negative, got %d", depth)
	}
	return depth, nil
}

// evalContext exposes the registered presets as the `preset` variable.
func (r *Registry) evalContext() *hcl.EvalContext {
	presets := make(map[string]cty.Value, len(r.presets))
	for name, e := range r.presets {
		presets[name] = ToCtyValue(e.config)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"preset": cty.ObjectVal(presets),
		},
	}
}

// ToCtyValue converts a config to an object with one attribute per field.
func ToCtyValue(cfg tree.Config) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"space": cty.StringVal(cfg.Space),
		"line":  cty.StringVal(cfg.Line),
		"last":  cty.StringVal(cfg.Last),
		"join":  cty.StringVal(cfg.Join),
		"bar":   cty.StringVal(cfg.Bar),
		"depth": cty.NumberIntVal(int64(cfg.Depth)),
	})
}

// DiscoverPresetFiles finds all *.treeline.hcl files in dir, sorted
// alphabetically so later files override earlier ones deterministically.
func DiscoverPresetFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+FileSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to glob preset files: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.Strings(matches)
	return matches, nil
}

func sortedAttributeNames(attrs hclsyntax.Attributes) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
