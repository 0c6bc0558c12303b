package preset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ms-henglu/treeline/internal/tree"
)

// BuiltinOrigin is reported by Origin for presets that ship with treeline.
const BuiltinOrigin = "built-in"

var ErrUnknownPreset = errors.New("unknown preset")

// Registry maps preset names to glyph configurations.
type Registry struct {
	presets map[string]entry
}

type entry struct {
	config tree.Config
	origin string
}

// Builtins returns the presets that every registry starts with.
func Builtins() map[string]tree.Config {
	return map[string]tree.Config{
		"default": tree.DefaultConfig(),
		"simple":  tree.SimpleConfig(),
		"tight":   tree.TightConfig(),
		"emoji":   tree.EmojiConfig(),
	}
}

func NewRegistry() *Registry {
	r := &Registry{presets: make(map[string]entry)}
	for name, cfg := range Builtins() {
		r.presets[name] = entry{config: cfg, origin: BuiltinOrigin}
	}
	return r
}

func (r *Registry) Get(name string) (tree.Config, error) {
	e, ok := r.presets[name]
	if !ok {
		return tree.Config{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return e.config, nil
}

// Set adds or replaces a preset. Last write wins.
func (r *Registry) Set(name string, cfg tree.Config) {
	r.presets[name] = entry{config: cfg}
}

// Origin returns where a preset was defined: BuiltinOrigin, the file it was
// loaded from, or "" for presets added with Set.
func (r *Registry) Origin(name string) string {
	return r.presets[name].origin
}

// Names returns the preset names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFiles parses preset files in order and registers their definitions.
// A preset may inherit from or refer to any preset already registered,
// including one defined earlier in the same file; redefinitions override.
// A file that fails to load leaves the registry untouched.
func (r *Registry) LoadFiles(paths ...string) error {
	for _, path := range paths {
		next := r.clone()
		if err := parseFile(path, next.evalContext, next.apply); err != nil {
			return err
		}
		r.presets = next.presets
	}
	return nil
}

func (r *Registry) clone() *Registry {
	c := &Registry{presets: make(map[string]entry, len(r.presets))}
	for name, e := range r.presets {
		c.presets[name] = e
	}
	return c
}

func (r *Registry) apply(def Definition) error {
	baseName := def.Inherits
	if baseName == "" {
		baseName = "default"
	}
	base, err := r.Get(baseName)
	if err != nil {
		return fmt.Errorf("preset %q in %s inherits %w", def.Name, def.File, err)
	}
	r.presets[def.Name] = entry{config: def.Apply(base), origin: def.File}
	return nil
}
