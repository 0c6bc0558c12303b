package tree

// Config holds the glyphs used to draw a tree.
//
// A closed ancestor column is drawn as Space + Space*Depth + " ", an open one
// as Bar + Space*Depth + " ". A child line starts with Join (or Last for the
// final child) + Line*Depth + " ". Negative depths render like zero.
type Config struct {
	Space string
	Line  string
	Last  string
	Join  string
	Bar   string
	Depth int
}

// DefaultConfig returns the box-drawing glyph set:
//
//	root
//	├── a
//	│   └── b
//	└── c
func DefaultConfig() Config {
	return Config{
		Space: " ",
		Line:  "─",
		Last:  "└",
		Join:  "├",
		Bar:   "│",
		Depth: 2,
	}
}

// SimpleConfig returns a plain ASCII glyph set.
func SimpleConfig() Config {
	cfg := DefaultConfig()
	cfg.Line = "-"
	cfg.Last = "+"
	cfg.Join = "+"
	cfg.Bar = "|"
	return cfg
}

// TightConfig returns the default glyphs with single-width indentation.
func TightConfig() Config {
	return DefaultConfig().WithDepth(1)
}

// EmojiConfig returns the default layout drawn with emoji glyphs.
func EmojiConfig() Config {
	cfg := DefaultConfig()
	cfg.Line = "⟼"
	cfg.Last = "💔"
	cfg.Join = "💖"
	cfg.Bar = "🇮🇪|"
	return cfg
}

// WithDepth returns a copy of c with the given indentation depth.
func (c Config) WithDepth(depth int) Config {
	c.Depth = depth
	return c
}

// WithBar returns a copy of c with the given vertical bar glyph.
func (c Config) WithBar(bar string) Config {
	c.Bar = bar
	return c
}

// WithMarkers returns a copy of c with the given join and last markers.
func (c Config) WithMarkers(join, last string) Config {
	c.Join = join
	c.Last = last
	return c
}

// Map returns a copy of c with every glyph passed through fn.
// Depth is left as is.
func (c Config) Map(fn func(glyph string) string) Config {
	c.Space = fn(c.Space)
	c.Line = fn(c.Line)
	c.Last = fn(c.Last)
	c.Join = fn(c.Join)
	c.Bar = fn(c.Bar)
	return c
}

func (c Config) depth() int {
	if c.Depth < 0 {
		return 0
	}
	return c.Depth
}
