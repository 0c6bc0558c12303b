package tree

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Print writes the rendered tree to stdout.
func Print[L any](t *Tree[L], cfg Config) error {
	return Fprint(os.Stdout, t, cfg)
}

// Fprint writes the rendered tree to w. The root label goes on the first line,
// then every descendant in depth-first order, one per line, each line ending
// with a newline.
//
// The first write error stops the render and is returned unchanged; whatever
// was already written stays written.
func Fprint[L any](w io.Writer, t *Tree[L], cfg Config) error {
	_, err := printTree(newPrinter(w, cfg), t)
	return err
}

// Render returns the rendered tree as a string.
func Render[L any](t *Tree[L], cfg Config) string {
	var sb strings.Builder
	_ = Fprint(&sb, t, cfg)
	return sb.String()
}

// String renders t with DefaultConfig.
func (t *Tree[L]) String() string {
	return Render(t, DefaultConfig())
}

// WriteTo renders t with DefaultConfig and implements io.WriterTo.
func (t *Tree[L]) WriteTo(w io.Writer) (int64, error) {
	return printTree(newPrinter(w, DefaultConfig()), t)
}

// Styled pairs a tree with the config it should be printed with.
type Styled[L any] struct {
	Tree   *Tree[L]
	Config Config
}

func With[L any](t *Tree[L], cfg Config) Styled[L] {
	return Styled[L]{Tree: t, Config: cfg}
}

func (s Styled[L]) String() string {
	return Render(s.Tree, s.Config)
}

func (s Styled[L]) WriteTo(w io.Writer) (int64, error) {
	return printTree(newPrinter(w, s.Config), s.Tree)
}

type printer struct {
	w   io.Writer
	n   int64
	err error

	// Column groups, built once per render.
	open   string
	closed string
	join   string
	last   string
}

func newPrinter(w io.Writer, cfg Config) *printer {
	fill := strings.Repeat(cfg.Space, cfg.depth())
	line := strings.Repeat(cfg.Line, cfg.depth())
	return &printer{
		w:      w,
		open:   cfg.Bar + fill + " ",
		closed: cfg.Space + fill + " ",
		join:   cfg.Join + line + " ",
		last:   cfg.Last + line + " ",
	}
}

func printTree[L any](p *printer, t *Tree[L]) (int64, error) {
	if t == nil {
		return 0, nil
	}
	p.label(t.label)
	p.str("\n")
	printChildren(p, t, "")
	return p.n, p.err
}

// printChildren draws the children of node. prefix holds one group per
// ancestor level: open (bar) while that ancestor still has siblings below it,
// closed (blank) once it was the last of its siblings.
func printChildren[L any](p *printer, node *Tree[L], prefix string) {
	for i, child := range node.children {
		if p.err != nil {
			return
		}
		isLast := i == len(node.children)-1

		connector := p.join
		if isLast {
			connector = p.last
		}
		p.str(prefix)
		p.str(connector)
		p.label(child.label)
		p.str("\n")

		if len(child.children) == 0 {
			continue
		}
		childPrefix := prefix + p.open
		if isLast {
			childPrefix = prefix + p.closed
		}
		printChildren(p, child, childPrefix)
	}
}

func (p *printer) str(s string) {
	if p.err != nil || s == "" {
		return
	}
	n, err := io.WriteString(p.w, s)
	p.n += int64(n)
	p.err = err
}

func (p *printer) label(v any) {
	if p.err != nil {
		return
	}
	n, err := fmt.Fprint(p.w, v)
	p.n += int64(n)
	p.err = err
}
