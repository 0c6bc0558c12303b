package walk

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ms-henglu/treeline/internal/log"
	"github.com/ms-henglu/treeline/internal/tree"
)

// Entry is the label of a directory tree node.
type Entry struct {
	Name    string
	Dir     bool
	Symlink bool
	Target  string

	showTarget bool
}

func (e Entry) String() string {
	if e.Symlink && e.showTarget && e.Target != "" {
		return e.Name + " -> " + e.Target
	}
	return e.Name
}

type Options struct {
	// Hidden includes entries whose name starts with a dot.
	Hidden bool
	// DirsOnly skips everything that is not a directory.
	DirsOnly bool
	// MaxLevel limits how deep the walk descends; 0 means unlimited.
	MaxLevel int
	// Exclude holds filepath.Match patterns tested against entry names.
	Exclude []string
	// Reverse lists entries in reverse name order.
	Reverse bool
	// ShowTargets appends " -> target" to symlink labels.
	ShowTargets bool
}

type Stats struct {
	Dirs   int
	Files  int
	Errors int
}

// Report formats the summary line printed under a rendered directory tree.
func (s Stats) Report() string {
	report := fmt.Sprintf("%d %s, %d %s", s.Dirs, plural(s.Dirs, "directory", "directories"), s.Files, plural(s.Files, "file", "files"))
	if s.Errors > 0 {
		report += fmt.Sprintf(", %d %s", s.Errors, plural(s.Errors, "error", "errors"))
	}
	return report
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Walker builds directory trees. The zero value walks with default options.
type Walker struct {
	opts  Options
	stats Stats
}

func New(opts Options) *Walker {
	return &Walker{opts: opts}
}

// Dir walks root with opts and returns the resulting tree.
func Dir(root string, opts Options) (*tree.Tree[Entry], error) {
	t, _, err := New(opts).Walk(root)
	return t, err
}

// Walk builds the tree rooted at root. The root label is the base name of its
// absolute, symlink-free path. An unreadable root is an error; an unreadable
// subdirectory becomes a leaf and is counted in Stats.Errors.
func (w *Walker) Walk(root string) (*tree.Tree[Entry], Stats, error) {
	for _, pattern := range w.opts.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, Stats{}, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, Stats{}, fmt.Errorf("%s is not a directory", root)
	}

	w.stats = Stats{}
	node := tree.Root(Entry{Name: rootName(canonical), Dir: true})
	if err := w.walkDir(node, canonical, 1); err != nil {
		return nil, Stats{}, err
	}
	return node, w.stats, nil
}

func rootName(path string) string {
	name := filepath.Base(path)
	if name == string(filepath.Separator) || name == "." {
		return path
	}
	return name
}

func (w *Walker) walkDir(parent *tree.Tree[Entry], dir string, level int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if level == 1 {
			return fmt.Errorf("failed to read directory %s: %w", dir, err)
		}
		w.stats.Errors++
		log.Warn(fmt.Sprintf("Skipping %s: %v", dir, err))
		return nil
	}
	if w.opts.Reverse {
		slices.Reverse(entries)
	}

	for _, e := range entries {
		name := e.Name()
		if !w.opts.Hidden && strings.HasPrefix(name, ".") {
			continue
		}
		if w.excluded(name) {
			log.Debug("Excluding %s", filepath.Join(dir, name))
			continue
		}

		path := filepath.Join(dir, name)
		entry := Entry{Name: name, Dir: e.IsDir(), showTarget: w.opts.ShowTargets}
		if e.Type()&os.ModeSymlink != 0 {
			entry.Symlink = true
			if target, err := os.Readlink(path); err == nil {
				entry.Target = target
			}
			// a link to a directory is listed with the directories but never entered
			if info, err := os.Stat(path); err == nil {
				entry.Dir = info.IsDir()
			}
		}

		if w.opts.DirsOnly && !entry.Dir {
			continue
		}

		child := tree.Root(entry)
		parent.Push(child)
		if !entry.Dir {
			w.stats.Files++
			continue
		}
		w.stats.Dirs++
		if entry.Symlink || (w.opts.MaxLevel > 0 && level >= w.opts.MaxLevel) {
			continue
		}
		if err := w.walkDir(child, path, level+1); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) excluded(name string) bool {
	for _, pattern := range w.opts.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
