package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/ms-henglu/treeline/internal/log"
	"github.com/ms-henglu/treeline/internal/source"
	"github.com/ms-henglu/treeline/internal/tree"
	"github.com/ms-henglu/treeline/internal/walk"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	preset      string
	presetFiles []string
	depth       int
	depthSet    bool
	color       bool
	noReport    bool
	refresh     bool
	save        string
	walk        walk.Options
}

func NewRenderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [source]",
		Short: "Print a directory as a tree",
		Long: `Print a directory as an indented, branch-connected tree.

The source defaults to the current directory. Anything that is not an
existing path is treated as a go-getter address and downloaded into the
cache first, for example:

  treeline render git::https://github.com/ms-henglu/treeline.git?ref=main
  treeline render github.com/ms-henglu/treeline

Glyphs come from a preset. Presets are either built-in (see 'treeline presets
list') or defined in *.treeline.hcl files in the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := "."
			if len(args) == 1 {
				src = args[0]
			}
			opts.depthSet = cmd.Flags().Changed("depth")
			return runRender(cmd.Context(), cmd.OutOrStdout(), src, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.preset, "preset", "p", "default", "Glyph preset to render with")
	cmd.Flags().StringArrayVar(&opts.presetFiles, "presets-file", nil, "Preset file to load instead of discovering *.treeline.hcl (repeatable)")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "Override the indentation depth of the preset")
	cmd.Flags().BoolVar(&opts.color, "color", false, "Colorize the branch glyphs")
	cmd.Flags().BoolVar(&opts.noReport, "no-report", false, "Omit the directory/file count")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "Download a remote source again even if it is cached")
	cmd.Flags().StringVar(&opts.save, "save", "", "Save a copy of the resolved source to this directory")
	cmd.Flags().BoolVarP(&opts.walk.Hidden, "all", "a", false, "Include hidden entries")
	cmd.Flags().BoolVarP(&opts.walk.DirsOnly, "dirs-only", "d", false, "List directories only")
	cmd.Flags().IntVarP(&opts.walk.MaxLevel, "level", "L", 0, "Descend at most this many levels (0 for unlimited)")
	cmd.Flags().StringArrayVarP(&opts.walk.Exclude, "exclude", "I", nil, "Skip entries whose name matches the pattern (repeatable)")
	cmd.Flags().BoolVarP(&opts.walk.Reverse, "reverse", "r", false, "Reverse the sort order")
	cmd.Flags().BoolVar(&opts.walk.ShowTargets, "targets", false, "Show symlink targets")

	return cmd
}

func runRender(ctx context.Context, out io.Writer, src string, opts renderOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := renderConfig(opts)
	if err != nil {
		return err
	}

	resolved, err := source.Resolve(ctx, src, source.Options{Refresh: opts.refresh})
	if err != nil {
		return err
	}
	if resolved.Remote {
		status := "downloaded"
		if resolved.CacheHit {
			status = "cache hit"
		}
		log.Debug("Resolved %s to %s (%s)", src, resolved.Path, status)
	}

	root, stats, err := walk.New(opts.walk).Walk(resolved.Path)
	if err != nil {
		return err
	}
	log.Debug("Walked %d nodes, %d levels deep", root.Size(), root.Height())
	if resolved.Remote {
		// the cache directory name means nothing to the user
		root = tree.New(walk.Entry{Name: src, Dir: true}, root.Children()...)
	}

	if err := tree.Fprint(out, root, cfg); err != nil {
		return fmt.Errorf("failed to write tree: %w", err)
	}
	if !opts.noReport {
		if _, err := fmt.Fprintf(out, "\n%s\n", stats.Report()); err != nil {
			return fmt.Errorf("failed to write tree: %w", err)
		}
	}

	if opts.save != "" {
		if err := source.Save(resolved.Path, opts.save); err != nil {
			return err
		}
		log.Hint(fmt.Sprintf("Saved a copy of %s to %s", src, opts.save))
	}
	return nil
}

func renderConfig(opts renderOptions) (tree.Config, error) {
	registry, err := loadRegistry(opts.presetFiles)
	if err != nil {
		return tree.Config{}, err
	}
	cfg, err := registry.Get(opts.preset)
	if err != nil {
		log.Hint("Run 'treeline presets list' to see the available presets.")
		return tree.Config{}, err
	}
	if opts.depthSet {
		if opts.depth < 0 {
			return tree.Config{}, fmt.Errorf("depth must not be negative, got %d", opts.depth)
		}
		cfg = cfg.WithDepth(opts.depth)
	}
	if opts.color {
		cfg = colorize(cfg)
	}
	return cfg, nil
}

func colorize(cfg tree.Config) tree.Config {
	c := color.New(color.FgHiBlack)
	c.EnableColor()
	return cfg.Map(func(glyph string) string {
		if strings.TrimSpace(glyph) == "" {
			return glyph
		}
		return c.Sprint(glyph)
	})
}
