package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ms-henglu/treeline/internal/log"
	"github.com/ms-henglu/treeline/internal/preset"
	"github.com/ms-henglu/treeline/internal/tree"
	"github.com/spf13/cobra"
)

func NewPresetsCmd() *cobra.Command {
	var presetFiles []string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List and inspect glyph presets",
	}
	cmd.PersistentFlags().StringArrayVar(&presetFiles, "presets-file", nil, "Preset file to load instead of discovering *.treeline.hcl (repeatable)")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(presetFiles)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range registry.Names() {
				cfg, _ := registry.Get(name)
				origin := registry.Origin(name)
				if origin == "" {
					origin = "-"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", name, origin, sampleLine(cfg))
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>...",
		Short: "Print presets as HCL together with a sample tree",
		Long: `Print presets as HCL together with a sample tree.

The HCL output can be saved to a *.treeline.hcl file and edited to define a
new preset.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(presetFiles)
			if err != nil {
				return err
			}
			named, err := registry.Lookup(args...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, p := range named {
				if i > 0 {
					_, _ = fmt.Fprintln(out)
				}
				if _, err := out.Write(preset.Encode(p)); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out)
				if err := tree.Fprint(out, sampleTree(), p.Config); err != nil {
					return err
				}
			}
			return nil
		},
	})

	return cmd
}

// loadRegistry returns the built-in presets plus user presets. Explicit files
// must load cleanly; discovered files that fail are skipped with a warning.
func loadRegistry(files []string) (*preset.Registry, error) {
	registry := preset.NewRegistry()
	if len(files) > 0 {
		if err := registry.LoadFiles(files...); err != nil {
			return nil, err
		}
		return registry, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	discovered, err := preset.DiscoverPresetFiles(cwd)
	if err != nil {
		return nil, err
	}
	for _, file := range discovered {
		log.Debug("Loading presets from %s", file)
		if err := registry.LoadFiles(file); err != nil {
			log.Warn(fmt.Sprintf("Skipping preset file: %s", err))
		}
	}
	return registry, nil
}

func sampleTree() *tree.Tree[string] {
	return tree.New("treeline",
		tree.New("cmd",
			tree.Root("presets.go"),
			tree.Root("render.go"),
		),
		tree.New("internal",
			tree.New("tree", tree.Root("render.go")),
			tree.Root("walk"),
		),
		tree.Root("main.go"),
	)
}

// sampleLine shows a preset's two markers on one line, e.g. "├── a  └── b".
func sampleLine(cfg tree.Config) string {
	out := tree.Render(tree.New("", tree.Root("a"), tree.Root("b")), cfg)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	return strings.Join(lines[1:], "  ")
}
