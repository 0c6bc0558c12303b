package preset

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/ms-henglu/treeline/internal/tree"
	"github.com/zclconf/go-cty/cty"
)

// Named is a config paired with the name it is registered under.
type Named struct {
	Name   string
	Config tree.Config
}

// Encode writes presets as formatted HCL preset blocks with every field set,
// so the output can be loaded back with LoadFiles.
func Encode(presets ...Named) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for i, p := range presets {
		if i > 0 {
			body.AppendNewline()
		}
		block := body.AppendNewBlock("preset", []string{p.Name})
		b := block.Body()
		b.SetAttributeValue("space", cty.StringVal(p.Config.Space))
		b.SetAttributeValue("line", cty.StringVal(p.Config.Line))
		b.SetAttributeValue("last", cty.StringVal(p.Config.Last))
		b.SetAttributeValue("join", cty.StringVal(p.Config.Join))
		b.SetAttributeValue("bar", cty.StringVal(p.Config.Bar))
		b.SetAttributeValue("depth", cty.NumberIntVal(int64(p.Config.Depth)))
	}
	return hclwrite.Format(f.Bytes())
}

// Lookup returns the named presets from r, in the order given.
func (r *Registry) Lookup(names ...string) ([]Named, error) {
	out := make([]Named, 0, len(names))
	for _, name := range names {
		cfg, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Named{Name: name, Config: cfg})
	}
	return out, nil
}
