// Package recipe loads HCL run descriptions. A recipe names one or more
// datasets, where to read their ranked edge tables from, where to put the
// outputs, and which thresholds and filter rules apply:
//
//	variables {
//	  bucket = "s3://grn-course"
//	}
//
//	dataset "yeast" {
//	  input     = "${bucket}/yeast/edges.csv"
//	  output    = "${bucket}/yeast/out"
//	  min_score = 0.75
//	  max_edges = 50000
//	  rules     = "rules/yeast.yaml"
//	}
package recipe

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// Dataset is one unit of work: a ranked edge table and its destinations.
type Dataset struct {
	Name     string  `hcl:"name,label"`
	Input    string  `hcl:"input"`
	Output   string  `hcl:"output"`
	MinScore float64 `hcl:"min_score,optional"`
	MaxEdges int     `hcl:"max_edges,optional"`
	Rules    string  `hcl:"rules,optional"`
	Sort     bool    `hcl:"sort,optional"`
}

// Recipe is the decoded recipe file.
type Recipe struct {
	Datasets []Dataset
}

type recipeBody struct {
	Variables *variablesBlock `hcl:"variables,block"`
	Datasets  []Dataset       `hcl:"dataset,block"`
}

type variablesBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Schema to pull the variables block out ahead of full decoding.
var topSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "variables", LabelNames: nil},
		{Type: "dataset", LabelNames: []string{"name"}},
	},
}

// Load parses an HCL recipe file. Attributes of the variables block become
// string-interpolatable values for the dataset blocks.
func Load(path string) (*Recipe, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe %s: %w", path, err)
	}
	return Parse(src, path)
}

// Parse decodes recipe source. filename is used for diagnostics only.
func Parse(src []byte, filename string) (*Recipe, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse recipe %s: %w", filename, diags)
	}

	ctx := &hcl.EvalContext{Variables: map[string]cty.Value{}}

	// First pass: collect variables so dataset attributes can reference them.
	content, _, _ := file.Body.PartialContent(topSchema)
	for _, block := range content.Blocks {
		if block.Type != "variables" {
			continue
		}
		if err := evalVariables(block.Body, ctx); err != nil {
			return nil, fmt.Errorf("recipe %s: %w", filename, err)
		}
	}

	// Second pass: decode dataset blocks with variables in scope.
	var body recipeBody
	if diags := gohcl.DecodeBody(file.Body, ctx, &body); diags.HasErrors() {
		return nil, fmt.Errorf("decode recipe %s: %w", filename, diags)
	}

	r := &Recipe{Datasets: body.Datasets}
	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("recipe %s: %w", filename, err)
	}
	return r, nil
}

func evalVariables(body hcl.Body, ctx *hcl.EvalContext) error {
	syn, ok := body.(*hclsyntax.Body)
	if !ok {
		return fmt.Errorf("variables block is not native HCL syntax")
	}
	for name, attr := range syn.Attributes {
		val, diags := attr.Expr.Value(ctx)
		if diags.HasErrors() {
			return fmt.Errorf("variable %s: %w", name, diags)
		}
		ctx.Variables[name] = val
	}
	return nil
}

func (r *Recipe) validate() error {
	seen := make(map[string]bool, len(r.Datasets))
	for _, d := range r.Datasets {
		if seen[d.Name] {
			return fmt.Errorf("duplicate dataset %q", d.Name)
		}
		seen[d.Name] = true
		if d.Input == "" {
			return fmt.Errorf("dataset %q: input is required", d.Name)
		}
		if d.Output == "" {
			return fmt.Errorf("dataset %q: output is required", d.Name)
		}
		if d.MinScore < 0 || d.MinScore > 1 {
			return fmt.Errorf("dataset %q: min_score %g outside [0,1]", d.Name, d.MinScore)
		}
		if d.MaxEdges < 0 {
			return fmt.Errorf("dataset %q: max_edges must be non-negative", d.Name)
		}
	}
	return nil
}
