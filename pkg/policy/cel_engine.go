// Package policy filters candidate edges with user-defined CEL rules before
// they reach the greedy builder. Rules come from YAML or from recipe files.
package policy

import (
	"fmt"
	"log/slog"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"

	"github.com/acpaulo/causal-inference-short-course/pkg/edges"
)

// Rule actions.
const (
	ActionKeep = "keep"
	ActionDrop = "drop"
)

// Rule represents a user-defined edge filter (e.g. from YAML).
type Rule struct {
	ID        string `json:"id" yaml:"id"`
	Condition string `json:"condition" yaml:"condition"` // CEL expression: "score < 0.8 && attrs.tissue == 'liver'"
	Action    string `json:"action" yaml:"action"`       // "keep" or "drop"
}

type compiledRule struct {
	rule Rule
	prg  cel.Program
}

// CELEngine manages the compilation and execution of edge filter rules.
type CELEngine struct {
	env   *cel.Env
	rules []compiledRule
}

// NewCELEngine initializes the CEL environment with the per-edge variable
// declarations.
func NewCELEngine() (*CELEngine, error) {
	env, err := cel.NewEnv(
		cel.Declarations(
			decls.NewVar("source", decls.String),
			decls.NewVar("target", decls.String),
			decls.NewVar("score", decls.Double),
			decls.NewVar("row", decls.Int),
			decls.NewVar("attrs", decls.NewMapType(decls.String, decls.String)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	return &CELEngine{env: env}, nil
}

// Compile compiles a list of rules into executable programs. Rules keep
// their declaration order; the first matching rule decides an edge's fate.
func (e *CELEngine) Compile(rules []Rule) error {
	for _, r := range rules {
		if r.Action != ActionKeep && r.Action != ActionDrop {
			return fmt.Errorf("rule %s: unknown action %q", r.ID, r.Action)
		}

		ast, issues := e.env.Compile(r.Condition)
		if issues != nil && issues.Err() != nil {
			return fmt.Errorf("rule %s compilation error: %w", r.ID, issues.Err())
		}

		prg, err := e.env.Program(ast)
		if err != nil {
			return fmt.Errorf("rule %s program creation error: %w", r.ID, err)
		}

		e.rules = append(e.rules, compiledRule{rule: r, prg: prg})
	}
	return nil
}

// RuleCount reports how many rules are loaded.
func (e *CELEngine) RuleCount() int { return len(e.rules) }

// Apply evaluates every record against the rule chain and returns the kept
// subset plus a per-rule drop tally. Records no rule matches are kept.
// Evaluation errors skip the rule for that record rather than failing the
// run; a rule that only applies to some inputs should not poison the rest.
func (e *CELEngine) Apply(records []edges.Record) ([]edges.Record, map[string]int, error) {
	if len(e.rules) == 0 {
		return records, nil, nil
	}

	dropped := make(map[string]int)
	kept := make([]edges.Record, 0, len(records))

	for _, rec := range records {
		attrs := rec.Attrs
		if attrs == nil {
			attrs = map[string]string{}
		}
		vars := map[string]interface{}{
			"source": rec.Source,
			"target": rec.Target,
			"score":  rec.Score,
			"row":    rec.Row,
			"attrs":  attrs,
		}

		keep := true
		for _, cr := range e.rules {
			out, _, err := cr.prg.Eval(vars)
			if err != nil {
				slog.Error("rule evaluation failed", "rule_id", cr.rule.ID, "error", err)
				continue
			}
			match, ok := out.Value().(bool)
			if !ok || !match {
				continue
			}
			if cr.rule.Action == ActionDrop {
				keep = false
				dropped[cr.rule.ID]++
			}
			break
		}
		if keep {
			kept = append(kept, rec)
		}
	}

	return kept, dropped, nil
}
