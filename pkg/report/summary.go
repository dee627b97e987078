// Package report turns a build result into the course's output artifacts:
// the augmented edge table, the vertex mapping, a SIF network file, a JSON
// summary, and a styled terminal digest.
package report

import (
	"encoding/json"
	"time"

	"github.com/acpaulo/causal-inference-short-course/pkg/graph"
	"github.com/acpaulo/causal-inference-short-course/pkg/version"
)

// Summary is the machine-readable digest of one build.
type Summary struct {
	Dataset     string           `json:"dataset"`
	GeneratedAt time.Time        `json:"generated_at"`
	Version     string           `json:"version"`
	Stats       graph.BuildStats `json:"stats"`
	Excluded    map[string]int   `json:"excluded"`
	Filtered    map[string]int   `json:"filtered,omitempty"` // per policy rule
	Components  []int            `json:"component_sizes"`
	Hubs        []graph.HubStat  `json:"top_hubs"`
}

// TopHubs is how many regulators the summary keeps.
const TopHubs = 10

// BuildSummary derives a Summary from a build result. filtered is the
// per-rule drop tally from the policy stage, nil when no rules ran.
func BuildSummary(dataset string, res *graph.BuildResult, filtered map[string]int) Summary {
	s := Summary{
		Dataset:     dataset,
		GeneratedAt: time.Now().UTC(),
		Version:     version.Current,
		Stats:       res.Stats,
		Excluded: map[string]int{
			graph.ReasonSelfLoop:  res.Stats.SelfLoops,
			graph.ReasonDuplicate: res.Stats.Duplicates,
			graph.ReasonCycle:     res.Stats.Cycles,
		},
		Filtered: filtered,
		Hubs:     graph.Hubs(res.Graph, TopHubs),
	}

	// Components come back largest-first already.
	comps := graph.Components(res.Graph)
	s.Components = make([]int, len(comps))
	for i, c := range comps {
		s.Components[i] = len(c)
	}
	return s
}

// MarshalIndentJSON renders the summary the way the export command writes it.
func (s Summary) MarshalIndentJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
