// Package stats holds the small statistical toolbox the course uses to
// sanity-check inferred networks: target-set overlap significance and
// module eigengenes.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// OverlapResult summarizes a hypergeometric overlap test between two gene
// sets drawn from a common population.
type OverlapResult struct {
	Population int     `json:"population"`
	SetA       int     `json:"set_a"`
	SetB       int     `json:"set_b"`
	Overlap    int     `json:"overlap"`
	Expected   float64 `json:"expected"`
	PValue     float64 `json:"p_value"`
}

// OverlapTest computes the upper-tail hypergeometric probability of seeing
// at least `overlap` shared genes between a set of size setA and a set of
// size setB sampled without replacement from `population` genes. Used to
// compare a regulator's target set against an annotated pathway.
func OverlapTest(population, setA, setB, overlap int) (OverlapResult, error) {
	if population <= 0 {
		return OverlapResult{}, fmt.Errorf("population must be positive, got %d", population)
	}
	if setA < 0 || setB < 0 || overlap < 0 {
		return OverlapResult{}, fmt.Errorf("set sizes must be non-negative")
	}
	if setA > population || setB > population {
		return OverlapResult{}, fmt.Errorf("set larger than population")
	}
	if overlap > setA || overlap > setB {
		return OverlapResult{}, fmt.Errorf("overlap %d exceeds set size", overlap)
	}

	res := OverlapResult{
		Population: population,
		SetA:       setA,
		SetB:       setB,
		Overlap:    overlap,
		Expected:   float64(setA) * float64(setB) / float64(population),
	}

	// P(X >= k) summed in log space; individual terms underflow long before
	// their sum does.
	maxK := setA
	if setB < maxK {
		maxK = setB
	}
	logDenom := combin.LogGeneralizedBinomial(float64(population), float64(setB))

	logs := make([]float64, 0, maxK-overlap+1)
	for k := overlap; k <= maxK; k++ {
		if setB-k > population-setA {
			continue // not enough non-A genes to fill set B
		}
		term := combin.LogGeneralizedBinomial(float64(setA), float64(k)) +
			combin.LogGeneralizedBinomial(float64(population-setA), float64(setB-k)) -
			logDenom
		logs = append(logs, term)
	}
	res.PValue = math.Min(1, logSumExp(logs))
	return res, nil
}

func logSumExp(logs []float64) float64 {
	if len(logs) == 0 {
		return 0
	}
	max := math.Inf(-1)
	for _, l := range logs {
		if l > max {
			max = l
		}
	}
	var sum float64
	for _, l := range logs {
		sum += math.Exp(l - max)
	}
	return math.Exp(max) * sum
}
