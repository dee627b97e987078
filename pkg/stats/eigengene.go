package stats

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// EigengeneResult is the first principal component of a module's expression
// submatrix: one representative profile per sample plus how much of the
// module's variance it captures.
type EigengeneResult struct {
	Scores            []float64 `json:"scores"`   // one per sample
	Loadings          []float64 `json:"loadings"` // one per gene
	VarianceExplained float64   `json:"variance_explained"`
}

// Eigengene computes the module eigengene of an expression submatrix laid
// out as samples x genes. The loading vector's sign is fixed so that its
// component sum is non-negative, keeping results stable across runs.
func Eigengene(data [][]float64) (EigengeneResult, error) {
	if len(data) < 2 {
		return EigengeneResult{}, fmt.Errorf("need at least 2 samples, got %d", len(data))
	}
	genes := len(data[0])
	if genes == 0 {
		return EigengeneResult{}, fmt.Errorf("empty expression rows")
	}
	for i, row := range data {
		if len(row) != genes {
			return EigengeneResult{}, fmt.Errorf("row %d has %d values, want %d", i, len(row), genes)
		}
	}

	samples := len(data)
	m := mat.NewDense(samples, genes, nil)
	for i, row := range data {
		m.SetRow(i, row)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(m, nil); !ok {
		return EigengeneResult{}, fmt.Errorf("principal component decomposition failed")
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	loadings := make([]float64, genes)
	mat.Col(loadings, 0, &vecs)
	if floats.Sum(loadings) < 0 {
		floats.Scale(-1, loadings)
	}

	// Project centered samples onto the first component.
	means := make([]float64, genes)
	for j := 0; j < genes; j++ {
		col := make([]float64, samples)
		mat.Col(col, j, m)
		means[j] = floats.Sum(col) / float64(samples)
	}
	scores := make([]float64, samples)
	for i := 0; i < samples; i++ {
		var s float64
		for j := 0; j < genes; j++ {
			s += (m.At(i, j) - means[j]) * loadings[j]
		}
		scores[i] = s
	}

	vars := pc.VarsTo(nil)
	total := floats.Sum(vars)
	res := EigengeneResult{Scores: scores, Loadings: loadings}
	if total > 0 {
		res.VarianceExplained = vars[0] / total
	}
	return res, nil
}
