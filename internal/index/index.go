// ABOUTME: Flat inner-product vector index over pre-normalized embeddings
// ABOUTME: Vectors and the passage registry stay bijective by construction
package index

import (
	"fmt"
	"sort"

	"github.com/nclsec/ctfrag/internal/models"
)

// flatIndex is an append-only flat index. Row i of vectors corresponds to
// passages[i]; byID maps passage IDs to rows. Embeddings are expected to
// be unit length, so inner product equals cosine similarity. There is no
// targeted delete; removal happens only via full rebuild.
type flatIndex struct {
	dim      int
	vectors  [][]float64
	passages []models.Passage
	byID     map[string]int
}

func newFlatIndex(dim int) *flatIndex {
	return &flatIndex{
		dim:  dim,
		byID: make(map[string]int),
	}
}

// add appends a passage and its vector to the index
func (ix *flatIndex) add(p models.Passage) error {
	if len(p.Vector) != ix.dim {
		return fmt.Errorf("invalid embedding dimension: expected %d, got %d", ix.dim, len(p.Vector))
	}
	ix.byID[p.ID] = len(ix.vectors)
	ix.vectors = append(ix.vectors, p.Vector)
	ix.passages = append(ix.passages, p)
	return nil
}

// search returns up to k passages by descending inner-product score
func (ix *flatIndex) search(query []float64, k int) ([]models.SearchResult, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("invalid query dimension: expected %d, got %d", ix.dim, len(query))
	}

	results := make([]models.SearchResult, 0, len(ix.vectors))
	for i, vec := range ix.vectors {
		results = append(results, models.SearchResult{
			Passage: ix.passages[i],
			Score:   dotProduct(query, vec),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k >= 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (ix *flatIndex) count() int {
	return len(ix.vectors)
}

func dotProduct(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
