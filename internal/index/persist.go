// ABOUTME: On-disk persistence for the vector index
// ABOUTME: registry.json holds the passage registry, vectors.gob the embedding rows
package index

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nclsec/ctfrag/internal/models"
)

const (
	registryFile = "registry.json"
	vectorsFile  = "vectors.gob"
)

// registry is the serialized passage side of the index. Its presence on
// disk is the signal for load-vs-create at startup. Vectors are kept out
// of the JSON and persisted separately as gob.
type registry struct {
	Dimension int              `json:"dimension"`
	Passages  []models.Passage `json:"passages"`
}

// save writes the full index state to dir. Both files are written to a
// temp path then renamed, so a crash mid-write cannot leave a truncated
// file that parses.
func save(dir string, ix *flatIndex) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	vecPath := filepath.Join(dir, vectorsFile)
	tmpVec := vecPath + ".tmp"
	f, err := os.Create(tmpVec)
	if err != nil {
		return fmt.Errorf("failed to create vectors file: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(ix.vectors); err != nil {
		f.Close()
		os.Remove(tmpVec)
		return fmt.Errorf("failed to encode vectors: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpVec)
		return fmt.Errorf("failed to close vectors file: %w", err)
	}
	if err := os.Rename(tmpVec, vecPath); err != nil {
		return fmt.Errorf("failed to replace vectors file: %w", err)
	}

	reg := registry{Dimension: ix.dim, Passages: ix.passages}
	data, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	regPath := filepath.Join(dir, registryFile)
	tmpReg := regPath + ".tmp"
	if err := os.WriteFile(tmpReg, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry: %w", err)
	}
	if err := os.Rename(tmpReg, regPath); err != nil {
		return fmt.Errorf("failed to replace registry: %w", err)
	}

	return nil
}

// registryExists reports whether persisted state is present in dir
func registryExists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, registryFile))
	return err == nil
}

// load reads persisted index state from dir. Any structural problem
// (unparseable files, row/registry count mismatch, wrong dimension)
// returns an error; callers fall back to a fresh index.
func load(dir string, wantDim int) (*flatIndex, error) {
	data, err := os.ReadFile(filepath.Join(dir, registryFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}
	var reg registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}
	if reg.Dimension != wantDim {
		return nil, fmt.Errorf("dimension mismatch: index has %d, configured %d", reg.Dimension, wantDim)
	}

	f, err := os.Open(filepath.Join(dir, vectorsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open vectors file: %w", err)
	}
	defer f.Close()

	var vectors [][]float64
	if err := gob.NewDecoder(f).Decode(&vectors); err != nil {
		return nil, fmt.Errorf("failed to decode vectors: %w", err)
	}

	if len(vectors) != len(reg.Passages) {
		return nil, fmt.Errorf("index inconsistent: %d vectors, %d registry entries", len(vectors), len(reg.Passages))
	}

	ix := newFlatIndex(wantDim)
	for i, p := range reg.Passages {
		if len(vectors[i]) != wantDim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(vectors[i]), wantDim)
		}
		p.Vector = vectors[i]
		ix.byID[p.ID] = i
		ix.vectors = append(ix.vectors, vectors[i])
		ix.passages = append(ix.passages, p)
	}

	return ix, nil
}
