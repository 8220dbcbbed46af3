// ABOUTME: Manager owns the vector index lifecycle: load, append, search, clear
// ABOUTME: Every mutation persists the full index state before returning
package index

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/nclsec/ctfrag/internal/models"
)

// Error kinds for index lifecycle failures
var (
	// ErrIndexLoad marks corrupt or incompatible persisted state. It is
	// recovered locally by falling back to an empty index, never fatal.
	ErrIndexLoad = errors.New("index load failed")
	// ErrIndexWrite marks a persistence failure during a mutation. The
	// in-memory index may be ahead of disk when this is returned.
	ErrIndexWrite = errors.New("index write failed")
)

// LoadOutcome reports how Initialize arrived at a usable index, so
// operators can tell a fresh index apart from one recovered from
// corruption.
type LoadOutcome int

const (
	OutcomeNone LoadOutcome = iota
	// OutcomeFresh means no persisted state existed; a new empty index was created
	OutcomeFresh
	// OutcomeLoaded means persisted state was loaded intact
	OutcomeLoaded
	// OutcomeRecovered means persisted state existed but failed to load;
	// a fresh empty index replaced it and prior vectors are lost until re-ingest
	OutcomeRecovered
)

func (o LoadOutcome) String() string {
	switch o {
	case OutcomeFresh:
		return "fresh"
	case OutcomeLoaded:
		return "loaded"
	case OutcomeRecovered:
		return "recovered"
	default:
		return "none"
	}
}

// Stats is the read-only introspection surface of the index
type Stats struct {
	Initialized bool `json:"initialized"`
	VectorCount int  `json:"vector_count"`
	Dimension   int  `json:"dimension"`
}

// Manager provides the single logical vector index for the service.
// Writes (AddPassages, Clear) are serialized under an exclusive lock so
// interleaved partial persists cannot corrupt on-disk state; searches
// take a shared lock and never mutate.
type Manager struct {
	dir string
	dim int

	mu          sync.RWMutex
	initialized bool
	outcome     LoadOutcome
	idx         *flatIndex
}

// NewManager creates an uninitialized Manager persisting under dir with
// the given embedding dimension
func NewManager(dir string, dim int) *Manager {
	return &Manager{dir: dir, dim: dim}
}

// Initialize loads persisted state or creates a fresh empty index.
// Idempotent and safe under concurrent first calls; repeat calls return
// the original outcome.
func (m *Manager) Initialize() (LoadOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return m.outcome, nil
	}

	if registryExists(m.dir) {
		ix, err := load(m.dir, m.dim)
		if err != nil {
			// Damaged persisted state must not block startup. The cost is
			// silent data loss until the caller re-ingests.
			log.Printf("Warning: %v: %v; starting with an empty index", ErrIndexLoad, err)
			m.idx = newFlatIndex(m.dim)
			m.outcome = OutcomeRecovered
		} else {
			log.Printf("Vector index loaded with %d vectors", ix.count())
			m.idx = ix
			m.outcome = OutcomeLoaded
		}
	} else {
		m.idx = newFlatIndex(m.dim)
		m.outcome = OutcomeFresh
		log.Println("New vector index created (inner product / cosine)")
	}

	m.initialized = true
	return m.outcome, nil
}

// AddPassages appends the passages to the index and persists the full
// index state. On a persist failure the returned error wraps
// ErrIndexWrite and the in-memory index is ahead of disk; callers must
// treat the add as not yet durable.
func (m *Manager) AddPassages(passages []models.Passage) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return 0, fmt.Errorf("index not initialized")
	}
	if len(passages) == 0 {
		return 0, nil
	}

	for _, p := range passages {
		if err := m.idx.add(p); err != nil {
			return 0, err
		}
	}

	if err := save(m.dir, m.idx); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIndexWrite, err)
	}

	return len(passages), nil
}

// Search returns up to k nearest passages by similarity, highest score
// first. Read-only; concurrent searches do not block each other.
func (m *Manager) Search(queryVector []float64, k int) ([]models.SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.initialized {
		return nil, fmt.Errorf("index not initialized")
	}
	return m.idx.search(queryVector, k)
}

// ValidateIntegrity checks that the passage registry is non-empty, that
// vector rows and registry entries agree, and that a sample of registered
// IDs resolves. Fail-closed: any anomaly returns false.
func (m *Manager) ValidateIntegrity() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.initialized || m.idx == nil {
		return false
	}
	if m.idx.count() == 0 {
		return false
	}
	if len(m.idx.vectors) != len(m.idx.passages) {
		return false
	}

	// Sample the first few registered passages
	sample := 3
	if sample > len(m.idx.passages) {
		sample = len(m.idx.passages)
	}
	for i := 0; i < sample; i++ {
		row, ok := m.idx.byID[m.idx.passages[i].ID]
		if !ok || row != i {
			return false
		}
	}

	return true
}

// Clear replaces the index with an empty one of the same dimension and
// persists the empty state. Administrative full reset.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return fmt.Errorf("index not initialized")
	}

	log.Println("Warning: clearing vector index")
	m.idx = newFlatIndex(m.dim)
	if err := save(m.dir, m.idx); err != nil {
		return fmt.Errorf("%w: %v", ErrIndexWrite, err)
	}
	return nil
}

// Stats returns read-only index statistics
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.initialized {
		return Stats{Initialized: false}
	}
	return Stats{
		Initialized: true,
		VectorCount: m.idx.count(),
		Dimension:   m.dim,
	}
}
