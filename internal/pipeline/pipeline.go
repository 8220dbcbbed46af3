// ABOUTME: End-to-end query pipeline: embed, retrieve, optional rerank, generate
// ABOUTME: Every query attempt yields a structured result and exactly one query-log entry
package pipeline

import (
	"fmt"
	"log"
	"time"

	"github.com/nclsec/ctfrag/internal/config"
	"github.com/nclsec/ctfrag/internal/index"
	"github.com/nclsec/ctfrag/internal/models"
	"github.com/nclsec/ctfrag/internal/store"
)

// PreviewLength is the maximum rune length of a source text preview;
// longer passages are truncated with a marker
const PreviewLength = 500

// Embedder maps query text to a unit vector
type Embedder interface {
	EmbedText(text string) ([]float64, error)
}

// Generator produces an answer from the query and retrieved context
type Generator interface {
	GenerateAnswer(query string, contexts []string) (string, error)
	TestConnection() error
	Model() string
}

// Reranker reorders retrieved passages by finer-grained relevance.
// Optional capability: resolved once at construction, nil means absent.
type Reranker interface {
	RerankPassages(query string, passages []models.Passage, topN int) ([]models.ScoredPassage, error)
}

// Rebuilder is the named destructive recovery operation invoked when the
// pre-query integrity check fails. Optional; nil disables auto-repair.
type Rebuilder interface {
	Rebuild() (*RebuildSummary, error)
}

// RebuildSummary mirrors what a rebuild recovered
type RebuildSummary struct {
	Documents int
	Skipped   int
	Failed    int
}

// Source is a retrieved passage as returned to the caller
type Source struct {
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
	FilePath string  `json:"file_path"`
	FileName string  `json:"file_name"`
	Category string  `json:"category"`
	Tags     []string `json:"tags,omitempty"`
}

// Result is the structured outcome of one query. Status is "success" or
// "error"; no fault propagates past the pipeline uncaught.
type Result struct {
	Status          string   `json:"status"`
	Answer          string   `json:"answer,omitempty"`
	Query           string   `json:"query"`
	RetrievedChunks int      `json:"retrieved_chunks"`
	ResponseTime    float64  `json:"response_time"`
	Model           string   `json:"model,omitempty"`
	Sources         []Source `json:"sources,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// ConnectionStatus is the health surface for the language model
type ConnectionStatus struct {
	Status string `json:"status"`
	Model  string `json:"model,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Pipeline orchestrates query answering over the vector index
type Pipeline struct {
	cfg       *config.Config
	manager   *index.Manager
	metadata  *store.Store
	embedder  Embedder
	generator Generator
	reranker  Reranker // nil when the capability is absent
	rebuilder Rebuilder
}

// New constructs a Pipeline. Pass a nil reranker to run without the
// reranking stage; the pipeline degrades gracefully rather than probing
// for the capability per call.
func New(cfg *config.Config, manager *index.Manager, metadata *store.Store,
	embedder Embedder, generator Generator, reranker Reranker, rebuilder Rebuilder) *Pipeline {
	if reranker == nil {
		log.Println("Reranker not configured; queries use embedding-similarity order")
	}
	return &Pipeline{
		cfg:       cfg,
		manager:   manager,
		metadata:  metadata,
		embedder:  embedder,
		generator: generator,
		reranker:  reranker,
		rebuilder: rebuilder,
	}
}

// Answer runs the full query pipeline. topK <= 0 uses the configured
// default; caller overrides are clamped to the configured maximum.
// Exactly one query-log entry is written whether the query succeeds or
// fails.
func (p *Pipeline) Answer(query string, topK int, includeSources bool) Result {
	start := time.Now()

	if topK <= 0 {
		topK = p.cfg.TopK
	}
	if topK > p.cfg.MaxTopK {
		topK = p.cfg.MaxTopK
	}

	// Pre-query integrity check. Failure is a warning, not a query
	// error: the query proceeds against whatever state remains after
	// the (optional) rebuild.
	if !p.manager.ValidateIntegrity() {
		log.Println("Warning: index integrity check failed before query")
		if p.rebuilder != nil {
			if summary, err := p.rebuilder.Rebuild(); err != nil {
				log.Printf("Warning: rebuild failed: %v", err)
			} else {
				log.Printf("Rebuild recovered %d documents", summary.Documents)
			}
		}
	}

	retrieved := 0
	fail := func(err error) Result {
		elapsed := time.Since(start).Seconds()
		p.logQuery(query, "", retrieved, elapsed, false, err.Error())
		return Result{
			Status:          "error",
			Query:           query,
			RetrievedChunks: retrieved,
			ResponseTime:    elapsed,
			Error:           err.Error(),
		}
	}

	queryVector, err := p.embedder.EmbedText(query)
	if err != nil {
		return fail(fmt.Errorf("embedding query: %w", err))
	}

	results, err := p.manager.Search(queryVector, topK)
	if err != nil {
		return fail(fmt.Errorf("searching index: %w", err))
	}
	retrieved = len(results)

	passages := make([]models.Passage, len(results))
	scores := make([]float64, len(results))
	for i, r := range results {
		passages[i] = r.Passage
		scores[i] = r.Score
	}

	if p.reranker != nil && len(passages) > 0 {
		reranked, err := p.reranker.RerankPassages(query, passages, p.cfg.RerankTopN)
		if err != nil {
			// Reranking is an enhancement; losing it does not fail the query
			log.Printf("Warning: reranking failed, using similarity order: %v", err)
		} else if len(reranked) > 0 {
			passages = passages[:0]
			scores = scores[:0]
			for _, sp := range reranked {
				passages = append(passages, sp.Passage)
				scores = append(scores, sp.RelevanceScore)
			}
		}
	}

	contexts := make([]string, len(passages))
	for i, psg := range passages {
		contexts[i] = psg.Content
	}

	answer, err := p.generator.GenerateAnswer(query, contexts)
	if err != nil {
		return fail(fmt.Errorf("generating answer: %w", err))
	}

	elapsed := time.Since(start).Seconds()
	p.logQuery(query, answer, retrieved, elapsed, true, "")

	result := Result{
		Status:          "success",
		Answer:          answer,
		Query:           query,
		RetrievedChunks: retrieved,
		ResponseTime:    elapsed,
		Model:           p.generator.Model(),
	}
	if includeSources {
		result.Sources = make([]Source, len(passages))
		for i, psg := range passages {
			result.Sources[i] = Source{
				Text:     truncatePreview(psg.Content),
				Score:    scores[i],
				FilePath: psg.FilePath,
				FileName: psg.FileName,
				Category: psg.Category,
				Tags:     psg.Tags,
			}
		}
	}

	log.Printf("Query completed in %.2fs with %d chunks", elapsed, retrieved)
	return result
}

// TestConnection checks language-model reachability for the health surface
func (p *Pipeline) TestConnection() ConnectionStatus {
	if err := p.generator.TestConnection(); err != nil {
		return ConnectionStatus{Status: "error", Error: err.Error()}
	}
	return ConnectionStatus{Status: "success", Model: p.generator.Model()}
}

// logQuery writes the single query-log entry for this attempt. A logging
// failure must not turn a served answer into an error.
func (p *Pipeline) logQuery(query, answer string, retrieved int, elapsed float64, success bool, errMsg string) {
	entry := &models.QueryLogEntry{
		QueryText:       query,
		ResponseText:    answer,
		RetrievedChunks: retrieved,
		ResponseTime:    elapsed,
		Success:         success,
		ErrorMessage:    errMsg,
	}
	if err := p.metadata.AppendQueryLog(entry); err != nil {
		log.Printf("Warning: failed to record query log: %v", err)
	}
}

func truncatePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength]) + "..."
}
