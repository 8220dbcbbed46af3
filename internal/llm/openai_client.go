// ABOUTME: OpenAI client for embeddings, answer generation, and LLM reranking
// ABOUTME: Uses text-embedding-3-small for embeddings, gpt-4o-mini for chat (configurable)
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/nclsec/ctfrag/internal/config"
	"github.com/nclsec/ctfrag/internal/models"
	"github.com/nclsec/ctfrag/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

const answerSystemPrompt = `You are a study assistant for capture-the-flag competitors. Answer the question using ONLY the provided context passages. If the context does not contain the answer, say so plainly. Be concise and technical.`

// Client wraps the OpenAI API with retry logic for the retrieval pipeline
type Client struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	timeout        time.Duration
	llmTimeout     time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewClient creates an OpenAI client from configuration
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	return &Client{
		client:         openai.NewClient(cfg.OpenAIKey),
		chatModel:      cfg.ChatModel,
		embeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		timeout:        cfg.Timeout,
		llmTimeout:     cfg.LLMTimeout,
		maxRetries:     cfg.MaxRetries,
		retryDelay:     cfg.RetryDelay,
	}, nil
}

// Model returns the configured chat model name
func (c *Client) Model() string {
	return c.chatModel
}

// EmbedText generates an embedding vector for the given text. Vectors are
// L2-normalized before returning, so inner product equals cosine
// similarity downstream.
func (c *Client) EmbedText(text string) ([]float64, error) {
	var vector []float64

	err := util.Retry(c.maxRetries, c.retryDelay, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: c.embeddingModel,
		})
		if err != nil {
			return err
		}
		if len(resp.Data) == 0 {
			return fmt.Errorf("no embeddings returned")
		}

		vector = Normalize(toFloat64(resp.Data[0].Embedding))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding after %d attempts: %w", c.maxRetries+1, err)
	}

	return vector, nil
}

// GenerateAnswer produces an answer to the query grounded in the given
// context passages. The call is bounded by the configured LLM timeout; a
// timeout surfaces as an error, never a hang.
func (c *Client) GenerateAnswer(query string, contexts []string) (string, error) {
	var sb strings.Builder
	for i, ctx := range contexts {
		fmt.Fprintf(&sb, "[Passage %d]\n%s\n\n", i+1, ctx)
	}
	userPrompt := fmt.Sprintf("Context:\n%s\nQuestion: %s", sb.String(), query)

	var answer string
	err := util.Retry(c.maxRetries, c.retryDelay, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), c.llmTimeout)
		defer cancel()

		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: answerSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
			Temperature: 0.3,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no completion choices returned")
		}

		answer = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate answer after %d attempts: %w", c.maxRetries+1, err)
	}

	return answer, nil
}

// RerankPassages scores each passage for relevance to the query using the
// chat model and returns the topN by relevance score. The returned order
// may differ from the embedding-similarity order.
func (c *Client) RerankPassages(query string, passages []models.Passage, topN int) ([]models.ScoredPassage, error) {
	if len(passages) == 0 {
		return nil, nil
	}

	systemPrompt := `You are a relevance scoring assistant. Given a question and numbered passages, score each passage for how well it answers the question, from 0.0 (irrelevant) to 1.0 (directly answers).

Return ONLY a JSON array of objects with fields "index" (1-based passage number) and "score". No additional text.
Example: [{"index": 1, "score": 0.9}, {"index": 2, "score": 0.2}]`

	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n\n", query)
	for i, p := range passages {
		fmt.Fprintf(&sb, "[%d] %s\n\n", i+1, p.Content)
	}

	var scored []models.ScoredPassage
	err := util.Retry(c.maxRetries, c.retryDelay, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: sb.String()},
			},
			Temperature: 0.1,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no completion choices returned")
		}

		type scoreEntry struct {
			Index int     `json:"index"`
			Score float64 `json:"score"`
		}
		var entries []scoreEntry
		if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &entries); err != nil {
			return fmt.Errorf("failed to parse score JSON: %w", err)
		}

		scored = scored[:0]
		for _, e := range entries {
			if e.Index < 1 || e.Index > len(passages) {
				continue
			}
			scored = append(scored, models.ScoredPassage{
				Passage:        passages[e.Index-1],
				RelevanceScore: e.Score,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rerank after %d attempts: %w", c.maxRetries+1, err)
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})
	if len(scored) > topN {
		scored = scored[:topN]
	}

	return scored, nil
}

// TestConnection verifies the chat model is reachable
func (c *Client) TestConnection() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	_, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "test"},
		},
		MaxTokens: 1,
	})
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	return nil
}

// Normalize scales a vector to unit length. Zero vectors are returned
// unchanged.
func Normalize(v []float64) []float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
