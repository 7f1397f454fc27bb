package embedder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/Slothdemon22/CampusMinus/internal/domain/question"
	"github.com/Slothdemon22/CampusMinus/internal/infra/llm/chatgpt"
	apperrors "github.com/Slothdemon22/CampusMinus/pkg/errors"
)

const fallbackEncoding = "cl100k_base"

// OpenAIEmbedder calls an OpenAI-compatible embeddings API.
type OpenAIEmbedder struct {
	client    *chatgpt.Client
	model     string
	maxTokens int
	encoding  *tiktoken.Tiktoken
	logger    *slog.Logger
}

// NewOpenAIEmbedder constructs the embedder. Token counting uses the
// model's tokenizer so oversized input is rejected before the network
// call instead of bouncing off the provider cap.
func NewOpenAIEmbedder(client *chatgpt.Client, model string, maxTokens int, logger *slog.Logger) *OpenAIEmbedder {
	if logger == nil {
		logger = slog.Default()
	}
	model = strings.TrimSpace(model)
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			encoding = nil
		}
	}
	return &OpenAIEmbedder{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
		encoding:  encoding,
		logger:    logger.With("component", "embedder.openai"),
	}
}

// Embed performs exactly one embeddings call for the given text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	input := strings.TrimSpace(text)
	if input == "" {
		return nil, apperrors.New(question.CodeInvalidInput, "embedding input cannot be empty")
	}
	if e.encoding != nil && e.maxTokens > 0 {
		if count := len(e.encoding.Encode(input, nil, nil)); count > e.maxTokens {
			return nil, apperrors.New(question.CodeInvalidInput,
				fmt.Sprintf("embedding input too large: %d tokens, cap %d", count, e.maxTokens))
		}
	}

	resp, err := e.client.CreateEmbedding(ctx, chatgpt.EmbeddingRequest{
		Model: e.model,
		Input: input,
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, apperrors.New(question.CodeEmbedderMalformed, "embedding response empty")
	}
	if !resp.Usage.IsZero() {
		e.logger.Debug("embedding tokens consumed", "prompt", resp.Usage.PromptTokens, "total", resp.Usage.TotalTokens)
	}
	vector := make([]float32, len(resp.Data[0].Embedding))
	copy(vector, resp.Data[0].Embedding)
	return vector, nil
}

func classify(err error) error {
	var decodeErr *chatgpt.DecodeError
	if errors.As(err, &decodeErr) {
		return apperrors.Wrap(question.CodeEmbedderMalformed, "embedding response not parseable", err)
	}
	var statusErr *chatgpt.StatusError
	if errors.As(err, &statusErr) {
		return apperrors.Wrap(question.CodeEmbedderUpstream,
			fmt.Sprintf("embedding provider returned status %d", statusErr.Status), err)
	}
	return apperrors.Wrap(question.CodeEmbedderUpstream, "embedding request failed", err)
}

var _ question.Embedder = (*OpenAIEmbedder)(nil)
