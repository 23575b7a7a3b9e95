package groq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	domain "github.com/ilcs-ai/contract-ai/internal/domain/analysis"
	"github.com/ilcs-ai/contract-ai/internal/infra/ai/prompt"
)

// Confidence konstanta per jalur kode, bukan probabilitas model
const (
	confidenceParsed   = 0.9
	confidenceFallback = 0.5
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

type Config struct {
	APIKey      string
	BaseURL     string // default endpoint OpenAI-compatible milik Groq
	Model       string
	MaxTokens   int
	Temperature float32
}

// Client implements analysis.FieldStructurer lewat chat completions Groq
type Client struct {
	api    *openai.Client
	cfg    Config
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "llama-3.1-8b-instant"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}

	var api *openai.Client
	if cfg.APIKey != "" {
		oc := openai.DefaultConfig(cfg.APIKey)
		oc.BaseURL = cfg.BaseURL
		api = openai.NewClientWithConfig(oc)
	}
	return &Client{api: api, cfg: cfg, logger: logger}
}

// Available false kalau API key tidak dikonfigurasi
func (c *Client) Available() bool { return c.api != nil }

// Structure kirim teks kontrak ke model dan parse respons JSON-nya.
// Respons yang bukan JSON valid TIDAK dianggap error: teks mentah
// dikembalikan verbatim dengan confidence lebih rendah.
func (c *Client) Structure(ctx context.Context, text string) (domain.StructureResult, error) {
	if c.api == nil {
		return domain.StructureResult{}, domain.ErrServiceUnavailable
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetContractPrompt(text)},
		},
	})
	if err != nil {
		return domain.StructureResult{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.StructureResult{}, fmt.Errorf("chat completion returned no choices")
	}

	content := StripCodeFence(resp.Choices[0].Message.Content)

	var details domain.ContractDetails
	if err := json.Unmarshal([]byte(content), &details); err != nil {
		c.logger.Warn("structuring response is not valid json, keeping raw text",
			"model", c.cfg.Model, "error", err)
		return domain.StructureResult{
			RawAnalysis: resp.Choices[0].Message.Content,
			Confidence:  confidenceFallback,
		}, nil
	}

	domain.NormalizeDates(&details)
	return domain.StructureResult{
		Details:    &details,
		Confidence: confidenceParsed,
	}, nil
}
