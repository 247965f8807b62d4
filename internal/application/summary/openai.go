package summary

import (
	"context"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rephind/rephind/internal/domain/patent"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/pkg/errors"
)

const (
	defaultModel      = openai.GPT4o
	defaultMaxTokens  = 1000
	defaultTimeout    = 30 * time.Second
	systemInstruction = "You are a patent analysis expert. Provide clear, structured analysis of patent documents."
)

// chatClient is the slice of the OpenAI client the summarizer uses.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAISummarizer generates summaries through the chat completions API.
type OpenAISummarizer struct {
	client      chatClient
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	logger      logging.Logger
}

// NewOpenAISummarizer builds a summarizer over the configured endpoint.
func NewOpenAISummarizer(cfg Config, logger logging.Logger) *OpenAISummarizer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	s := &OpenAISummarizer{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     time.Duration(cfg.TimeoutSec) * time.Second,
		logger:      logger.Named("summary"),
	}
	if s.model == "" {
		s.model = defaultModel
	}
	if s.maxTokens == 0 {
		s.maxTokens = defaultMaxTokens
	}
	if s.temperature == 0 {
		s.temperature = 0.3
	}
	if s.timeout == 0 {
		s.timeout = defaultTimeout
	}
	return s
}

// Name identifies the backend.
func (s *OpenAISummarizer) Name() string { return "openai" }

// Summarize asks the chat model for the structured seven-section summary.
func (s *OpenAISummarizer) Summarize(ctx context.Context, rec *patent.Record) (string, error) {
	if err := validateRecord(rec); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(rec)},
		},
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSummaryFailed, "chat completion failed").
			WithDetail("patent_id: " + rec.ID)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(errors.ErrCodeSummaryFailed, "chat completion returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New(errors.ErrCodeSummaryFailed, "chat completion returned empty content")
	}
	s.logger.Debug("summary generated",
		logging.String("patent_id", rec.ID),
		logging.String("model", s.model),
		logging.Int("tokens_used", resp.Usage.TotalTokens))
	return text, nil
}
