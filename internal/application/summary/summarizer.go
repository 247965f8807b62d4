// Package summary produces narrative patent summaries.  With an OpenAI
// API key configured the summary comes from a chat model; without one a
// deterministic template summary is returned so the endpoint stays
// usable offline.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/rephind/rephind/internal/domain/patent"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/pkg/errors"
)

// Summarizer turns a corpus record into a structured prose summary.
type Summarizer interface {
	// Summarize returns the summary text for the record.
	Summarize(ctx context.Context, rec *patent.Record) (string, error)

	// Name identifies the backing implementation.
	Name() string
}

// Config selects and tunes the summarizer backend.
type Config struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
	TimeoutSec  int     `mapstructure:"timeout_sec"`
}

// New returns the OpenAI summarizer when an API key is configured and the
// static template summarizer otherwise.
func New(cfg Config, logger logging.Logger) Summarizer {
	if cfg.APIKey == "" {
		logger.Info("no summary API key configured, using static summarizer")
		return NewStaticSummarizer()
	}
	return NewOpenAISummarizer(cfg, logger)
}

// buildPrompt renders the analysis prompt for a record.  The seven
// numbered sections are the summary contract shared by both backends.
func buildPrompt(rec *patent.Record) string {
	var b strings.Builder
	b.WriteString("Please provide a comprehensive patent summary in the following structured format:\n\n")
	fmt.Fprintf(&b, "Patent Title: %s\n", orNA(rec.Title))
	fmt.Fprintf(&b, "Applicant: %s\n", orNA(rec.Applicant))
	if rec.ApplicationYear > 0 {
		fmt.Fprintf(&b, "Application Year: %d\n", rec.ApplicationYear)
	} else {
		b.WriteString("Application Year: N/A\n")
	}
	fmt.Fprintf(&b, "\nClaim Text: %s\n", orNA(rec.ClaimText))
	b.WriteString(`
Please analyze this patent and provide:

1. **Technical Field**: What technology domain does this patent cover?

2. **Problem Solved**: What specific problem or challenge does this invention address?

3. **Key Innovation**: What is the main innovative aspect or technical contribution?

4. **Technical Components**: What are the essential technical elements or components?

5. **Advantages**: What benefits or improvements does this invention provide?

6. **Potential Applications**: In what areas or industries could this be applied?

7. **Technical Complexity**: Rate the technical complexity (Low/Medium/High) and explain why.

Format the response as clear, concise bullet points under each section.
`)
	return b.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func validateRecord(rec *patent.Record) error {
	if rec == nil {
		return errors.New(errors.ErrCodeBadRequest, "patent record is required")
	}
	return nil
}
