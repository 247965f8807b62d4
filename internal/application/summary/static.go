package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/rephind/rephind/internal/domain/patent"
)

// StaticSummarizer renders a deterministic template summary from record
// metadata.  It keeps the seven-section format of the model-backed
// summary so downstream consumers see the same shape either way.
type StaticSummarizer struct{}

// NewStaticSummarizer returns the template fallback.
func NewStaticSummarizer() *StaticSummarizer {
	return &StaticSummarizer{}
}

// Name identifies the backend.
func (s *StaticSummarizer) Name() string { return "static" }

// Summarize fills the template from the record.
func (s *StaticSummarizer) Summarize(_ context.Context, rec *patent.Record) (string, error) {
	if err := validateRecord(rec); err != nil {
		return "", err
	}

	title := orNA(rec.Title)
	field := "steel sheet manufacturing and alloy design"
	if rec.ProductGroup != "" {
		field = fmt.Sprintf("%s steel products", rec.ProductGroup)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**1. Technical Field**: %s belongs to the technology domain of %s.\n\n", title, field)
	fmt.Fprintf(&b, "**2. Problem Solved**: This invention addresses the challenge of improving material performance in %s.\n\n", strings.ToLower(title))
	b.WriteString("**3. Key Innovation**: The main innovative aspect is the combination of a controlled alloy composition with a tailored microstructure.\n\n")
	b.WriteString(`**4. Technical Components**:
• Alloy composition limits on the claimed elements
• Controlled microstructure fractions
• Specified mechanical property targets
• Processing conditions implied by the claim

`)
	b.WriteString(`**5. Advantages**:
• Improved strength and formability balance
• Consistent material properties within the claimed ranges
• Compatibility with existing production lines

`)
	b.WriteString(`**6. Potential Applications**:
• Automotive structural and body parts
• Construction and infrastructure
• Industrial machinery components

`)
	b.WriteString("**7. Technical Complexity**: **Medium** - The invention combines established metallurgical techniques in a specific claimed window, requiring specialized knowledge but building on well-understood principles.\n\n")
	b.WriteString("Note: This analysis was generated without a language model. Configure an API key for a full analysis.")
	return b.String(), nil
}
