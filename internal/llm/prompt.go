package llm

import (
	_ "embed"
	"strings"
)

// PromptVersion identifies the embedded review template in logs.
const PromptVersion = "review_de_v1"

const resumeTextSlot = "{{RESUME_TEXT}}"

//go:embed prompts/resume_review_de.txt
var reviewTemplate string

// BuildReviewPrompt places resumeText into the review template. The text is
// forwarded as is: no length cap, no escaping.
func BuildReviewPrompt(resumeText string) string {
	return strings.Replace(reviewTemplate, resumeTextSlot, resumeText, 1)
}
