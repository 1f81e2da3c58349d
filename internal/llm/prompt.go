package llm

import (
	"fmt"
	"strings"

	"github.com/prodtext/refinery/internal/rules"
)

// systemPrompt states the full publisher rule set up front so providers have
// a chance of producing compliant JSON on the first try. The deterministic
// validator remains the acceptance gate regardless.
const systemPrompt = `You are an e-commerce content compliance expert.
You MUST produce JSON output that passes every hard rule below.

Before outputting, count words, characters, and bullets.
If any rule is violated, fix it and regenerate silently until the JSON is valid.
Never return explanations, only valid JSON.

OUTPUT (valid JSON only):
{
  "title": "...",
  "bullets": ["<li>...</li>", "<li>...</li>", ... 8 total ...],
  "description": "...",
  "meta_title": "...",
  "meta_description": "..."
}`

// BuildPrompt constructs the default generation prompt from product facts and
// optional prior-violation feedback.
func BuildPrompt(req GenerateRequest) string {
	facts := req.Facts

	var b strings.Builder
	b.WriteString("PRODUCT DATA:\n")
	fmt.Fprintf(&b, "Brand: %s\n", facts.Brand)
	fmt.Fprintf(&b, "Type: %s\n", facts.ProductType)
	fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(facts.Attributes.Pairs(), ", "))
	if facts.CurrentDescription != "" {
		fmt.Fprintf(&b, "Current description: %s\n", facts.CurrentDescription)
	}
	if len(facts.CurrentBullets) > 0 {
		fmt.Fprintf(&b, "Current bullets: %s\n", strings.Join(facts.CurrentBullets, "; "))
	}

	if len(req.PriorViolations) > 0 {
		b.WriteString("\nVIOLATIONS FOUND IN PREVIOUS ATTEMPT:\n")
		for _, v := range req.PriorViolations {
			fmt.Fprintf(&b, "- %s\n", v)
		}
		b.WriteString("\nTASK: regenerate the content so that none of these violations occur again.\n")
	} else {
		b.WriteString("\nTASK: create compliant content that passes ALL rules.\n")
	}

	b.WriteString("\nRULES (must follow):\n")
	fmt.Fprintf(&b, "- Title <=%d chars and must include the brand name\n", rules.TitleMaxLen)
	fmt.Fprintf(&b, "- Exactly %d bullets, each <=%d chars, HTML <li> format\n", rules.BulletCount, rules.BulletMaxLen)
	fmt.Fprintf(&b, "- Description %d-%d words with brand name and ALL keywords\n", rules.DescMinWords, rules.DescMaxWords)
	fmt.Fprintf(&b, "- Meta title <=%d chars, meta description <=%d chars\n", rules.MetaTitleMaxLen, rules.MetaDescMaxLen)
	fmt.Fprintf(&b, "- NO banned words: %s\n", strings.Join(rules.BannedWords(), ", "))
	b.WriteString("- No medical claims (cure, heal, treat, prevent, remedy, diagnose)\n")
	b.WriteString("\nReturn ONLY valid JSON.")

	return b.String()
}

// temperatureForAttempt returns the sampling temperature schedule: a
// conservative first pass, then maximum temperature on retries to push the
// model away from whatever it generated before.
func temperatureForAttempt(attempt int) float32 {
	if attempt <= 1 {
		return 0.3
	}
	return 1.0
}

// defaultPrompt resolves the effective user prompt for a request.
func defaultPrompt(req GenerateRequest) string {
	if req.Prompt != "" {
		return req.Prompt
	}
	return BuildPrompt(req)
}
