package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prodtext/refinery/internal/model"
)

// rawCandidate mirrors the JSON shape providers are asked to return. Bullets
// may arrive as a list of strings or as one concatenated wrapped string.
type rawCandidate struct {
	Title           string          `json:"title"`
	Bullets         json.RawMessage `json:"bullets"`
	Description     string          `json:"description"`
	MetaTitle       string          `json:"meta_title"`
	MetaDescription string          `json:"meta_description"`
}

// ParseCandidate turns raw model output into a candidate bundle. Code fences
// are stripped before decoding; keys missing from the JSON become empty
// fields. A response that is not a JSON object after fence stripping is a
// parse failure, which the orchestrator treats like any other adapter
// failure for that attempt.
func ParseCandidate(raw string) (*model.ContentBundle, error) {
	text := StripFences(raw)
	if text == "" {
		return nil, fmt.Errorf("empty response")
	}

	var candidate rawCandidate
	if err := json.Unmarshal([]byte(text), &candidate); err != nil {
		return nil, fmt.Errorf("decode candidate JSON: %w", err)
	}

	bundle := &model.ContentBundle{
		Title:           strings.TrimSpace(candidate.Title),
		Description:     strings.TrimSpace(candidate.Description),
		MetaTitle:       strings.TrimSpace(candidate.MetaTitle),
		MetaDescription: strings.TrimSpace(candidate.MetaDescription),
	}

	bullets, err := decodeBullets(candidate.Bullets)
	if err != nil {
		return nil, err
	}
	bundle.Bullets = bullets

	return bundle, nil
}

func decodeBullets(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return model.NormalizeBullets(list), nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return model.ParseBulletsHTML(single), nil
	}

	return nil, fmt.Errorf("bullets must be a string or a list of strings")
}

// StripFences removes a surrounding markdown code fence (``` or ```json)
// from model output, returning the inner text trimmed. Text without a fence
// passes through trimmed.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)

	for _, marker := range []string{"```json", "```"} {
		start := strings.Index(text, marker)
		if start < 0 {
			continue
		}
		inner := text[start+len(marker):]
		end := strings.Index(inner, "```")
		if end < 0 {
			continue
		}
		return strings.TrimSpace(inner[:end])
	}

	return text
}
