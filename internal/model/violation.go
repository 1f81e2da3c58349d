package model

import "strings"

// ViolationKind classifies a single compliance rule breach.
type ViolationKind string

const (
	ViolationTitleEmpty        ViolationKind = "title_empty"
	ViolationTitleTooLong      ViolationKind = "title_too_long"
	ViolationTitleMissingBrand ViolationKind = "title_missing_brand"
	ViolationBannedWord        ViolationKind = "banned_word"
	ViolationBulletsWrongCount ViolationKind = "bullets_wrong_count"
	ViolationBulletTooLong     ViolationKind = "bullet_too_long"
	ViolationDescWordCount     ViolationKind = "description_word_count_out_of_range"
	ViolationDescMissingBrand  ViolationKind = "description_missing_brand"
	ViolationMetaTitleEmpty    ViolationKind = "meta_title_empty"
	ViolationMetaTitleTooLong  ViolationKind = "meta_title_too_long"
	ViolationMetaDescEmpty     ViolationKind = "meta_desc_empty"
	ViolationMetaDescTooLong   ViolationKind = "meta_desc_too_long"
	ViolationMedicalClaim      ViolationKind = "medical_claim"
	ViolationKeywordMissing    ViolationKind = "keyword_missing"
	ViolationGenerationFailed  ViolationKind = "generation_failed"
)

// Violation describes one detected rule breach. It is descriptive only: the
// repair engine re-derives what to do from the bundle itself, never from the
// violation parameters.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	Field   string        `json:"field,omitempty"`   // banned_word
	Word    string        `json:"word,omitempty"`    // banned_word
	Index   int           `json:"index,omitempty"`   // bullet_too_long (0-based)
	Keyword string        `json:"keyword,omitempty"` // keyword_missing
	Message string        `json:"message"`
}

func (v Violation) String() string {
	return v.Message
}

// RenderViolations joins violation messages for the batch output column and
// the retry prompt. An empty list renders as the empty string.
func RenderViolations(violations []Violation) string {
	if len(violations) == 0 {
		return ""
	}
	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.Message
	}
	return strings.Join(msgs, "; ")
}

// ViolationMessages returns the bare message strings, the form the generation
// adapter receives as prior-violation feedback.
func ViolationMessages(violations []Violation) []string {
	if len(violations) == 0 {
		return nil
	}
	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.Message
	}
	return msgs
}
