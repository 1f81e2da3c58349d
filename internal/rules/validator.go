package rules

import (
	"fmt"

	"github.com/prodtext/refinery/internal/model"
)

// Validator checks content bundles against the full compliance rule set.
// It is pure: no side effects, no external calls, and it never fails on
// malformed input, since missing or empty fields surface as violations.
type Validator struct{}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate runs every check and returns the complete ordered violation list.
// Checks are independent and never short-circuit, so the caller always sees
// the full picture of what is wrong with a candidate.
func (v *Validator) Validate(bundle *model.ContentBundle, knownKeywords []string, brand string) []model.Violation {
	var violations []model.Violation

	violations = append(violations, v.checkTitle(bundle, brand)...)
	violations = append(violations, v.checkBullets(bundle)...)
	violations = append(violations, v.checkDescription(bundle, brand)...)
	violations = append(violations, v.checkMetaTitle(bundle)...)
	violations = append(violations, v.checkMetaDescription(bundle)...)
	violations = append(violations, v.checkMedicalClaims(bundle)...)
	violations = append(violations, v.checkKeywordCoverage(bundle, knownKeywords)...)

	return violations
}

func (v *Validator) checkTitle(bundle *model.ContentBundle, brand string) []model.Violation {
	var out []model.Violation

	if bundle.Title == "" {
		out = append(out, model.Violation{
			Kind:    model.ViolationTitleEmpty,
			Message: "title is empty",
		})
	}
	if Length(bundle.Title) > TitleMaxLen {
		out = append(out, model.Violation{
			Kind:    model.ViolationTitleTooLong,
			Message: fmt.Sprintf("title is %d characters (max %d)", Length(bundle.Title), TitleMaxLen),
		})
	}
	if brand != "" && !ContainsFold(bundle.Title, brand) {
		out = append(out, model.Violation{
			Kind:    model.ViolationTitleMissingBrand,
			Message: fmt.Sprintf("title does not mention brand %q", brand),
		})
	}
	out = append(out, bannedWordViolations("title", bundle.Title)...)

	return out
}

func (v *Validator) checkBullets(bundle *model.ContentBundle) []model.Violation {
	var out []model.Violation

	if len(bundle.Bullets) != BulletCount {
		out = append(out, model.Violation{
			Kind:    model.ViolationBulletsWrongCount,
			Message: fmt.Sprintf("bullets count is %d (must be exactly %d)", len(bundle.Bullets), BulletCount),
		})
	}
	for i, item := range bundle.Bullets {
		text := model.BulletText(item)
		if Length(text) > BulletMaxLen {
			out = append(out, model.Violation{
				Kind:    model.ViolationBulletTooLong,
				Index:   i,
				Message: fmt.Sprintf("bullet %d is %d characters (max %d)", i+1, Length(text), BulletMaxLen),
			})
		}
		out = append(out, bannedWordViolations(fmt.Sprintf("bullet %d", i+1), text)...)
	}

	return out
}

func (v *Validator) checkDescription(bundle *model.ContentBundle, brand string) []model.Violation {
	var out []model.Violation

	words := WordCount(bundle.Description)
	if words < DescMinWords || words > DescMaxWords {
		out = append(out, model.Violation{
			Kind:    model.ViolationDescWordCount,
			Message: fmt.Sprintf("description is %d words (must be %d-%d)", words, DescMinWords, DescMaxWords),
		})
	}
	if brand != "" && !ContainsFold(bundle.Description, brand) {
		out = append(out, model.Violation{
			Kind:    model.ViolationDescMissingBrand,
			Message: fmt.Sprintf("description does not mention brand %q", brand),
		})
	}
	out = append(out, bannedWordViolations("description", bundle.Description)...)

	return out
}

func (v *Validator) checkMetaTitle(bundle *model.ContentBundle) []model.Violation {
	var out []model.Violation

	if bundle.MetaTitle == "" {
		out = append(out, model.Violation{
			Kind:    model.ViolationMetaTitleEmpty,
			Message: "meta title is empty",
		})
	}
	if Length(bundle.MetaTitle) > MetaTitleMaxLen {
		out = append(out, model.Violation{
			Kind:    model.ViolationMetaTitleTooLong,
			Message: fmt.Sprintf("meta title is %d characters (max %d)", Length(bundle.MetaTitle), MetaTitleMaxLen),
		})
	}
	out = append(out, bannedWordViolations("meta_title", bundle.MetaTitle)...)

	return out
}

func (v *Validator) checkMetaDescription(bundle *model.ContentBundle) []model.Violation {
	var out []model.Violation

	if bundle.MetaDescription == "" {
		out = append(out, model.Violation{
			Kind:    model.ViolationMetaDescEmpty,
			Message: "meta description is empty",
		})
	}
	if Length(bundle.MetaDescription) > MetaDescMaxLen {
		out = append(out, model.Violation{
			Kind:    model.ViolationMetaDescTooLong,
			Message: fmt.Sprintf("meta description is %d characters (max %d)", Length(bundle.MetaDescription), MetaDescMaxLen),
		})
	}
	out = append(out, bannedWordViolations("meta_description", bundle.MetaDescription)...)

	return out
}

func (v *Validator) checkMedicalClaims(bundle *model.ContentBundle) []model.Violation {
	if !ContainsMedicalClaim(bundle.CombinedText()) {
		return nil
	}
	// Flag presence once, not per occurrence.
	return []model.Violation{{
		Kind:    model.ViolationMedicalClaim,
		Message: "content contains a medical claim",
	}}
}

func (v *Validator) checkKeywordCoverage(bundle *model.ContentBundle, knownKeywords []string) []model.Violation {
	if len(knownKeywords) == 0 {
		return nil
	}

	searchable := bundle.Title + " " + bundle.Description
	for _, item := range bundle.Bullets {
		searchable += " " + model.BulletText(item)
	}

	var out []model.Violation
	for _, keyword := range knownKeywords {
		if keyword == "" {
			continue
		}
		if !ContainsFold(searchable, keyword) {
			out = append(out, model.Violation{
				Kind:    model.ViolationKeywordMissing,
				Keyword: keyword,
				Message: fmt.Sprintf("keyword %q missing from content", keyword),
			})
		}
	}
	return out
}

func bannedWordViolations(field, text string) []model.Violation {
	var out []model.Violation
	for _, word := range FindBannedWords(text) {
		out = append(out, model.Violation{
			Kind:    model.ViolationBannedWord,
			Field:   field,
			Word:    word,
			Message: fmt.Sprintf("banned word %q in %s", word, field),
		})
	}
	return out
}
