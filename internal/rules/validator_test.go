package rules

import (
	"strings"
	"testing"

	"github.com/prodtext/refinery/internal/model"
)

// compliantBundle builds a bundle that passes every check for brand "Acme"
// with keyword "Blue".
func compliantBundle() *model.ContentBundle {
	words := make([]string, 140)
	for i := range words {
		words[i] = "filler"
	}
	words[0] = "Acme"
	words[1] = "Blue"

	bullets := make([]string, 8)
	for i := range bullets {
		bullets[i] = model.WrapBullet("Durable construction for daily use")
	}

	return &model.ContentBundle{
		Title:           "Acme Widget in Blue",
		Bullets:         bullets,
		Description:     strings.Join(words, " "),
		MetaTitle:       "Acme Widget",
		MetaDescription: "A dependable Acme widget for everyday tasks.",
	}
}

func TestValidateCompliantBundle(t *testing.T) {
	v := NewValidator()
	violations := v.Validate(compliantBundle(), []string{"Blue"}, "Acme")
	if len(violations) != 0 {
		t.Errorf("expected no violations, got %v", violations)
	}
}

func TestValidateEmptyBundleIsTotal(t *testing.T) {
	v := NewValidator()
	violations := v.Validate(&model.ContentBundle{}, nil, "Acme")

	kinds := kindSet(violations)
	for _, want := range []model.ViolationKind{
		model.ViolationTitleEmpty,
		model.ViolationTitleMissingBrand,
		model.ViolationBulletsWrongCount,
		model.ViolationDescWordCount,
		model.ViolationDescMissingBrand,
		model.ViolationMetaTitleEmpty,
		model.ViolationMetaDescEmpty,
	} {
		if !kinds[want] {
			t.Errorf("missing expected violation kind %s in %v", want, violations)
		}
	}
}

func TestValidateTitleChecks(t *testing.T) {
	v := NewValidator()

	b := compliantBundle()
	b.Title = strings.Repeat("x", 151)
	kinds := kindSet(v.Validate(b, nil, "Acme"))
	if !kinds[model.ViolationTitleTooLong] {
		t.Error("expected title_too_long")
	}
	if !kinds[model.ViolationTitleMissingBrand] {
		t.Error("expected title_missing_brand")
	}

	b = compliantBundle()
	b.Title = "acme widget" // brand match is case-insensitive
	kinds = kindSet(v.Validate(b, nil, "Acme"))
	if kinds[model.ViolationTitleMissingBrand] {
		t.Error("brand match should be case-insensitive")
	}
}

func TestValidateBannedWordsPerField(t *testing.T) {
	v := NewValidator()
	b := compliantBundle()
	b.Title = "Acme perfect Widget"
	b.MetaTitle = "Premium Acme"

	var fields []string
	for _, violation := range v.Validate(b, nil, "Acme") {
		if violation.Kind == model.ViolationBannedWord {
			fields = append(fields, violation.Field+":"+violation.Word)
		}
	}
	want := map[string]bool{"title:perfect": true, "meta_title:premium": true}
	if len(fields) != 2 {
		t.Fatalf("expected 2 banned-word violations, got %v", fields)
	}
	for _, f := range fields {
		if !want[f] {
			t.Errorf("unexpected banned-word violation %s", f)
		}
	}
}

func TestValidateBulletChecks(t *testing.T) {
	v := NewValidator()

	b := compliantBundle()
	b.Bullets = b.Bullets[:5]
	kinds := kindSet(v.Validate(b, nil, "Acme"))
	if !kinds[model.ViolationBulletsWrongCount] {
		t.Error("expected bullets_wrong_count for 5 bullets")
	}

	b = compliantBundle()
	b.Bullets[3] = model.WrapBullet(strings.Repeat("y", 86))
	found := false
	for _, violation := range v.Validate(b, nil, "Acme") {
		if violation.Kind == model.ViolationBulletTooLong && violation.Index == 3 {
			found = true
		}
	}
	if !found {
		t.Error("expected bullet_too_long with index 3")
	}
}

func TestValidateDescriptionWordCount(t *testing.T) {
	v := NewValidator()

	for _, tc := range []struct {
		words   int
		violate bool
	}{
		{119, true},
		{120, false},
		{160, false},
		{161, true},
	} {
		b := compliantBundle()
		words := make([]string, tc.words)
		for i := range words {
			words[i] = "filler"
		}
		words[0] = "Acme"
		b.Description = strings.Join(words, " ")

		kinds := kindSet(v.Validate(b, nil, "Acme"))
		if kinds[model.ViolationDescWordCount] != tc.violate {
			t.Errorf("words=%d: violation=%v, want %v", tc.words, kinds[model.ViolationDescWordCount], tc.violate)
		}
	}
}

func TestValidateMetaLengths(t *testing.T) {
	v := NewValidator()

	b := compliantBundle()
	b.MetaTitle = strings.Repeat("m", 71)
	b.MetaDescription = strings.Repeat("d", 161)
	kinds := kindSet(v.Validate(b, nil, "Acme"))
	if !kinds[model.ViolationMetaTitleTooLong] {
		t.Error("expected meta_title_too_long")
	}
	if !kinds[model.ViolationMetaDescTooLong] {
		t.Error("expected meta_desc_too_long")
	}
}

func TestValidateMedicalClaimFlaggedOnce(t *testing.T) {
	v := NewValidator()
	b := compliantBundle()
	b.Description = strings.Replace(b.Description, "filler filler", "cures heals", 1)

	count := 0
	for _, violation := range v.Validate(b, nil, "Acme") {
		if violation.Kind == model.ViolationMedicalClaim {
			count++
		}
	}
	if count != 1 {
		t.Errorf("medical claim should be flagged once, got %d", count)
	}
}

func TestValidateKeywordCoverage(t *testing.T) {
	v := NewValidator()
	b := compliantBundle()

	violations := v.Validate(b, []string{"Blue", "Waterproof"}, "Acme")
	var missing []string
	for _, violation := range violations {
		if violation.Kind == model.ViolationKeywordMissing {
			missing = append(missing, violation.Keyword)
		}
	}
	if len(missing) != 1 || missing[0] != "Waterproof" {
		t.Errorf("expected only Waterproof missing, got %v", missing)
	}

	// Keywords in bullets count as covered
	b.Bullets[0] = model.WrapBullet("Waterproof shell")
	violations = v.Validate(b, []string{"Blue", "Waterproof"}, "Acme")
	for _, violation := range violations {
		if violation.Kind == model.ViolationKeywordMissing {
			t.Errorf("unexpected missing keyword %q", violation.Keyword)
		}
	}
}

func TestValidateRunsAllChecks(t *testing.T) {
	// A bundle violating everything at once must report every category:
	// no short-circuiting.
	v := NewValidator()
	b := &model.ContentBundle{
		Title:           strings.Repeat("perfect ", 25), // long, banned, no brand
		Bullets:         []string{model.WrapBullet(strings.Repeat("z", 90))},
		Description:     "short cures everything",
		MetaTitle:       strings.Repeat("m", 80),
		MetaDescription: "",
	}
	kinds := kindSet(v.Validate(b, []string{"Blue"}, "Acme"))

	for _, want := range []model.ViolationKind{
		model.ViolationTitleTooLong,
		model.ViolationTitleMissingBrand,
		model.ViolationBannedWord,
		model.ViolationBulletsWrongCount,
		model.ViolationBulletTooLong,
		model.ViolationDescWordCount,
		model.ViolationDescMissingBrand,
		model.ViolationMetaTitleTooLong,
		model.ViolationMetaDescEmpty,
		model.ViolationMedicalClaim,
		model.ViolationKeywordMissing,
	} {
		if !kinds[want] {
			t.Errorf("missing violation kind %s", want)
		}
	}
}

func kindSet(violations []model.Violation) map[model.ViolationKind]bool {
	kinds := make(map[model.ViolationKind]bool)
	for _, v := range violations {
		kinds[v.Kind] = true
	}
	return kinds
}
