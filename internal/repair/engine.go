// Package repair applies deterministic, non-generative fixes to a content
// bundle. The engine never calls the generation backend; it patches the
// bundle toward compliance using only the product facts and a fixed fix
// battery.
package repair

import (
	"strings"

	"github.com/prodtext/refinery/internal/model"
	"github.com/prodtext/refinery/internal/rules"
)

// fillerSentences is the deterministic pool used to pad short descriptions.
// Worded to stay clear of the banned-word and medical-claim lists.
var fillerSentences = []string{
	"This product is designed for everyday use and provides reliable performance.",
	"The innovative design ensures user satisfaction and long-lasting durability.",
	"Customers appreciate the quality construction and attention to detail.",
	"This item offers great value and meets high standards of quality.",
	"The thoughtful engineering makes this product a smart choice for consumers.",
	"Users will enjoy the convenience and efficiency this product provides.",
	"The robust build quality ensures years of dependable service.",
	"This product combines functionality with style for modern living.",
	"Careful material selection supports consistent performance over time.",
	"The design focuses on comfort, ease of use, and practical results.",
	"Each unit is checked against strict quality standards before shipping.",
	"Simple upkeep keeps this product performing at its best year after year.",
	"A sensible layout of features makes daily tasks faster and easier.",
	"The compact form factor fits neatly into homes, offices, and workspaces.",
	"Dependable operation makes this a practical pick for busy households.",
	"Clear instructions make setup quick and straightforward for new users.",
	"Thoughtful details throughout reflect real attention to customer needs.",
	"Balanced proportions give this product a clean and modern appearance.",
	"Consistent output means fewer surprises and more predictable results.",
	"The sturdy construction stands up well to regular, repeated use.",
}

// Engine is the deterministic repair engine.
type Engine struct{}

// NewEngine creates a new repair engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Repair patches the bundle in place and returns it. The full fix battery is
// always applied regardless of which violations were reported: every fix is
// idempotent and leaves already-compliant fields untouched. Order matters:
// banned-word substitution runs before length enforcement because
// substitution can change lengths.
func (e *Engine) Repair(bundle *model.ContentBundle, violations []model.Violation, facts *model.ProductFacts) *model.ContentBundle {
	e.substituteBannedWords(bundle)
	e.insertBrand(bundle, facts.Brand)
	e.normalizeBullets(bundle)
	e.enforceLengths(bundle)
	e.correctDescriptionWordCount(bundle, facts)
	e.backfillKeywords(bundle, facts)
	return bundle
}

// 1. Banned-word substitution across every text field.
func (e *Engine) substituteBannedWords(bundle *model.ContentBundle) {
	bundle.Title = rules.ReplaceBannedWords(bundle.Title)
	bundle.Description = rules.ReplaceBannedWords(bundle.Description)
	bundle.MetaTitle = rules.ReplaceBannedWords(bundle.MetaTitle)
	bundle.MetaDescription = rules.ReplaceBannedWords(bundle.MetaDescription)
	for i, item := range bundle.Bullets {
		bundle.Bullets[i] = model.WrapBullet(rules.ReplaceBannedWords(model.BulletText(item)))
	}
}

// 2. Brand insertion into title and description when absent.
func (e *Engine) insertBrand(bundle *model.ContentBundle, brand string) {
	if brand == "" {
		return
	}
	if !rules.ContainsFold(bundle.Title, brand) {
		bundle.Title = brand + " " + bundle.Title
	}
	if !rules.ContainsFold(bundle.Description, brand) {
		bundle.Description = brand + " " + bundle.Description
	}
}

// 3. Bullet normalization: exactly the required count, each within the
// per-bullet character limit, re-wrapped in list-item form.
func (e *Engine) normalizeBullets(bundle *model.ContentBundle) {
	bullets := bundle.Bullets
	if len(bullets) > rules.BulletCount {
		bullets = bullets[:rules.BulletCount]
	}
	for len(bullets) < rules.BulletCount {
		bullets = append(bullets, model.WrapBullet("Product feature"))
	}
	for i, item := range bullets {
		text := model.BulletText(item)
		if text == "" {
			text = "Product feature"
		}
		bullets[i] = model.WrapBullet(truncateChars(text, rules.BulletMaxLen, false))
	}
	bundle.Bullets = bullets
}

// 4. Length enforcement on title and meta fields. Truncation prefers a word
// boundary and appends an ellipsis only for the meta description.
func (e *Engine) enforceLengths(bundle *model.ContentBundle) {
	bundle.Title = truncateChars(bundle.Title, rules.TitleMaxLen, false)
	bundle.MetaTitle = truncateChars(bundle.MetaTitle, rules.MetaTitleMaxLen, false)
	bundle.MetaDescription = truncateChars(bundle.MetaDescription, rules.MetaDescMaxLen, true)
}

// 5. Description word-count correction: pad to the floor from the filler
// pool plus sentences synthesized from attributes not yet mentioned, or
// truncate to exactly the ceiling.
func (e *Engine) correctDescriptionWordCount(bundle *model.ContentBundle, facts *model.ProductFacts) {
	words := rules.WordCount(bundle.Description)

	if words > rules.DescMaxWords {
		fields := strings.Fields(bundle.Description)
		bundle.Description = strings.Join(fields[:rules.DescMaxWords], " ")
		return
	}

	if words >= rules.DescMinWords {
		return
	}

	for _, sentence := range e.paddingPool(bundle, facts) {
		if rules.WordCount(bundle.Description) >= rules.DescMinWords {
			break
		}
		if bundle.Description != "" {
			bundle.Description += " "
		}
		bundle.Description += sentence
	}
}

// paddingPool builds the deterministic sentence pool for description
// padding: attribute-derived sentences first (they add keyword coverage for
// free), then the generic benefit statements.
func (e *Engine) paddingPool(bundle *model.ContentBundle, facts *model.ProductFacts) []string {
	var pool []string

	for _, pair := range facts.Attributes.Pairs() {
		parts := strings.SplitN(pair, ": ", 2)
		if len(parts) != 2 || parts[1] == "" {
			continue
		}
		if rules.ContainsFold(bundle.Description, parts[1]) {
			continue
		}
		pool = append(pool, "The "+strings.ToLower(parts[0])+" is "+parts[1]+" for dependable everyday performance.")
	}

	productType := strings.ToLower(strings.TrimSpace(facts.ProductType))
	if productType != "" {
		pool = append(pool, "This "+productType+" from "+facts.Brand+" delivers consistent results you can count on.")
	}
	pool = append(pool, fillerSentences...)

	return pool
}

// 6. Keyword back-fill: one trailing sentence listing attribute values still
// absent from the description. Runs after word-count correction and does not
// re-enforce the word ceiling, so full keyword coverage can leave a residual
// word-count violation on keyword-heavy products.
func (e *Engine) backfillKeywords(bundle *model.ContentBundle, facts *model.ProductFacts) {
	var missing []string
	for _, value := range facts.Attributes.FlattenValues() {
		if value == "" {
			continue
		}
		if !rules.ContainsFold(bundle.Description, value) {
			missing = append(missing, value)
		}
	}
	if len(missing) == 0 {
		return
	}

	if bundle.Description != "" && !strings.HasSuffix(bundle.Description, " ") {
		bundle.Description += " "
	}
	bundle.Description += "Features include: " + strings.Join(missing, ", ") + "."
}

// truncateChars cuts s to at most max characters, preferring the last word
// boundary when one falls in the final fifth of the budget. When ellipsis is
// set and content was cut, "..." is appended within the limit.
func truncateChars(s string, max int, ellipsis bool) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	budget := max
	if ellipsis {
		budget = max - 3
	}
	if budget < 0 {
		budget = 0
	}

	cut := string(runes[:budget])
	if idx := strings.LastIndex(cut, " "); idx > budget*4/5 {
		cut = cut[:idx]
	}
	cut = strings.TrimRight(cut, " ")

	if ellipsis {
		return cut + "..."
	}
	return cut
}
