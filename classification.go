package rulefetch

// Category is one of the six filing questions a section can answer.
type Category string

// Category values.
const (
	CategoryWhen   Category = "WHEN"
	CategoryHow    Category = "HOW"
	CategoryWhere  Category = "WHERE"
	CategoryWhat   Category = "WHAT"
	CategoryWho    Category = "WHO"
	CategoryFormat Category = "FORMAT"
)

// Categories returns the filing-question categories in canonical order.
func Categories() []Category {
	return []Category{
		CategoryWhen,
		CategoryHow,
		CategoryWhere,
		CategoryWhat,
		CategoryWho,
		CategoryFormat,
	}
}

// Valid reports whether c is one of the six categories.
func (c Category) Valid() bool {
	for _, v := range Categories() {
		if c == v {
			return true
		}
	}
	return false
}

// ClassificationResult is the classifier's decision for one reference.
type ClassificationResult struct {
	Reference *SectionReference `json:"reference"`
	Included  bool              `json:"included"`
	Category  Category          `json:"matchedCategory,omitempty"`

	// Excluded is set when an exclusion rule rejected the reference, as
	// opposed to a low keyword score.
	Excluded bool `json:"excluded,omitempty"`

	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// Relevance returns the decision without the reference, as stored on
// extracted records.
func (r *ClassificationResult) Relevance() *Relevance {
	return &Relevance{
		Included: r.Included,
		Category: r.Category,
		Score:    r.Score,
		Reason:   r.Reason,
	}
}

// Relevance summarizes why a section was selected.
type Relevance struct {
	Included bool     `json:"isRelevant"`
	Category Category `json:"category,omitempty"`
	Score    int      `json:"score"`
	Reason   string   `json:"reason,omitempty"`
}

// Selection is the outcome of classifying a candidate set.
type Selection struct {
	// Results holds one decision per candidate, in candidate order.
	Results []*ClassificationResult

	// Accepted holds the included candidates followed by curated critical
	// references that were not already accepted.
	Accepted []*SectionReference

	// Curated holds the critical references added by the union step.
	Curated []*SectionReference
}

// Classifier decides which section references are filing-relevant.
// Implementations must be deterministic for a fixed configuration.
type Classifier interface {
	// Classify returns the decision for a single reference. A reference
	// without a rule number is always excluded.
	Classify(ref *SectionReference) *ClassificationResult

	// Select classifies every candidate and unions the curated critical
	// references into the accepted set by rule number.
	Select(refs []*SectionReference) *Selection

	// Critical returns the curated critical references.
	Critical() []*SectionReference

	// Criteria describes the configuration for the manifest summary.
	Criteria() FilteringCriteria
}
