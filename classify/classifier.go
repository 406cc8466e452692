// Package classify decides which section references answer a filing
// question.
//
// Decisions run in tiers: exclusion ranges reject, inclusion ranges accept
// with a category, and anything else is scored against weighted title
// keywords. Curated critical references are added after classification.
package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fwojciec/rulefetch"
)

var _ rulefetch.Classifier = (*Classifier)(nil)

// Classifier implements rulefetch.Classifier over a static configuration.
type Classifier struct {
	config   rulefetch.ClassifierConfig
	critical []*rulefetch.SectionReference
}

// NewClassifier returns a Classifier for cfg. Curated references without a
// URL get one from urlTemplate.
func NewClassifier(cfg rulefetch.ClassifierConfig, urlTemplate string) *Classifier {
	c := &Classifier{config: cfg}
	for _, ref := range cfg.Critical {
		ref := ref
		if ref.URL == "" {
			ref.URL = rulefetch.SectionURL(urlTemplate, ref.RuleNumber)
		}
		if ref.Source == "" {
			ref.Source = rulefetch.SourceCurated
		}
		c.critical = append(c.critical, &ref)
	}
	return c
}

// Classify implements rulefetch.Classifier.
func (c *Classifier) Classify(ref *rulefetch.SectionReference) *rulefetch.ClassificationResult {
	res := &rulefetch.ClassificationResult{Reference: ref}
	if ref == nil || ref.Validate() != nil {
		res.Reason = "missing rule number"
		res.Excluded = true
		return res
	}

	if v, ok := rulefetch.NumericValue(ref.RuleNumber); ok {
		for _, ex := range c.config.Exclusions {
			if ex.Contains(v) {
				res.Reason = ex.Reason
				res.Excluded = true
				return res
			}
		}
		for _, in := range c.config.Inclusions {
			if in.Contains(v) {
				res.Included = true
				res.Category = in.Category
				res.Reason = in.Label
				return res
			}
		}
	}

	c.score(ref, res)
	return res
}

// score applies the keyword tiers to the lowercased title.
func (c *Classifier) score(ref *rulefetch.SectionReference, res *rulefetch.ClassificationResult) {
	title := strings.ToLower(ref.Title)

	for _, term := range c.config.StrictExclusionTerms {
		if strings.Contains(title, strings.ToLower(term)) {
			res.Reason = fmt.Sprintf("excluded term %q", term)
			res.Excluded = true
			return
		}
	}

	points := make(map[rulefetch.Category]int)
	for _, tier := range c.config.Tiers {
		for _, kw := range tier.Keywords {
			if strings.Contains(title, strings.ToLower(kw.Term)) {
				res.Score += tier.Weight
				if kw.Category.Valid() {
					points[kw.Category] += tier.Weight
				}
			}
		}
	}
	res.Category = topCategory(points)

	switch {
	case res.Category == "":
		res.Reason = fmt.Sprintf("keyword score %d, no filing question matched", res.Score)
	case res.Score < c.config.Threshold:
		res.Reason = fmt.Sprintf("keyword score %d below threshold %d", res.Score, c.config.Threshold)
	default:
		res.Included = true
		res.Reason = fmt.Sprintf("keyword score %d (%s)", res.Score, strings.Join(categoryNames(points), ", "))
	}
}

// Select implements rulefetch.Classifier.
func (c *Classifier) Select(refs []*rulefetch.SectionReference) *rulefetch.Selection {
	sel := &rulefetch.Selection{}
	accepted := make(map[string]bool)
	for _, ref := range refs {
		res := c.Classify(ref)
		sel.Results = append(sel.Results, res)
		if res.Included && !accepted[ref.RuleNumber] {
			accepted[ref.RuleNumber] = true
			sel.Accepted = append(sel.Accepted, ref)
		}
	}

	for _, ref := range c.critical {
		if accepted[ref.RuleNumber] {
			continue
		}
		accepted[ref.RuleNumber] = true
		sel.Accepted = append(sel.Accepted, ref)
		sel.Curated = append(sel.Curated, ref)
	}
	return sel
}

// Critical implements rulefetch.Classifier.
func (c *Classifier) Critical() []*rulefetch.SectionReference {
	out := make([]*rulefetch.SectionReference, len(c.critical))
	copy(out, c.critical)
	return out
}

// Criteria implements rulefetch.Classifier.
func (c *Classifier) Criteria() rulefetch.FilteringCriteria {
	crit := rulefetch.FilteringCriteria{
		Focus:                 "Document filing procedures answering the six filing questions",
		QuestionsAddressed:    rulefetch.Categories(),
		MinimumRelevanceScore: c.config.Threshold,
		RequiresQuestionMatch: true,
	}
	seen := make(map[string]bool)
	for _, ex := range c.config.Exclusions {
		if !seen[ex.Reason] {
			seen[ex.Reason] = true
			crit.Exclusions = append(crit.Exclusions, ex.Reason)
		}
	}
	for _, ref := range c.critical {
		crit.KeySectionsIncluded = append(crit.KeySectionsIncluded, ref.RuleNumber)
	}
	return crit
}

// topCategory returns the category with the most points; ties go to the
// earlier category in canonical order.
func topCategory(points map[rulefetch.Category]int) rulefetch.Category {
	var best rulefetch.Category
	for _, cat := range rulefetch.Categories() {
		if points[cat] > 0 && points[cat] > points[best] {
			best = cat
		}
	}
	return best
}

// categoryNames returns the matched categories by descending points.
func categoryNames(points map[rulefetch.Category]int) []string {
	var cats []rulefetch.Category
	for _, cat := range rulefetch.Categories() {
		if points[cat] > 0 {
			cats = append(cats, cat)
		}
	}
	sort.SliceStable(cats, func(i, j int) bool { return points[cats[i]] > points[cats[j]] })
	names := make([]string, len(cats))
	for i, cat := range cats {
		names[i] = string(cat)
	}
	return names
}
