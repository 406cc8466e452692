package mock

import "github.com/fwojciec/rulefetch"

var _ rulefetch.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of rulefetch.Classifier.
type Classifier struct {
	ClassifyFn func(ref *rulefetch.SectionReference) *rulefetch.ClassificationResult
	SelectFn   func(refs []*rulefetch.SectionReference) *rulefetch.Selection
	CriticalFn func() []*rulefetch.SectionReference
	CriteriaFn func() rulefetch.FilteringCriteria
}

func (c *Classifier) Classify(ref *rulefetch.SectionReference) *rulefetch.ClassificationResult {
	return c.ClassifyFn(ref)
}

func (c *Classifier) Select(refs []*rulefetch.SectionReference) *rulefetch.Selection {
	return c.SelectFn(refs)
}

func (c *Classifier) Critical() []*rulefetch.SectionReference {
	return c.CriticalFn()
}

func (c *Classifier) Criteria() rulefetch.FilteringCriteria {
	return c.CriteriaFn()
}
