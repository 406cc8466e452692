package rulefetch

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ReferenceSource records how a SectionReference was discovered.
type ReferenceSource string

// ReferenceSource values.
const (
	SourceHyperlink        ReferenceSource = "hyperlink"
	SourceTextPattern      ReferenceSource = "text-pattern"
	SourceCurated          ReferenceSource = "curated"
	SourceExistingArtifact ReferenceSource = "existing-artifact"
)

// SectionReference is a candidate rule section identified by number, title
// and URL, prior to acceptance. RuleNumber is the unique key within a run and
// may carry trailing letters (e.g. "437c").
type SectionReference struct {
	RuleNumber string          `json:"ruleNumber" yaml:"rule_number"`
	Title      string          `json:"title" yaml:"title"`
	URL        string          `json:"url" yaml:"url"`
	Page       int             `json:"page,omitempty" yaml:"page,omitempty"`
	Source     ReferenceSource `json:"source" yaml:"source"`
}

// Validate returns an error if the reference cannot be processed.
func (r *SectionReference) Validate() error {
	if strings.TrimSpace(r.RuleNumber) == "" {
		return Errorf(EINVALID, "section rule number required")
	}
	return nil
}

var (
	letterRe        = regexp.MustCompile(`[A-Za-z]`)
	leadingNumberRe = regexp.MustCompile(`^\d+(?:\.\d+)?`)
)

// NumericValue returns the numeric value of a rule number with letters
// stripped ("437c" is 437, "430.10" is 430.1). The boolean is false when no
// leading number remains.
func NumericValue(ruleNumber string) (float64, bool) {
	s := letterRe.ReplaceAllString(strings.TrimSpace(ruleNumber), "")
	m := leadingNumberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SortReferences stable-sorts refs ascending by the numeric value of their
// rule number. Entries without a numeric value sort as 0.
func SortReferences(refs []*SectionReference) {
	sort.SliceStable(refs, func(i, j int) bool {
		a, _ := NumericValue(refs[i].RuleNumber)
		b, _ := NumericValue(refs[j].RuleNumber)
		return a < b
	})
}

// SectionURL expands a section URL template, replacing every "{ruleNumber}"
// placeholder with the given rule number.
func SectionURL(template, ruleNumber string) string {
	return strings.ReplaceAll(template, "{ruleNumber}", ruleNumber)
}
