package extract

import (
	"regexp"
	"strings"

	"github.com/fwojciec/rulefetch"
)

// Limits applied to derived fields.
const (
	maxRequirementLen = 200
	minRequirementLen = 15
	maxTimingLen      = 150
	minTimingLen      = 3
	maxProvisionLen   = 300
	minProvisionLen   = 50
	maxProvisions     = 5
	maxAnswerLen      = 200
	maxAnswers        = 5
)

func mustCompileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

var requirementPatterns = mustCompileAll(
	`(?i)shall\s+(?:be\s+)?(?:file[d]?|serve[d]?)\s+([^.]{10,100})`,
	`(?i)must\s+(?:be\s+)?(?:file[d]?|serve[d]?)\s+([^.]{10,100})`,
	`(?i)(?:filing|service)\s+(?:shall|must)\s+([^.]{10,100})`,
	`(?i)(?:document|paper|pleading)\s+(?:shall|must)\s+([^.]{10,100})`,
)

var timingPatterns = mustCompileAll(
	`(?i)within\s+(\d+)\s+(calendar\s+days?|court\s+days?|business\s+days?|days?)`,
	`(?i)(\d+)\s+(calendar\s+days?|court\s+days?|business\s+days?)\s+(?:before|after|from)`,
	`(?i)(?:no\s+later\s+than|not\s+later\s+than)\s+([^.]{5,50})`,
	`(?i)(?:deadline|due\s+date|time\s+limit)\s+(?:is|shall\s+be)\s+([^.]{5,50})`,
)

var crossReferencePatterns = mustCompileAll(
	`(?i)(?:Section|Rule|Code)\s+(\d+\.?\d*(?:\.\d+)?)`,
	`(?i)Code\s+of\s+Civil\s+Procedure\s+[Ss]ection\s+(\d+\.?\d*)`,
	`(?i)California\s+Rules\s+of\s+Court\s+[Rr]ule\s+(\d+\.?\d*)`,
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

var provisionTerms = []string{
	"filing", "service", "pleading", "summons", "complaint", "procedure", "deadline", "format",
}

// answerPatterns are the per-category filing question patterns.
var answerPatterns = map[rulefetch.Category][]*regexp.Regexp{
	rulefetch.CategoryWhen: mustCompileAll(
		`(?i)within\s+(\d+)\s+(calendar\s+days?|court\s+days?|business\s+days?|days?)`,
		`(?i)(\d+)\s+(calendar\s+days?|court\s+days?|business\s+days?)\s+(?:before|after|from)`,
		`(?i)(?:no\s+later\s+than|not\s+later\s+than)\s+([^.]{5,50})`,
		`(?i)between\s+(\d+)\s*(?:a\.?m\.?|p\.?m\.?)\s+and\s+(\d+)\s*(?:a\.?m\.?|p\.?m\.?)`,
		`(?i)(?:deadline|due\s+date|time\s+limit)\s+(?:is|shall\s+be)\s+([^.]{5,50})`,
	),
	rulefetch.CategoryHow: mustCompileAll(
		`(?i)shall\s+(?:be\s+)?(?:served?|filed?|delivered?)\s+([^.]{10,100})`,
		`(?i)must\s+(?:be\s+)?(?:served?|filed?|delivered?)\s+([^.]{10,100})`,
		`(?i)(?:method|manner|way)\s+of\s+(?:service|filing|notice)\s+([^.]{10,100})`,
		`(?i)(?:personal|electronic|mail)\s+service\s+([^.]{10,100})`,
	),
	rulefetch.CategoryWhere: mustCompileAll(
		`(?i)(?:venue|jurisdiction)\s+(?:is|shall\s+be)\s+([^.]{10,100})`,
		`(?i)(?:county|court)\s+(?:of|in\s+which)\s+([^.]{10,100})`,
		`(?i)filed\s+in\s+([^.]{10,100})`,
		`(?i)(?:proper|appropriate)\s+court\s+([^.]{10,100})`,
	),
	rulefetch.CategoryWhat: mustCompileAll(
		`(?i)(?:document|form|paper|pleading)\s+(?:shall|must)\s+(?:contain|include|state)\s+([^.]{10,100})`,
		`(?i)(?:motion|petition|complaint)\s+(?:shall|must)\s+([^.]{10,100})`,
		`(?i)(?:attachment|exhibit|schedule)\s+([^.]{10,100})`,
	),
	rulefetch.CategoryWho: mustCompileAll(
		`(?i)(?:party|attorney|person)\s+(?:authorized|permitted|required)\s+to\s+([^.]{10,100})`,
		`(?i)(?:plaintiff|defendant|petitioner|respondent)\s+(?:shall|must)\s+([^.]{10,100})`,
		`(?i)(?:person|individual)\s+(?:18|eighteen)\s+years?\s+(?:of\s+age|old)\s+([^.]{10,100})`,
	),
	rulefetch.CategoryFormat: mustCompileAll(
		`(?i)(?:format|form)\s+(?:shall|must)\s+be\s+([^.]{10,100})`,
		`(?i)(?:signature|verification)\s+(?:shall|must)\s+([^.]{10,100})`,
		`(?i)(?:caption|heading)\s+(?:shall|must)\s+([^.]{10,100})`,
		`(?i)(?:electronic|paper)\s+(?:filing|service)\s+([^.]{10,100})`,
	),
}

// Analyze runs the pattern passes over normalized text. Section number and
// title are left for the caller.
func Analyze(text string) rulefetch.DerivedFields {
	return rulefetch.DerivedFields{
		ProceduralRequirements: Requirements(text),
		Deadlines:              Deadlines(text),
		CrossReferences:        CrossReferences(text),
		KeyProvisions:          KeyProvisions(text),
		FilingAnswers:          FilingAnswers(text),
	}
}

// Requirements returns the clauses following "shall be filed", "must be
// served" and similar constructions.
func Requirements(text string) []string {
	out := []string{}
	for _, re := range requirementPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			s := strings.TrimSpace(m[1])
			if len(s) > minRequirementLen {
				out = append(out, truncate(s, maxRequirementLen))
			}
		}
	}
	return out
}

// Deadlines returns timing phrases such as "10 court days" or the clause
// after "no later than".
func Deadlines(text string) []string {
	out := []string{}
	for _, re := range timingPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			s := strings.TrimSpace(strings.Join(m[1:], " "))
			if len(s) > minTimingLen {
				out = append(out, truncate(s, maxTimingLen))
			}
		}
	}
	return out
}

// CrossReferences returns the distinct section and rule numbers cited in
// text, in order of first appearance. A sentence-ending period is not part
// of the number.
func CrossReferences(text string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, re := range crossReferencePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			num := strings.TrimRight(m[1], ".")
			if !seen[num] {
				seen[num] = true
				out = append(out, num)
			}
		}
	}
	return out
}

// KeyProvisions returns up to five paragraphs that mention a filing term.
func KeyProvisions(text string) []string {
	out := []string{}
	for _, para := range paragraphBreak.Split(text, -1) {
		para = strings.TrimSpace(para)
		if len(para) <= minProvisionLen || !mentionsAny(strings.ToLower(para), provisionTerms) {
			continue
		}
		out = append(out, truncate(para, maxProvisionLen))
		if len(out) >= maxProvisions {
			break
		}
	}
	return out
}

// FilingAnswers returns up to five matches per filing question. Categories
// without a match are omitted.
func FilingAnswers(text string) map[rulefetch.Category][]string {
	out := make(map[rulefetch.Category][]string)
	for _, cat := range rulefetch.Categories() {
		var answers []string
		for _, re := range answerPatterns[cat] {
			for _, m := range re.FindAllString(text, -1) {
				if len(answers) >= maxAnswers {
					break
				}
				answers = append(answers, truncate(strings.TrimSpace(m), maxAnswerLen))
			}
		}
		if len(answers) > 0 {
			out[cat] = answers
		}
	}
	return out
}

func mentionsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
