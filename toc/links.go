package toc

import (
	"regexp"
	"strings"

	"github.com/fwojciec/rulefetch"
)

// maxTitleLen bounds reference titles.
const maxTitleLen = 200

var sectionNumParam = regexp.MustCompile(`sectionNum=([\d\.a-z]+)`)

// textPatterns recognise "<number> <Capitalized title>" lines. The first
// submatch is the rule number.
var textPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+[a-z]?\.\d+[a-z]?)\s+[A-Z][^\n]{10,}`),
	regexp.MustCompile(`(\d+[a-z]?)\s+[A-Z][^\n]{10,}`),
	regexp.MustCompile(`Section\s+(\d+[a-z]?\.?\d*[a-z]?)\s+[A-Z][^\n]{10,}`),
	regexp.MustCompile(`(\d+[a-z])\.\s+[A-Z][^\n]{10,}`),
}

var _ rulefetch.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor turns a TOC document into section references.
type LinkExtractor struct {
	Site rulefetch.SiteConfig
}

// Extract returns one reference per distinct rule number, sorted by numeric
// value. Hyperlinks are scanned before text patterns and the first match
// for a rule number wins.
func (e *LinkExtractor) Extract(doc *rulefetch.Document) []*rulefetch.SectionReference {
	seen := make(map[string]bool)
	var refs []*rulefetch.SectionReference
	add := func(ref *rulefetch.SectionReference) {
		if ref.RuleNumber == "" || seen[ref.RuleNumber] {
			return
		}
		seen[ref.RuleNumber] = true
		refs = append(refs, ref)
	}

	for _, p := range doc.Pages {
		for _, link := range p.Links {
			if ref := e.fromLink(link, p); ref != nil {
				add(ref)
			}
		}
	}

	for _, p := range doc.Pages {
		for _, re := range textPatterns {
			for _, m := range re.FindAllStringSubmatch(p.Text, -1) {
				add(&rulefetch.SectionReference{
					RuleNumber: normalizeRuleNumber(m[1]),
					Title:      truncate(strings.TrimSpace(m[0]), maxTitleLen),
					URL:        rulefetch.SectionURL(e.Site.SectionURLTemplate, normalizeRuleNumber(m[1])),
					Page:       p.Number,
					Source:     rulefetch.SourceTextPattern,
				})
			}
		}
	}

	rulefetch.SortReferences(refs)
	return refs
}

func (e *LinkExtractor) fromLink(link string, p rulefetch.DocumentPage) *rulefetch.SectionReference {
	if !strings.Contains(link, e.Site.SectionLinkToken) || !strings.Contains(link, e.Site.LawCode) {
		return nil
	}
	m := sectionNumParam.FindStringSubmatch(link)
	if m == nil {
		return nil
	}
	num := normalizeRuleNumber(m[1])
	if num == "" {
		return nil
	}

	url := link
	if strings.HasPrefix(url, "/") {
		url = strings.TrimRight(e.Site.BaseURL, "/") + url
	}
	return &rulefetch.SectionReference{
		RuleNumber: num,
		Title:      e.titleFor(num, p.Text),
		URL:        url,
		Page:       p.Number,
		Source:     rulefetch.SourceHyperlink,
	}
}

// titleFor returns the first line of text that starts with num, or a
// generated title.
func (e *LinkExtractor) titleFor(num, text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, num)
		if !ok || rest == "" {
			continue
		}
		if c := rest[0]; c == ' ' || c == '.' || c == '\t' {
			return truncate(line, maxTitleLen)
		}
	}
	return e.Site.TitlePrefix + " " + num
}

// normalizeRuleNumber lowercases n and drops the trailing period the site
// appends to section numbers.
func normalizeRuleNumber(n string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(n)), ".")
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
