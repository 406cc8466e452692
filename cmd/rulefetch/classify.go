package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/rulefetch"
	"github.com/fwojciec/rulefetch/classify"
)

// Run executes the classify command.
func (c *ClassifyCmd) Run(deps *Dependencies) error {
	refs, err := parseCandidates(c.Candidates)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rulefetch.ErrorMessage(err))
		return err
	}

	classifier := classify.NewClassifier(deps.Config.Classifier, deps.Config.Site.SectionURLTemplate)
	sel := classifier.Select(refs)

	for _, res := range sel.Results {
		verdict := "excluded"
		if res.Included {
			verdict = "included"
		}
		category := string(res.Category)
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(deps.Stdout, "%-10s %-8s %-6s %3d  %s\n",
			res.Reference.RuleNumber, verdict, category, res.Score, res.Reason)
	}

	if len(sel.Curated) > 0 {
		fmt.Fprintf(deps.Stdout, "\nCurated additions (%d):\n", len(sel.Curated))
		for _, ref := range sel.Curated {
			fmt.Fprintf(deps.Stdout, "%-10s %s\n", ref.RuleNumber, ref.Title)
		}
	}
	return nil
}

// parseCandidates turns "ruleNumber=title" arguments into references.
func parseCandidates(args []string) ([]*rulefetch.SectionReference, error) {
	refs := make([]*rulefetch.SectionReference, 0, len(args))
	for _, arg := range args {
		num, title, ok := strings.Cut(arg, "=")
		num = strings.TrimSpace(num)
		if !ok || num == "" {
			return nil, rulefetch.Errorf(rulefetch.EINVALID, "invalid candidate %q, want ruleNumber=title", arg)
		}
		refs = append(refs, &rulefetch.SectionReference{
			RuleNumber: num,
			Title:      strings.TrimSpace(title),
			Source:     rulefetch.SourceTextPattern,
		})
	}
	return refs, nil
}
