package pipeline

import "github.com/fwojciec/rulefetch"

// SkipSet returns the rule numbers already present in prior. With
// retryFailed, rules whose record is an error are left out so they are
// processed again.
func SkipSet(prior *rulefetch.RunManifest, retryFailed bool) map[string]bool {
	skip := make(map[string]bool)
	if prior == nil {
		return skip
	}
	for _, rec := range prior.Records {
		if retryFailed && !rec.Succeeded() {
			continue
		}
		skip[rec.RuleNumber()] = true
	}
	return skip
}

// Merge returns the prior records followed by the new ones, keyed by rule
// number. A new record replaces a prior record with the same rule number in
// place; this only happens when failed records are retried.
func Merge(prior *rulefetch.RunManifest, records []*rulefetch.ExtractedRecord) []*rulefetch.ExtractedRecord {
	out := make([]*rulefetch.ExtractedRecord, 0, priorCount(prior)+len(records))
	index := make(map[string]int)
	if prior != nil {
		for _, rec := range prior.Records {
			index[rec.RuleNumber()] = len(out)
			out = append(out, rec)
		}
	}
	for _, rec := range records {
		if i, ok := index[rec.RuleNumber()]; ok {
			out[i] = rec
			continue
		}
		index[rec.RuleNumber()] = len(out)
		out = append(out, rec)
	}
	return out
}
