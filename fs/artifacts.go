package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/rulefetch"
)

var _ rulefetch.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore implements rulefetch.ArtifactStore over a download
// directory. Section artifacts are named
// {prefix}_{rule}_{YYYY-MM-DD}_{index}.{pdf|json}.
type ArtifactStore struct {
	dir         string
	prefix      string
	urlTemplate string
	titlePrefix string
	pattern     *regexp.Regexp

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewArtifactStore creates an ArtifactStore for dir. Discovered artifacts
// get their URL from the site's section template and a generated title.
func NewArtifactStore(dir, prefix string, site rulefetch.SiteConfig) *ArtifactStore {
	return &ArtifactStore{
		dir:         dir,
		prefix:      prefix,
		urlTemplate: site.SectionURLTemplate,
		titlePrefix: site.TitlePrefix,
		pattern: regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) +
			`_([0-9]+[a-z]?(?:\.[0-9]+)?)_(\d{4}-\d{2}-\d{2})_(\d+)\.(pdf|json)$`),
		Now: time.Now,
	}
}

// Dir returns the download directory.
func (s *ArtifactStore) Dir() string {
	return s.dir
}

var unsafeRuleChars = regexp.MustCompile(`[^0-9a-z.]`)

// BasePath implements rulefetch.ArtifactStore.
func (s *ArtifactStore) BasePath(ref *rulefetch.SectionReference, index int) string {
	rule := unsafeRuleChars.ReplaceAllString(strings.ToLower(ref.RuleNumber), "")
	name := fmt.Sprintf("%s_%s_%s_%d", s.prefix, rule, s.Now().Format(time.DateOnly), index)
	return filepath.Join(s.dir, name)
}

// TOCBasePath implements rulefetch.ArtifactStore.
func (s *ArtifactStore) TOCBasePath() string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_toc_%s", s.prefix, s.Now().Format(time.DateOnly)))
}

type match struct {
	stored *rulefetch.StoredArtifact
	date   string
	index  int
}

// FindArtifacts implements rulefetch.ArtifactStore. When a rule has several
// artifacts the one with the latest date, then the highest index, wins.
// Results are sorted by rule number.
func (s *ArtifactStore) FindArtifacts(ctx context.Context) ([]*rulefetch.StoredArtifact, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	best := make(map[string]*match)
	var order []string
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() {
			continue
		}
		m := s.pattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		index, _ := strconv.Atoi(m[3])

		kind := rulefetch.ArtifactDocument
		if m[4] == "json" {
			kind = rulefetch.ArtifactRawText
		}
		rule := m[1]
		cand := &match{
			stored: &rulefetch.StoredArtifact{
				Reference: &rulefetch.SectionReference{
					RuleNumber: rule,
					Title:      fmt.Sprintf("%s %s", s.titlePrefix, rule),
					URL:        rulefetch.SectionURL(s.urlTemplate, rule),
					Source:     rulefetch.SourceExistingArtifact,
				},
				Artifact: &rulefetch.Artifact{
					Kind:      kind,
					Path:      filepath.Join(s.dir, e.Name()),
					SizeBytes: info.Size(),
				},
				ModTime: info.ModTime(),
			},
			date:  m[2],
			index: index,
		}

		prev, ok := best[rule]
		if !ok {
			order = append(order, rule)
			best[rule] = cand
			continue
		}
		if cand.date > prev.date || (cand.date == prev.date && cand.index > prev.index) {
			best[rule] = cand
		}
	}

	out := make([]*rulefetch.StoredArtifact, 0, len(order))
	refs := make([]*rulefetch.SectionReference, 0, len(order))
	byRef := make(map[*rulefetch.SectionReference]*rulefetch.StoredArtifact, len(order))
	for _, rule := range order {
		st := best[rule].stored
		refs = append(refs, st.Reference)
		byRef[st.Reference] = st
	}
	rulefetch.SortReferences(refs)
	for _, ref := range refs {
		out = append(out, byRef[ref])
	}
	return out, nil
}

// NewestModTime implements rulefetch.ArtifactStore.
func (s *ArtifactStore) NewestModTime(ctx context.Context) (time.Time, error) {
	found, err := s.FindArtifacts(ctx)
	if err != nil {
		return time.Time{}, err
	}
	var newest time.Time
	for _, st := range found {
		if st.ModTime.After(newest) {
			newest = st.ModTime
		}
	}
	return newest, nil
}
