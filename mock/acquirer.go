package mock

import (
	"context"

	"github.com/fwojciec/rulefetch"
)

var _ rulefetch.TOCAcquirer = (*TOCAcquirer)(nil)

// TOCAcquirer is a mock implementation of rulefetch.TOCAcquirer.
type TOCAcquirer struct {
	AcquireFn func(ctx context.Context, basePath string) (*rulefetch.Artifact, error)
}

func (a *TOCAcquirer) Acquire(ctx context.Context, basePath string) (*rulefetch.Artifact, error) {
	return a.AcquireFn(ctx, basePath)
}

var _ rulefetch.SectionAcquirer = (*SectionAcquirer)(nil)

// SectionAcquirer is a mock implementation of rulefetch.SectionAcquirer.
type SectionAcquirer struct {
	AcquireFn func(ctx context.Context, ref *rulefetch.SectionReference, basePath string) (*rulefetch.Outcome, error)
}

func (a *SectionAcquirer) Acquire(ctx context.Context, ref *rulefetch.SectionReference, basePath string) (*rulefetch.Outcome, error) {
	return a.AcquireFn(ctx, ref, basePath)
}

var _ rulefetch.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of rulefetch.LinkExtractor.
type LinkExtractor struct {
	ExtractFn func(doc *rulefetch.Document) []*rulefetch.SectionReference
}

func (e *LinkExtractor) Extract(doc *rulefetch.Document) []*rulefetch.SectionReference {
	return e.ExtractFn(doc)
}
