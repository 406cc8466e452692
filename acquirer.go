package rulefetch

import "context"

// TOCAcquirer obtains the table-of-contents document.
type TOCAcquirer interface {
	// Acquire stores the document at basePath plus its extension.
	// Returns an error when no strategy produced a valid artifact.
	Acquire(ctx context.Context, basePath string) (*Artifact, error)
}

// SectionAcquirer runs the acquisition strategy chain for one section.
type SectionAcquirer interface {
	// Acquire returns the chain outcome for ref. Strategy failures are
	// reported in the outcome; an error means the section page itself
	// could not be reached.
	Acquire(ctx context.Context, ref *SectionReference, basePath string) (*Outcome, error)
}

// LinkExtractor finds section references in a table-of-contents document.
type LinkExtractor interface {
	Extract(doc *Document) []*SectionReference
}
