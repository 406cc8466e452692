package rulefetch

import "context"

// ArtifactKind distinguishes structured documents from scraped text.
type ArtifactKind string

// ArtifactKind values.
const (
	// ArtifactDocument is a paginated document file (PDF).
	ArtifactDocument ArtifactKind = "document"

	// ArtifactRawText is a JSON file holding a RawTextPayload.
	ArtifactRawText ArtifactKind = "raw_text"
)

// Extension returns the file extension used for the kind.
func (k ArtifactKind) Extension() string {
	if k == ArtifactRawText {
		return ".json"
	}
	return ".pdf"
}

// Artifact is the payload produced by one successful acquisition strategy.
// It is consumed once by the structured extractor.
type Artifact struct {
	Kind      ArtifactKind `json:"kind"`
	Path      string       `json:"path"`
	SizeBytes int64        `json:"sizeBytes"`

	// Strategy names the strategy that produced the artifact.
	Strategy string `json:"strategy,omitempty"`
}

// Target is what a strategy acts on: an already navigated page and the
// destination path (without extension) for the artifact it produces.
type Target struct {
	Reference *SectionReference
	URL       string
	Page      Page
	BasePath  string
}

// PathFor returns the destination path for an artifact of the given kind.
func (t *Target) PathFor(kind ArtifactKind) string {
	return t.BasePath + kind.Extension()
}

// Strategy is one way of acquiring an artifact for a target.
//
// Attempt returns (nil, nil) when the strategy does not apply, for example
// when the control it looks for is absent. An error is a strategy failure;
// neither outcome is fatal to the caller.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, target *Target) (*Artifact, error)
}

// Validator judges whether an artifact is genuine content or an error or
// placeholder page. It returns nil for valid artifacts and an EINVALID error
// describing the defect otherwise.
type Validator interface {
	Validate(artifact *Artifact) error
}

// AttemptOutcome classifies a single strategy attempt.
type AttemptOutcome string

// AttemptOutcome values.
const (
	OutcomeAccepted AttemptOutcome = "accepted"
	OutcomeEmpty    AttemptOutcome = "empty"
	OutcomeFailed   AttemptOutcome = "failed"
	OutcomeInvalid  AttemptOutcome = "invalid"
)

// Attempt records what one strategy did for a target.
type Attempt struct {
	Strategy string
	Outcome  AttemptOutcome
	Err      error
}

// Outcome is the result of running a strategy chain. Artifact is nil when
// every strategy was exhausted.
type Outcome struct {
	Artifact *Artifact
	Attempts []Attempt
}
