package rulefetch

import (
	"strings"
	"time"
)

// Document is the text content of a paginated document artifact.
type Document struct {
	Pages    []DocumentPage
	Metadata DocumentMetadata

	// Images reports whether the document carries embedded images. A
	// document without text is only genuine when it is a scan.
	Images bool
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// FirstPageText returns the text of the first page, or "" for an empty
// document.
func (d *Document) FirstPageText() string {
	if len(d.Pages) == 0 {
		return ""
	}
	return d.Pages[0].Text
}

// HasText reports whether any page has text.
func (d *Document) HasText() bool {
	for _, p := range d.Pages {
		if strings.TrimSpace(p.Text) != "" {
			return true
		}
	}
	return false
}

// DocumentPage is one page of a Document.
type DocumentPage struct {
	Number int      `json:"page"`
	Text   string   `json:"text"`
	Links  []string `json:"-"`
}

// DocumentMetadata is the document information dictionary.
type DocumentMetadata struct {
	Title            string `json:"title,omitempty"`
	Author           string `json:"author,omitempty"`
	Subject          string `json:"subject,omitempty"`
	Creator          string `json:"creator,omitempty"`
	Producer         string `json:"producer,omitempty"`
	CreationDate     string `json:"creation_date,omitempty"`
	ModificationDate string `json:"modification_date,omitempty"`
}

// DocumentReader reads document artifacts.
type DocumentReader interface {
	// ReadDocument parses the document at path and returns its page text,
	// link targets and metadata.
	ReadDocument(path string) (*Document, error)
}

// RawTextPayload is the on-disk content of a RawText artifact.
type RawTextPayload struct {
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}
