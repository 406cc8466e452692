package rulefetch

// Converter converts HTML to paragraph-preserving text.
type Converter interface {
	// Convert transforms an HTML fragment into Markdown text. Paragraphs
	// are separated by blank lines.
	Convert(html string) (string, error)
}
