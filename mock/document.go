package mock

import "github.com/fwojciec/rulefetch"

var _ rulefetch.DocumentReader = (*DocumentReader)(nil)

// DocumentReader is a mock implementation of rulefetch.DocumentReader.
type DocumentReader struct {
	ReadDocumentFn func(path string) (*rulefetch.Document, error)
}

func (r *DocumentReader) ReadDocument(path string) (*rulefetch.Document, error) {
	return r.ReadDocumentFn(path)
}
