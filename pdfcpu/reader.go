// Package pdfcpu reads document artifacts with github.com/pdfcpu/pdfcpu:
// per-page text from content streams, URI link annotations and the info
// dictionary.
package pdfcpu

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/rulefetch"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var _ rulefetch.DocumentReader = (*Reader)(nil)

// Reader implements rulefetch.DocumentReader.
type Reader struct{}

// NewReader returns a Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadDocument implements rulefetch.DocumentReader.
func (r *Reader) ReadDocument(path string) (*rulefetch.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	doc := &rulefetch.Document{
		Metadata: rulefetch.DocumentMetadata{
			Title:            ctx.XRefTable.Title,
			Author:           ctx.XRefTable.Author,
			Subject:          ctx.XRefTable.Subject,
			Creator:          ctx.XRefTable.Creator,
			Producer:         ctx.XRefTable.Producer,
			CreationDate:     ctx.XRefTable.CreationDate,
			ModificationDate: ctx.XRefTable.ModDate,
		},
		Images: hasImages(ctx),
	}
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		doc.Pages = append(doc.Pages, rulefetch.DocumentPage{
			Number: pageNr,
			Text:   pageText(ctx, pageNr),
			Links:  pageLinks(ctx, pageNr),
		})
	}
	return doc, nil
}

// pageText extracts text from a page's content stream. Unreadable pages
// yield "".
func pageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil || r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return textFromStream(data, pageFonts(ctx, pageNr))
}

// pageFonts loads the fonts named in a page's resources, inherited from
// the page tree when the page has none of its own.
func pageFonts(ctx *model.Context, pageNr int) map[string]*font {
	d, _, inh, err := ctx.PageDict(pageNr, false)
	if err != nil || d == nil {
		return nil
	}
	var res types.Dict
	if inh != nil {
		res = inh.Resources
	}
	for parent := d; res == nil && parent != nil; {
		if obj, found := parent.Find("Resources"); found {
			res, _ = ctx.DereferenceDict(obj)
			break
		}
		obj, found := parent.Find("Parent")
		if !found {
			break
		}
		parent, _ = ctx.DereferenceDict(obj)
	}
	if res == nil {
		return nil
	}

	obj, found := res.Find("Font")
	if !found {
		return nil
	}
	fd, err := ctx.DereferenceDict(obj)
	if err != nil || fd == nil {
		return nil
	}
	fonts := make(map[string]*font, len(fd))
	for name, o := range fd {
		if f := loadFont(ctx, o); f != nil {
			fonts[name] = f
		}
	}
	return fonts
}

// loadFont reads a font's code width and ToUnicode CMap. Composite (Type0)
// fonts use two-byte codes unless the CMap declares otherwise.
func loadFont(ctx *model.Context, o types.Object) *font {
	d, err := ctx.DereferenceDict(o)
	if err != nil || d == nil {
		return nil
	}
	f := &font{width: 1}
	if st := d.NameEntry("Subtype"); st != nil && *st == "Type0" {
		f.width = 2
	}

	obj, found := d.Find("ToUnicode")
	if !found {
		return f
	}
	sd, _, err := ctx.DereferenceStreamDict(obj)
	if err != nil || sd == nil {
		return f
	}
	if err := sd.Decode(); err != nil {
		return f
	}
	parseCMap(sd.Content, f)
	return f
}

// hasImages reports whether the document carries image XObjects. Scanned
// documents have images and no text layer.
func hasImages(ctx *model.Context) bool {
	if ctx.Optimize != nil {
		for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
			if len(pdfcpu.ImageObjNrs(ctx, pageNr)) > 0 {
				return true
			}
		}
	}
	for _, entry := range ctx.Table {
		if entry == nil || entry.Free || entry.Compressed {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if st := sd.NameEntry("Subtype"); st != nil && *st == "Image" {
			return true
		}
	}
	return false
}

// pageLinks returns the URI targets of a page's link annotations.
func pageLinks(ctx *model.Context, pageNr int) []string {
	d, _, _, err := ctx.PageDict(pageNr, false)
	if err != nil || d == nil {
		return nil
	}
	obj, found := d.Find("Annots")
	if !found {
		return nil
	}
	annots, err := ctx.DereferenceArray(obj)
	if err != nil {
		return nil
	}

	var links []string
	for _, o := range annots {
		annot, err := ctx.DereferenceDict(o)
		if err != nil || annot == nil {
			continue
		}
		if st := annot.NameEntry("Subtype"); st == nil || *st != "Link" {
			continue
		}
		actObj, found := annot.Find("A")
		if !found {
			continue
		}
		action, err := ctx.DereferenceDict(actObj)
		if err != nil || action == nil {
			continue
		}
		uriObj, found := action.Find("URI")
		if !found {
			continue
		}
		if uri := stringValue(ctx, uriObj); uri != "" {
			links = append(links, uri)
		}
	}
	return links
}

// stringValue resolves a string or hex literal.
func stringValue(ctx *model.Context, o types.Object) string {
	o, err := ctx.Dereference(o)
	if err != nil {
		return ""
	}
	var s string
	switch v := o.(type) {
	case types.StringLiteral:
		s, err = types.StringLiteralToString(v)
	case types.HexLiteral:
		s, err = types.HexLiteralToString(v)
	default:
		return ""
	}
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
