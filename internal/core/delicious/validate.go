package delicious

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Validation failure kinds. Callers match them with errors.Is.
var (
	// ErrUploadInvalid means the upload itself is broken: empty descriptor,
	// zero size, a transport error code, or an unreadable file.
	ErrUploadInvalid = errors.New("invalid upload")
	// ErrWrongFileType means the declared media type is not HTML.
	ErrWrongFileType = errors.New("wrong file type")
	// ErrNotRecognizedFormat means the file parses as HTML but is not a
	// Delicious bookmark export.
	ErrNotRecognizedFormat = errors.New("not a recognized bookmark export")
)

// Export is a validated, parsed bookmark export document. It is consumed by
// a single import run and holds no state beyond the parsed tree.
type Export struct {
	doc *goquery.Document
}

// Validate checks that an uploaded file is an importable Delicious export
// and returns the parsed document on success.
//
// Checks run in order and stop at the first failure: upload integrity,
// declared media type, HTML parse, Netscape doctype marker, and finally the
// presence of at least one anchor with a non-empty tags attribute (the
// signature that separates a Delicious export from a generic bookmark
// file). The parser is the permissive x/net/html one, so real-world
// malformations like missing closing tags do not fail the parse step.
func Validate(upload UploadedFile) (*Export, error) {
	if upload == (UploadedFile{}) || upload.Size <= 0 || upload.Err != 0 {
		return nil, fmt.Errorf("%w: size=%d error=%d", ErrUploadInvalid, upload.Size, upload.Err)
	}
	if upload.ContentType != TypeHTML {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrWrongFileType, upload.ContentType, TypeHTML)
	}

	f, err := os.Open(upload.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadInvalid, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotRecognizedFormat, err)
	}

	if !hasNetscapeDoctype(doc) {
		return nil, fmt.Errorf("%w: missing %q doctype marker", ErrNotRecognizedFormat, DoctypeNetscape)
	}
	if !hasTaggedAnchor(doc) {
		return nil, fmt.Errorf("%w: no anchors with a tags attribute", ErrNotRecognizedFormat)
	}

	return &Export{doc: doc}, nil
}

// hasNetscapeDoctype reports whether the document's doctype name contains
// the Netscape bookmark marker. The doctype survives the permissive parse
// as a node directly under the document root.
func hasNetscapeDoctype(doc *goquery.Document) bool {
	for n := doc.Get(0).FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.DoctypeNode {
			return strings.Contains(strings.ToLower(n.Data), DoctypeNetscape)
		}
	}
	return false
}

// hasTaggedAnchor reports whether any anchor carries a non-empty tags
// attribute.
func hasTaggedAnchor(doc *goquery.Document) bool {
	found := false
	doc.Find("a[tags]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if tags, _ := s.Attr("tags"); tags != "" {
			found = true
			return false
		}
		return true
	})
	return found
}
