// Package delicious reads Delicious bookmark export files.
//
// A Delicious export is a Netscape bookmark HTML file with two extra
// conventions layered on top: anchors carry an epoch-seconds add_date
// attribute and a comma-separated tags attribute, and each anchor's dt may
// be followed by a dd holding a free-text description. The package
// validates uploads, extracts one draft per anchor, and drives imports
// against a mark store.
package delicious

// Format constants for the Delicious export dialect.
const (
	// TypeHTML is the declared media type an export upload must carry.
	TypeHTML = "text/html"
	// DoctypeNetscape is the marker every Netscape-style bookmark export
	// declares in its doctype.
	DoctypeNetscape = "netscape-bookmark-file"
	// TitleMaxLen caps draft titles to the mark store's column width.
	TitleMaxLen = 150
)

// UploadedFile describes an export file handed over by the caller.
//
// Err carries the transport-level error code reported by the upload layer;
// 0 means the upload completed cleanly.
type UploadedFile struct {
	Path        string
	Size        int64
	ContentType string
	Err         int
}
