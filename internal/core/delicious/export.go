package delicious

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Draft is one normalized bookmark record extracted from an export, not yet
// persisted. URL may be empty when the source anchor has no href; such
// drafts are still emitted and it is the store's job to reject them.
type Draft struct {
	Title     string
	URL       string
	CreatedOn string
	Notes     string
	// ArchivedOn and Embed are always zero at import time; nothing in a
	// Delicious export maps onto them.
	ArchivedOn string
	Embed      *string
	Active     bool
}

// createdOnLayout matches the mark store's civil date-time column.
const createdOnLayout = "2006-01-02 15:04:05"

var nonWordRun = regexp.MustCompile(`\W+`)

// EachDraft walks the export's anchors in document order and calls fn once
// per anchor. Every anchor yields a draft; the extractor never filters.
// The walk is single-pass and restartable only by calling EachDraft again.
func (e *Export) EachDraft(fn func(Draft)) {
	e.doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		fn(draftFromAnchor(s))
	})
}

func draftFromAnchor(s *goquery.Selection) Draft {
	href, _ := s.Attr("href")

	notes := parseDescription(s.Get(0))
	notes += parseTagNote(s.AttrOr("tags", ""))

	return Draft{
		Title:     truncate(s.Text(), TitleMaxLen),
		URL:       href,
		CreatedOn: parseCreatedOn(s.AttrOr("add_date", "")),
		Notes:     notes,
		Active:    true,
	}
}

// truncate hard-cuts s to at most n characters. The cut counts runes, not
// bytes, so a multi-byte character is never split.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// parseCreatedOn converts an anchor's epoch-seconds add_date attribute to a
// civil date-time in UTC. A missing or non-numeric add_date falls back to
// the Unix epoch rather than dropping the record.
func parseCreatedOn(attr string) string {
	sec, err := strconv.ParseInt(strings.TrimSpace(attr), 10, 64)
	if err != nil {
		sec = 0
	}
	return time.Unix(sec, 0).UTC().Format(createdOnLayout)
}

// parseDescription returns the free-text description for an anchor, if any.
//
// Delicious exports place the description in a dd element immediately after
// the anchor's enclosing dt. The lookup is exactly one sibling deep: if the
// parent's next sibling is missing, or is anything other than a dd element
// (whitespace text nodes included), there is no description. goquery's
// Next() skips text nodes, so this works on the raw parse tree.
func parseDescription(anchor *html.Node) string {
	if anchor == nil || anchor.Parent == nil {
		return ""
	}
	sib := anchor.Parent.NextSibling
	if sib == nil || sib.Type != html.ElementNode || sib.Data != "dd" {
		return ""
	}
	return nodeText(sib)
}

// nodeText concatenates all text beneath n, like the DOM nodeValue of an
// element.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// parseTagNote turns an anchor's tags attribute into a hashtag line.
//
// A comma-separated value is split, each piece trimmed, every run of
// non-word characters inside a piece collapsed to a single hyphen, and the
// pieces prefixed with '#' and joined with single spaces:
//
//	"dev, web-dev, cool!"  ->  "#dev #web-dev #cool-"
//
// A value without commas is a single tag, trimmed and prefixed as-is. The
// result is preceded by a line break so it always lands below the
// description when one exists. An empty attribute contributes nothing.
func parseTagNote(tags string) string {
	if tags == "" {
		return ""
	}

	var note string
	if strings.Contains(tags, ",") {
		parts := strings.Split(tags, ",")
		for i, tag := range parts {
			parts[i] = "#" + nonWordRun.ReplaceAllString(strings.TrimSpace(tag), "-")
		}
		note = strings.Join(parts, " ")
	} else {
		note = "#" + strings.TrimSpace(tags)
	}

	return "\r\n" + note
}
