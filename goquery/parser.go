// Package goquery provides a DOM-based implementation of docwatch.Parser.
// It extracts document descriptors from listing page markup by matching
// anchors that point at document files, classifying them from link text and
// nearby headings.
package goquery

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docwatch"
)

// Ensure Parser implements docwatch.Parser at compile time.
var _ docwatch.Parser = (*Parser)(nil)

// documentExtensions are the file extensions treated as document links.
var documentExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".odt":  true,
	".rtf":  true,
}

// Keyword token sets for document type classification. Swedish first: the
// source listings are Swedish with occasional English labels.
var (
	statuteTokens = tokenSet("stadga", "stadgar", "stadgarna", "statute", "statutes", "bylaws")
	rulesTokens   = tokenSet("regel", "regler", "regelverk", "regelbok", "tävlingsbestämmelser", "serieregler", "rule", "rules", "regulations")
	formTokens    = tokenSet("blankett", "blanketter", "formulär", "ansökan", "anmälan", "form", "forms", "application")
)

var (
	versionRe    = regexp.MustCompile(`(?i)\bv(?:ersion)?\.?\s*(\d+(?:\.\d+)*)\b`)
	isoDateRe    = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Parser extracts document descriptors from listing page markup.
//
// Parse is total: malformed fragments are skipped and unparsable input
// yields an empty list. It never returns an error.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts document descriptors from html, resolving relative links
// against baseURL. When two anchors normalize to the same URL, the later one
// in document order wins; result order follows first occurrence.
func (p *Parser) Parse(html string, baseURL string) []docwatch.DocumentDescriptor {
	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	// Track seen URLs with their index in the result slice so a later
	// duplicate overwrites in place without disturbing order.
	seen := make(map[string]int)
	var descriptors []docwatch.DocumentDescriptor

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}

		// Skip non-HTTP links (javascript:, mailto:, etc.)
		if isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}

		if !isDocumentLink(resolved, sel) {
			return
		}

		text := collapseWhitespace(sel.Text())
		context := text + " " + itemText(sel)
		heading := nearestHeading(sel)

		d := docwatch.DocumentDescriptor{
			ExternalID:   ExternalID(resolved),
			Title:        titleFor(text, resolved),
			Type:         classify(context, heading),
			ExternalURL:  resolved,
			VersionLabel: versionLabel(context),
			PublishedAt:  publicationDate(context),
		}

		if idx, ok := seen[resolved]; ok {
			// Later entries represent corrected listings; they win.
			descriptors[idx] = d
		} else {
			seen[resolved] = len(descriptors)
			descriptors = append(descriptors, d)
		}
	})

	return descriptors
}

// ExternalID derives a stable identifier from a normalized document URL.
// The same URL always yields the same ID.
func ExternalID(normalizedURL string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(normalizedURL))
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed, resolves to a
// non-HTTP(S) scheme, or is self-referential. Fragments are stripped for
// deduplication purposes.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// isDocumentLink reports whether an anchor looks like a document link:
// either its URL path has a document file extension, or it sits inside a
// container marked as a document/download listing.
func isDocumentLink(resolved string, sel *goquery.Selection) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	if documentExtensions[strings.ToLower(path.Ext(u.Path))] {
		return true
	}
	return sel.Closest(`[class*="document"], [class*="dokument"], [class*="download"], [id*="document"], [id*="dokument"]`).Length() > 0
}

// titleFor derives the descriptor title from the trimmed link text, falling
// back to the last URL path segment when the text is empty.
func titleFor(text, resolved string) string {
	if text != "" {
		return text
	}
	u, err := url.Parse(resolved)
	if err != nil {
		return resolved
	}
	segment := path.Base(u.Path)
	if segment == "." || segment == "/" {
		return resolved
	}
	return segment
}

// classify determines the document type from the link context and the
// nearest preceding heading. Link context takes precedence.
func classify(context, heading string) docwatch.DocumentType {
	for _, s := range []string{context, heading} {
		switch {
		case containsToken(s, statuteTokens):
			return docwatch.TypeStatute
		case containsToken(s, rulesTokens):
			return docwatch.TypeRules
		case containsToken(s, formTokens):
			return docwatch.TypeForm
		}
	}
	return docwatch.TypeOther
}

// nearestHeading walks up the anchor's ancestors looking for a preceding
// h1-h4 sibling, the way listing pages group documents under section
// headings.
func nearestHeading(sel *goquery.Selection) string {
	for p := sel.Parent(); p.Length() > 0; p = p.Parent() {
		if h := p.PrevAllFiltered("h1, h2, h3, h4").First(); h.Length() > 0 {
			return collapseWhitespace(h.Text())
		}
		if goquery.NodeName(p) == "body" || goquery.NodeName(p) == "html" {
			break
		}
	}
	return ""
}

// itemText returns the text of the anchor's enclosing list item or table
// row, where listings usually put version and date annotations.
func itemText(sel *goquery.Selection) string {
	item := sel.Closest("li, tr, p")
	if item.Length() == 0 {
		return ""
	}
	return collapseWhitespace(item.Text())
}

// versionLabel extracts a version token ("v1.2", "Version 3") if present.
func versionLabel(s string) string {
	m := versionRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

// publicationDate extracts an ISO date token if present and valid.
func publicationDate(s string) *time.Time {
	m := isoDateRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	t, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return nil
	}
	return &t
}

// tokenSet builds a lookup set of lowercase tokens.
func tokenSet(tokens ...string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[strings.ToLower(t)] = true
	}
	return set
}

// containsToken reports whether any word in s is in the token set.
// Tokenizing on non-letters keeps "form" from matching inside "information".
func containsToken(s string, set map[string]bool) bool {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, f := range fields {
		if set[f] {
			return true
		}
	}
	return false
}

// collapseWhitespace trims and collapses runs of whitespace to single spaces.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
