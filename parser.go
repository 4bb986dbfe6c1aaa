package docwatch

// Parser extracts document descriptors from listing page markup.
//
// Parse is a total function: malformed fragments are skipped, unparsable or
// empty input yields an empty list, and it never returns an error. Partial
// extraction is always preferable to aborting a run over one bad fragment.
// When two links normalize to the same external URL, the later one in
// document order wins.
type Parser interface {
	Parse(html string, baseURL string) []DocumentDescriptor
}
