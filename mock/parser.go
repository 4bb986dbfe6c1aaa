package mock

import "github.com/fwojciec/docwatch"

var _ docwatch.Parser = (*Parser)(nil)

// Parser is a mock implementation of docwatch.Parser.
type Parser struct {
	ParseFn func(html string, baseURL string) []docwatch.DocumentDescriptor
}

func (p *Parser) Parse(html string, baseURL string) []docwatch.DocumentDescriptor {
	return p.ParseFn(html, baseURL)
}
