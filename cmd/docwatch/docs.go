package main

import (
	"fmt"

	"github.com/fwojciec/docwatch"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	var filter docwatch.TrackedDocumentFilter
	if c.Type != "" {
		t := docwatch.DocumentType(c.Type)
		filter.Type = &t
	}
	if c.Status != "" {
		s := docwatch.DocumentStatus(c.Status)
		filter.Status = &s
	}

	docs, err := deps.TrackedDocuments.FindTrackedDocuments(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docwatch.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "No tracked documents")
		return nil
	}

	for _, doc := range docs {
		fmt.Fprintf(deps.Stdout, "%s  [%s/%s]  %s\n", doc.ExternalID, doc.Type, doc.Status, doc.Title)
		fmt.Fprintf(deps.Stdout, "    %s\n", doc.ExternalURL)
		if doc.Status == docwatch.StatusError && doc.ErrorMessage != "" {
			fmt.Fprintf(deps.Stdout, "    error: %s\n", doc.ErrorMessage)
		}
	}
	fmt.Fprintf(deps.Stdout, "%d documents\n", len(docs))

	return nil
}
