// Package scrape provides watcher run orchestration: metadata
// fingerprinting, descriptor reconciliation against the tracked document
// set, and the scheduler/circuit state machine.
package scrape

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docwatch"
)

// Fingerprint computes a deterministic hash over a descriptor's listed
// metadata. The serialization uses a fixed field order so equal descriptors
// always produce equal fingerprints, and any change in listed metadata
// (title, type, URL, version, publication date) changes the hash.
//
// The hash covers listing metadata only: the watcher never downloads
// document bodies, so content bytes are not available to fingerprint.
func Fingerprint(d docwatch.DocumentDescriptor) string {
	published := ""
	if d.PublishedAt != nil {
		published = d.PublishedAt.UTC().Format("2006-01-02")
	}

	var b strings.Builder
	b.WriteString("published=" + published + "\n")
	b.WriteString("title=" + d.Title + "\n")
	b.WriteString("type=" + string(d.Type) + "\n")
	b.WriteString("url=" + d.ExternalURL + "\n")
	b.WriteString("version=" + d.VersionLabel + "\n")

	return fmt.Sprintf("%016x", xxhash.Sum64String(b.String()))
}
