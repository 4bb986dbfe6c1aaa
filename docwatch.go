// Package docwatch provides a watcher for document listings published on an
// external registry site. It periodically fetches listing pages, extracts
// document descriptors, fingerprints their metadata, and reconciles them
// against a locally tracked document registry.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, rod/).
package docwatch
