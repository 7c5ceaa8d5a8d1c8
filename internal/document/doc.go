// File: internal/document/doc.go
// Brief: Mergeable configuration documents.

// Package document implements the progressive merge of partial configuration
// fragments into a single structured document. Scalars are overridden by the
// last fragment, sequences accumulate without duplicates, and mappings merge
// key by key.
package document
