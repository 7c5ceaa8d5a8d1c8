// File: internal/features/doc.go
// Brief: Tool configuration features.

// Package features holds the per-tool configuration components of a project.
// Each feature computes built-in defaults from its constructor inputs, applies
// them to a fresh document, applies caller overrides on top and then publishes
// the merged result (and derived values such as its file name) to the features
// built after it.
package features
