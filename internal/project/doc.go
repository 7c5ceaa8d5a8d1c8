// Package project assembles a TypeScript project from its options: it
// constructs the config features in a fixed order, wires them together,
// registers the built-in tasks and hands the rendered artifact set to a
// Writer.
package project
