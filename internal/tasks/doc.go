// File: internal/tasks/doc.go
// Brief: Task graph model and manifest serialization.

// Package tasks models the automation surface of a project: named tasks made of
// ordered steps, where a step either executes a command line or spawns another
// task by name. A Registry collects tasks contributed by every feature and
// validates the spawn graph when it is serialized into a manifest.
package tasks
