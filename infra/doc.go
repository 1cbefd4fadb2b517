// Package infra contains technical adapters such as metrics exporters,
// the run log and the zerolog logger. These packages should depend only
// on the interfaces defined in the core packages.
package infra
