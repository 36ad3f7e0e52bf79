// Package infra contains technical adapters such as persistence
// backends and logging. These packages should depend only on the
// interfaces defined in the core packages.
package infra
