// Package slot enumerates candidate weekly placements for a service
// requirement on a fixed weekday grid, filters out candidates that would
// collide with blocking events or existing sessions, and scores the
// survivors. The search is deterministic: identical inputs always yield the
// same best candidate, with ties resolved to the earliest day then the
// earliest start time.
package slot
