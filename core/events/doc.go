// Package events defines the scheduling related events emitted on the event
// bus.
//
// Available event types:
//   - SessionEvent: a session was created, rescheduled, cancelled or deleted
//   - RequirementStatusEvent: a requirement's compliance status changed
//   - BatchEvent: a batch auto-schedule run completed
package events
