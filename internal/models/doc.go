// Package models defines the core domain models for onbeventi.
//
// # Models
//
//   - Event: an occasion with a ticket price, an optional capacity, and the
//     attendees and expenses that belong to it
//   - Attendee: a registered participant with a payment status
//   - Expense: an operational cost recorded against an event
//
// # Design Principles
//
//  1. **Embedded ownership**: attendees and expenses live inside their event and
//     are never shared across events; deleting an event removes them.
//  2. **Wire-compatible JSON**: field names match the browser storage schema of
//     the first version of the app, so old exports load unchanged.
//  3. **Optimistic revisions**: every persisted change bumps Event.Revision;
//     writers holding an older copy are rejected instead of silently winning.
//  4. **Value semantics**: models are copied with Clone before being handed out
//     so callers never alias repository state.
package models
