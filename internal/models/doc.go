// Package models defines the core domain models for Gatherly.
//
// # Document shapes
//
// Every model mirrors a JSON document in the path-keyed document store, so
// the struct tags (camelCase) are the storage schema:
//   - Event: metadata, settings, members, itinerary, meals, expenses
//   - Member: a participant of one event, with a role and permission set
//   - Expense: a shared cost with a payer and a split policy
//   - Meal: a planned meal in a day/slot grid
//   - Invitation: a pending/accepted/declined email invite to an event
//   - User: a registered account
//
// # Design principles
//
// 1. **Permissive decoding**: stored records are not schema-enforced, so
// legacy or partially written documents must decode without errors. Amount
// and SplitBetween carry custom JSON handling for this reason.
//
// 2. **Full-record replacement**: updates are read-merge-replace, never a
// partial patch, so every model round-trips all of its fields.
//
// 3. **Avoid circular references**: relationships use ID strings instead of
// pointers.
package models
