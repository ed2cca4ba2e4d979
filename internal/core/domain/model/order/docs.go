// Package order provides domain entities and business logic for multi-stop
// delivery orders. It implements the Order aggregate root with the full
// Step -> Stop -> Action hierarchy, transit items, and lifecycle management.
//
// The package includes:
//   - Order: the aggregate root that owns the hierarchy, the pending-change
//     overlay, and the push protocol for applying staged office edits
//   - Step, Stop, Action: the execution hierarchy, each level with its own
//     invariants; stops and actions carry state machines of their own
//   - TransitItem: goods moved between stops, referenced by pickup and
//     delivery actions
//   - ConfirmationRule: proof requirements evaluated before an action
//     completes
//
// Key business rules:
//   - Every delivery action's transit item must be created by a pickup action
//     in the same order
//   - Stops of a linked step execute contiguously and in sequence
//   - After an order leaves Draft, office edits are staged in the overlay and
//     become real only when pushed; pushes are atomic per batch, idempotent by
//     key, and drop edits whose targets turned terminal on the field side
//   - An order finishes Delivered when at least one action completed, Failed
//     otherwise, and only once every action is terminal
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
