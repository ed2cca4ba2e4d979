// Package services provides domain services that orchestrate business
// operations across multiple domain entities. It implements workflows that
// don't naturally belong to a single aggregate root.
//
// The package includes:
//   - DraftBuilder: assembles a Draft order from office input, hoisting
//     inline transit item declarations and resolving delivery references
//   - ProofEvaluator: checks supplied proofs against an action's
//     confirmation rules before the action completes
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design
// principles.
package services
