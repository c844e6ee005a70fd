// Package pipeline orchestrates the two batch workflows: updating the
// catalog homepage from the superdataset's self-describing tabby sheets, and
// ingesting a new dataset directory as a linked subdataset.
//
// Both workflows run load -> map -> (register) synchronously to completion.
// There is no partial-success or rollback model: a failure midway is
// surfaced to the operator and any already-performed catalog operations stay
// in place, recorded in the journal for manual reconciliation. A file lock
// makes accidental concurrent invocations fail fast.
package pipeline
