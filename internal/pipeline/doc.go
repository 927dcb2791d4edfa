// Package pipeline runs independent tool invocations on a bounded pool of
// workers and collects their completions.
//
// The pool never changes process-global state; each job carries its own
// working directory, so any number of jobs may be in flight at once.
package pipeline
