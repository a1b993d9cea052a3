// Package transform provides optional, render-side cleanups for validated
// module graphs: transitive reduction of prerequisites, deduplication of
// mutual exclusions, whitelist restriction, and hiding of required or
// orphaned modules.
//
// Transforms mutate the graph in place and are meant to run on a copy of
// the validated build output; they never change what the validator accepts.
package transform
