// Package course models the input catalog: programmes made of ordered
// years, each year a list of modules with optional prerequisite (pre),
// corequisite (co), suggested (sug), and mutual-exclusion (excl) relation
// lists.
//
// The catalog is loaded wholesale from a single JSON file and is immutable
// after load. Validation of the relations themselves (dangling references,
// cycles, cross-year corequisites) happens in pkg/graph; this package only
// enforces that the file is well-formed and resolves programme includes.
package course
