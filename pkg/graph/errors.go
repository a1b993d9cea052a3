package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidKind is returned by [Graph.AddEdge] when the edge kind is not
	// one of pre, co, sug, excl.
	ErrInvalidKind = errors.New("invalid edge kind")
)

// UnknownProgrammeError reports a programme filter that matches nothing in
// the catalog. Filtering by a missing programme is an error, never an empty
// graph.
type UnknownProgrammeError struct {
	Programme string
}

func (e *UnknownProgrammeError) Error() string {
	return fmt.Sprintf("unknown programme %q", e.Programme)
}

// DuplicateModuleError reports two modules sharing a name where names must
// be unique. OtherProgramme is set only when global uniqueness is enforced
// and the clash crosses programmes.
type DuplicateModuleError struct {
	Module         string
	Programme      string
	OtherProgramme string
}

func (e *DuplicateModuleError) Error() string {
	if e.OtherProgramme != "" {
		return fmt.Sprintf("module %q declared in both programme %q and programme %q", e.Module, e.OtherProgramme, e.Programme)
	}
	return fmt.Sprintf("duplicate module %q in programme %q", e.Module, e.Programme)
}

// DanglingReferenceError reports a relation list entry that does not resolve
// to any module in the selected scope. Ambiguous is set when the bare name
// matches modules in more than one programme and none of them is in the
// referencing module's own programme.
type DanglingReferenceError struct {
	Module    string // ID of the referencing module
	Kind      Kind
	Target    string // the unresolved name as written
	Ambiguous bool
}

func (e *DanglingReferenceError) Error() string {
	if e.Ambiguous {
		return fmt.Sprintf("module %s: %s reference %q is ambiguous across programmes", e.Module, e.Kind, e.Target)
	}
	return fmt.Sprintf("module %s: %s reference %q does not match any module", e.Module, e.Kind, e.Target)
}

// CrossYearCorequisiteError reports a corequisite edge whose endpoints sit
// in different years. Corequisites are taken together and must share a year.
type CrossYearCorequisiteError struct {
	From     string // ID of the referenced module
	To       string // ID of the declaring module
	FromYear int
	ToYear   int
}

func (e *CrossYearCorequisiteError) Error() string {
	return fmt.Sprintf("corequisite %s (year %d) and %s (year %d) are not in the same year",
		e.From, e.FromYear+1, e.To, e.ToYear+1)
}

// CycleError reports a cycle in the required-before-or-with relation
// (prerequisites and corequisites). Modules holds one witness cycle in
// traversal order; the first and last entries are the same module.
type CycleError struct {
	Modules []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("requirement cycle: %s", strings.Join(e.Modules, " -> "))
}
