package graph

import "fmt"

// MissingTaskError is returned when an operation references a task name
// that is not present in the graph.
type MissingTaskError struct {
	Name any
}

func (e *MissingTaskError) Error() string {
	return fmt.Sprintf("graph: task %v not found", e.Name)
}

// DuplicateTaskError is returned when AddTask or RenameTask targets a
// name that is already present.
type DuplicateTaskError struct {
	Name any
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf("graph: task %v already exists", e.Name)
}

// MissingInputError is returned by NamedInputs.Getone when a label has
// zero matching links.
type MissingInputError struct {
	Label any
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("graph: no input for label %v", e.Label)
}

// AmbiguousInputError is returned by NamedInputs.Get/Getone when a
// label matches more than one link.
type AmbiguousInputError struct {
	Label any
	Count int
}

func (e *AmbiguousInputError) Error() string {
	return fmt.Sprintf("graph: label %v is ambiguous (%d links)", e.Label, e.Count)
}

// TaskFailure wraps the error a task function raised during update, so
// callers can recover the original error with errors.As/errors.Unwrap
// while Update/Output itself returns a single typed error. Task names
// are held as `any` here (rather than the graph's generic name type)
// because a Go error value cannot itself carry a type parameter.
type TaskFailure struct {
	Name any
	Err  error
}

func newTaskFailure(name any, err error) *TaskFailure {
	return &TaskFailure{Name: name, Err: err}
}

func (e *TaskFailure) Error() string {
	return fmt.Sprintf("graph: task %v failed: %v", e.Name, e.Err)
}

func (e *TaskFailure) Unwrap() error {
	return e.Err
}

// CycleDetectedError is never raised by Update itself: a detected
// cycle only fires the on_cycle signal and execution continues
// informationally. It exists so a caller-written recursion guard has a
// concrete type to raise.
type CycleDetectedError struct {
	Name any
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("graph: cycle detected at %v", e.Name)
}
