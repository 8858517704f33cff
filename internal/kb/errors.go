package kb

import (
	"errors"
	"fmt"
)

// The operation surface never panics and never leaks raw storage
// errors except through StoreError. Every other outcome carries a
// stable, caller-facing message naming the entity involved.

// NotFoundError is a first-class outcome, not an exceptional fault:
// get/update/delete on a missing id report it to the caller.
type NotFoundError struct {
	Kind Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found with id %q", e.Kind, e.ID)
}

// ProtectedError is returned when a delete targets the primary person
// or a protected project. The record is never touched.
type ProtectedError struct {
	Kind Kind
	Name string
}

func (e *ProtectedError) Error() string {
	return fmt.Sprintf("%s %q is protected and cannot be deleted", e.Kind, e.Name)
}

// DuplicateEntityError is the translation of a storage unique-constraint
// violation (name or slug already taken).
type DuplicateEntityError struct {
	Kind Kind
	Name string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("a %s named %q already exists (name and slug must be unique)", e.Kind, e.Name)
}

// InvalidInputError reports a request rejected before touching storage.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// InvalidNavigationError reports an unsupported (from, to) traversal pair.
type InvalidNavigationError struct {
	From Kind
	To   NavTarget
}

func (e *InvalidNavigationError) Error() string {
	return fmt.Sprintf("cannot navigate from %s to %s", e.From, e.To)
}

// ErrNoDefaultProject is returned by the quick-capture note shortcut
// when no project carries is_default_project.
var ErrNoDefaultProject = errors.New("no default project is configured")

// StoreError wraps an unexpected storage failure. It is the only
// outcome whose underlying technical message surfaces verbatim.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func notFound(kind Kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func invalidInput(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
