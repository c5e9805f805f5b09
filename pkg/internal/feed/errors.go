package feed

import (
	"errors"
	"fmt"
)

// Kind classifies every failure a store operation can surface. Collaborator
// errors never escape unwrapped; each is converted at the operation boundary
// and local state is left untouched.
type Kind int

const (
	// KindAuthRequired is returned when a mutating operation is attempted
	// without a session.
	KindAuthRequired Kind = iota
	// KindValidation is rejected before any collaborator call is issued.
	KindValidation
	// KindFetch wraps a failed read from the persistence collaborator.
	KindFetch
	// KindMutation wraps a failed like/comment write or delete.
	KindMutation
	// KindUpload wraps a non-recoverable object storage failure.
	KindUpload
	// KindPersistence wraps a failed post or profile write.
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindAuthRequired:
		return "auth_required"
	case KindValidation:
		return "validation"
	case KindFetch:
		return "fetch"
	case KindMutation:
		return "mutation"
	case KindUpload:
		return "upload"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func validationError(op, msg string) *Error {
	return &Error{Kind: KindValidation, Op: op, Err: errors.New(msg)}
}

// KindOf reports the classification of an error produced by the store, or
// false when the error did not originate here.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// unauthorized marks object storage failures that degrade the save instead
// of aborting it. The storage collaborator opts in by implementing it.
type unauthorized interface {
	Unauthorized() bool
}

func isUnauthorized(err error) bool {
	var ua unauthorized
	return errors.As(err, &ua) && ua.Unauthorized()
}
