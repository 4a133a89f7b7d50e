package contracts

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by an analysis run.
// ⭐ SSOT: boundaries (CLI, HTTP) decide presentation from these alone
var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrSchemaNotFound         = errors.New("object type schema not found")
	ErrObjectTypeNotFound     = errors.New("object type not found")
	ErrUpstream               = errors.New("upstream error")
	ErrNoApplicableProperties = errors.New("no applicable properties")
)

// InputError describes a user-supplied parameter that failed validation
type InputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// NotFoundError reports that the registry does not know an object type.
// Kind is ErrSchemaNotFound or ErrObjectTypeNotFound.
type NotFoundError struct {
	Kind         error
	ObjectTypeID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("object type %d: %v", e.ObjectTypeID, e.Kind)
}

func (e *NotFoundError) Unwrap() error { return e.Kind }

// UpstreamError is any other failed registry call. StatusCode is 0 when
// no response was received (transport failure or timeout).
type UpstreamError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// ErrorKind names the kind of err for display and API payloads
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "InvalidInput"
	case errors.Is(err, ErrSchemaNotFound):
		return "SchemaNotFound"
	case errors.Is(err, ErrObjectTypeNotFound):
		return "ObjectTypeNotFound"
	case errors.Is(err, ErrUpstream):
		return "UpstreamError"
	case errors.Is(err, ErrNoApplicableProperties):
		return "NoApplicableProperties"
	default:
		return "InternalError"
	}
}
