package core

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// KindError classifies an underlying cause with a well-known sentinel so
// callers can branch on the failure kind with errors.Is while the cause
// stays available for logging.
type KindError struct {
	Kind error
	Err  error
}

// NewKindError tags err with kind. A nil err returns the bare kind.
func NewKindError(kind, err error) error {
	if err == nil {
		return kind
	}
	return &KindError{Kind: kind, Err: err}
}

func (e *KindError) Error() string {
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *KindError) Is(target error) bool { return target == e.Kind }

func (e *KindError) Unwrap() error { return e.Err }
