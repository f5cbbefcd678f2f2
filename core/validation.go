package core

// ValidationError reports a field-level constraint violation on a write path.
// It carries the field identifier and a human-readable message so callers can
// return it for display instead of dropping it.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
