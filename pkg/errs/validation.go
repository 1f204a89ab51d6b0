package errs

// ValidationError aggregates one or more field-level validation failures
// under a single BadRequest-kind error.
type ValidationError struct {
	Message string
	Fields  map[string]string // nil for non-field errors
}

func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}

// Error returns the reason for the validation error.
func (v ValidationError) Error() string {
	return v.Message
}

// AddFieldError appends a field failure to err, turning it into (or
// extending) a ValidationError. err may be nil, in which case a fresh
// ValidationError is started.
func AddFieldError(err error, field string, message string) error {
	validationError, ok := err.(ValidationError)
	if !ok {
		msg := "validation failed"
		if err != nil {
			msg = err.Error()
		}
		validationError = ValidationError{
			Message: msg,
			Fields:  make(map[string]string),
		}
	}

	if validationError.Fields == nil {
		validationError.Fields = make(map[string]string)
	}

	validationError.Fields[field] = message
	return validationError
}
