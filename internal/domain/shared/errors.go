package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound             = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists        = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput         = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict  = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState         = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrIllegalTransition    = NewDomainError("ILLEGAL_TRANSITION", "Transition not allowed from the current payment status")
	ErrDeletionNotAllowed   = NewDomainError("DELETION_NOT_ALLOWED", "Financial records cannot be deleted")
	ErrInvalidConfiguration = NewDomainError("INVALID_CONFIGURATION", "Configuration value is invalid")
	ErrSequenceConflict     = NewDomainError("SEQUENCE_CONFLICT", "Generated document number collided with a concurrent writer")
)

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code string) bool {
	domainErr, ok := err.(*DomainError)
	return ok && domainErr.Code == code
}
