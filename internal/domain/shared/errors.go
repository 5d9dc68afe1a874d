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

// IsTransient reports whether the error is retryable (store-level conflict
// or sequence contention) as opposed to a business-rule rejection.
func (e *DomainError) IsTransient() bool {
	switch e.Code {
	case CodeConcurrencyConflict, CodeSequenceUpdateFailed:
		return true
	}
	return false
}

// Error codes shared across the ledger and transfer contexts
const (
	CodeNotFound             = "NOT_FOUND"
	CodeAlreadyExists        = "ALREADY_EXISTS"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeInvalidState         = "INVALID_STATE"
	CodeInsufficientBalance  = "INSUFFICIENT_BALANCE"
	CodeConcurrencyConflict  = "CONCURRENCY_CONFLICT"
	CodeSequenceUpdateFailed = "SEQUENCE_UPDATE_FAILED"
	CodeAccountInactive      = "ACCOUNT_INACTIVE"
)

// Common domain errors
var (
	ErrNotFound             = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists        = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput         = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConcurrencyConflict  = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrInvalidState         = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrInsufficientBalance  = NewDomainError(CodeInsufficientBalance, "Insufficient balance available")
	ErrSequenceUpdateFailed = NewDomainError(CodeSequenceUpdateFailed, "Reference sequence update did not apply")
	ErrAccountInactive      = NewDomainError(CodeAccountInactive, "Account is deactivated")
)
