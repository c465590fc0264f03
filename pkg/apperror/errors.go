package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
// Retryable tells the caller whether the same operation may succeed if
// repeated (network-class failures) or is terminal for this input.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Retryable  bool   `json:"retryable"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Split Computation (SPLIT) ----

func ErrInvalidSplitConfig(reason string) *AppError {
	return New("SPLIT_001", fmt.Sprintf("Invalid split configuration: %s", reason), http.StatusBadRequest)
}

// ---- Invoice Registry (REG) ----

func ErrInvalidTransition(from, to string) *AppError {
	return New("REG_001", fmt.Sprintf("Invalid status transition: %s -> %s", from, to), http.StatusConflict)
}

func ErrDuplicateInvoiceSet() *AppError {
	return New("REG_002", "Invoice set already exists for this order with different contents", http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("REG_003", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Ecash Ledger (TOKEN / MINT) ----

func ErrInvalidTokenFormat(err error) *AppError {
	return Wrap("TOKEN_001", "Malformed ecash token", http.StatusBadRequest, err)
}

// ErrMintUnreachable is retryable: the token is not consumed until the
// ledger operation fully succeeds, so the caller may submit it again.
func ErrMintUnreachable(err error) *AppError {
	e := Wrap("MINT_001", "Mint unreachable, retry with the same token", http.StatusServiceUnavailable, err)
	e.Retryable = true
	return e
}

func ErrAlreadySpent() *AppError {
	return New("MINT_002", "Ecash proofs already spent, this token cannot be redeemed", http.StatusConflict)
}

func ErrInsufficientProofs() *AppError {
	return New("MINT_003", "Held proofs insufficient for requested amount", http.StatusPaymentRequired)
}

// ---- Proof Reconciliation (PROOF) ----

func ErrProofRequired() *AppError {
	return New("PROOF_002", "A payment proof is only accepted when marking an invoice paid", http.StatusBadRequest)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_002", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a generic request validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
