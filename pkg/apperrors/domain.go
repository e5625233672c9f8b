package apperrors

import (
	"net/http"
)

// Predeclared business errors. Services return these (optionally via
// WithDetails/WithError copies); handlers never inspect message text.

// --- quota / subscriptions ---

// ErrFreeQuotaExhausted - professional used all free proposals and holds no
// active subscription.
var ErrFreeQuotaExhausted = New(
	CodeLimitExceeded,
	"quota",
	"Free proposal limit reached, a subscription is required to continue",
	http.StatusBadRequest,
)

// ErrPlanQuotaExhausted - the subscription's monthly proposal limit is spent.
var ErrPlanQuotaExhausted = New(
	CodeLimitExceeded,
	"quota",
	"Monthly proposal limit for the current plan reached",
	http.StatusBadRequest,
)

// ErrQuotaConflict - the counter changed between read and conditional write.
// The caller may retry the whole read-then-consume sequence.
var ErrQuotaConflict = New(
	CodeConflict,
	"quota",
	"Quota counter was updated concurrently, retry the operation",
	http.StatusConflict,
)

// ErrSubscriptionNotActive - operation requires an active or trialing subscription.
var ErrSubscriptionNotActive = New(
	CodeInvalidStatus,
	"subscription",
	"Subscription is not active",
	http.StatusBadRequest,
)

var ErrPlanNotFound = New(
	CodeNotFound,
	"subscription",
	"Subscription plan not found",
	http.StatusNotFound,
)

// --- proposals ---

var ErrDuplicateProposal = New(
	CodeAlreadyExists,
	"proposal",
	"A proposal for this service request already exists",
	http.StatusBadRequest,
)

var ErrRequestNotOpen = New(
	CodeInvalidStatus,
	"proposal",
	"Service request is not open",
	http.StatusBadRequest,
)

var ErrInvalidProposalState = New(
	CodeInvalidStatus,
	"proposal",
	"Operation not allowed for the current proposal status",
	http.StatusBadRequest,
)

// --- contact access ---

var ErrContactForbidden = New(
	CodeForbidden,
	"contact",
	"Contact details are only available after an accepted proposal or with an active subscription",
	http.StatusForbidden,
)

var ErrContactRoleNotAllowed = New(
	CodeForbidden,
	"contact",
	"Operation not allowed for this role",
	http.StatusForbidden,
)

var ErrAlreadyUnlocked = New(
	CodeAlreadyExists,
	"contact",
	"Contact for this professional is already unlocked",
	http.StatusConflict,
)

// --- ownership / roles ---

var ErrNotRequestOwner = New(
	CodeForbidden,
	"service_request",
	"Only the owner of the service request may perform this operation",
	http.StatusForbidden,
)

var ErrNotProposalOwner = New(
	CodeForbidden,
	"proposal",
	"Only the owner of the proposal may perform this operation",
	http.StatusForbidden,
)

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- ratings ---

var ErrRequestNotMatched = New(
	CodeInvalidStatus,
	"rating",
	"Service request has no accepted proposal to rate",
	http.StatusBadRequest,
)

var ErrAlreadyRated = New(
	CodeAlreadyExists,
	"rating",
	"This service request was already rated",
	http.StatusConflict,
)

// --- auth ---

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// --- billing ---

var ErrWebhookSignature = New(
	CodeUnauthorized,
	"billing",
	"Webhook signature verification failed",
	http.StatusBadRequest,
)

var ErrBillingProvider = New(
	CodeExternalServiceError,
	"billing",
	"Billing provider error",
	http.StatusServiceUnavailable,
)

// --- factories ---

func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}
