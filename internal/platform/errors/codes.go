// Package errors provides structured error handling with i18n support.
package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Access gate errors
	CodeNotOperational Code = "NOT_OPERATIONAL"
	CodeUnauthorized   Code = "UNAUTHORIZED"

	// Airline registry and funding errors
	CodeUnknownAirline Code = "UNKNOWN_AIRLINE"
	CodeNotActivated   Code = "NOT_ACTIVATED"
	CodeDuplicateVote  Code = "DUPLICATE_VOTE"
	CodeInvalidVoter   Code = "INVALID_VOTER"
	CodeNotNominated   Code = "NOT_NOMINATED"

	// Insurance pool errors
	CodeDuplicateFlight     Code = "DUPLICATE_FLIGHT"
	CodeUnknownFlight       Code = "UNKNOWN_FLIGHT"
	CodeFlightFinalized     Code = "FLIGHT_FINALIZED"
	CodePremiumExceedsLimit Code = "PREMIUM_EXCEEDS_LIMIT"
	CodeDuplicatePolicy     Code = "DUPLICATE_POLICY"

	// Oracle errors
	CodeInsufficientFee Code = "INSUFFICIENT_FEE"
	CodeAlreadyResolved Code = "ALREADY_RESOLVED"

	// Payout errors
	CodeNothingToWithdraw Code = "NOTHING_TO_WITHDRAW"

	// Request shape errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeInvalidArgument,
		CodePremiumExceedsLimit,
		CodeInsufficientFee,
		CodeInvalidVoter:
		return codes.InvalidArgument

	case CodeNotOperational:
		return codes.Unavailable

	case CodeUnauthorized,
		CodeNotActivated:
		return codes.PermissionDenied

	case CodeNotNominated,
		CodeFlightFinalized,
		CodeAlreadyResolved,
		CodeNothingToWithdraw:
		return codes.FailedPrecondition

	case CodeDuplicateVote,
		CodeDuplicateFlight,
		CodeDuplicatePolicy:
		return codes.AlreadyExists

	case CodeUnknownAirline,
		CodeUnknownFlight,
		CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}

// HTTPStatus maps domain codes to HTTP status codes for the query API.
func (c Code) HTTPStatus() int {
	switch c.GRPCCode() {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.FailedPrecondition, codes.AlreadyExists:
		return http.StatusConflict
	case codes.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
