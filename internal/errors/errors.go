package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error types for the broker
var (
	// Store errors
	ErrNotFound = errors.New("not found")

	// Token errors
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrInvalidIssuer = errors.New("invalid issuer")

	// Upstream errors
	ErrUpstreamExchange = errors.New("upstream exchange failed")

	// Configuration errors
	ErrMissingConfig = errors.New("missing configuration")
)

// RFC 6749 error codes
const (
	CodeInvalidRequest       = "invalid_request"
	CodeInvalidGrant         = "invalid_grant"
	CodeUnsupportedGrantType = "unsupported_grant_type"
	CodeServerError          = "server_error"
	CodeUpstreamTokenError   = "token_error"
	CodeUnauthorized         = "unauthorized"
)

// OAuthError is an error that is rendered to the client as {error, error_description}.
type OAuthError struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
	Status      int    `json:"-"`
}

func (e *OAuthError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return e.Code + ": " + e.Description
}

func newOAuthError(code, description string, status int) *OAuthError {
	return &OAuthError{Code: code, Description: description, Status: status}
}

func InvalidRequest(description string) *OAuthError {
	return newOAuthError(CodeInvalidRequest, description, http.StatusBadRequest)
}

func InvalidGrant(description string) *OAuthError {
	return newOAuthError(CodeInvalidGrant, description, http.StatusBadRequest)
}

func UnsupportedGrantType() *OAuthError {
	return newOAuthError(CodeUnsupportedGrantType, "", http.StatusBadRequest)
}

func ServerError(description string) *OAuthError {
	return newOAuthError(CodeServerError, description, http.StatusInternalServerError)
}

// Upstream passes an error reported by the upstream provider through unchanged.
func Upstream(code, description string) *OAuthError {
	return newOAuthError(code, description, http.StatusBadRequest)
}

func Unauthorized() *OAuthError {
	return newOAuthError(CodeUnauthorized, "", http.StatusUnauthorized)
}

// AsOAuthError returns the OAuthError in err's chain, or a server_error if there is none.
func AsOAuthError(err error) *OAuthError {
	var oauthErr *OAuthError
	if errors.As(err, &oauthErr) {
		return oauthErr
	}
	return ServerError("")
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New returns an error with the given text
func New(text string) error {
	return errors.New(text)
}
