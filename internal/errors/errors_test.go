package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/mcp-oauth-broker/internal/errors"
)

func TestOAuthError_Error(t *testing.T) {
	require.Equal(t, "unsupported_grant_type", errors.UnsupportedGrantType().Error())
	require.Equal(t, "invalid_grant: Code not found or expired", errors.InvalidGrant("Code not found or expired").Error())
}

func TestOAuthError_Status(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, errors.InvalidRequest("x").Status)
	require.Equal(t, http.StatusBadRequest, errors.Upstream("bad_verification_code", "").Status)
	require.Equal(t, http.StatusInternalServerError, errors.ServerError("").Status)
	require.Equal(t, http.StatusUnauthorized, errors.Unauthorized().Status)
}

func TestAsOAuthError(t *testing.T) {
	t.Run("wrapped oauth error", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", errors.InvalidGrant("Invalid code_verifier"))
		oauthErr := errors.AsOAuthError(err)
		require.Equal(t, errors.CodeInvalidGrant, oauthErr.Code)
		require.Equal(t, "Invalid code_verifier", oauthErr.Description)
	})

	t.Run("wrapped with pkg/errors", func(t *testing.T) {
		err := pkgerrors.Wrap(errors.InvalidRequest("Missing code or state"), "[Callback]")
		require.Equal(t, errors.CodeInvalidRequest, errors.AsOAuthError(err).Code)
	})

	t.Run("plain error becomes server_error", func(t *testing.T) {
		oauthErr := errors.AsOAuthError(fmt.Errorf("boom"))
		require.Equal(t, errors.CodeServerError, oauthErr.Code)
		require.Equal(t, http.StatusInternalServerError, oauthErr.Status)
	})
}

func TestWrapf(t *testing.T) {
	require.Nil(t, errors.Wrapf(nil, "context"))
	err := errors.Wrapf(errors.ErrNotFound, "get %s", "session:1")
	require.True(t, errors.Is(err, errors.ErrNotFound))
	require.Equal(t, "get session:1: not found", err.Error())
}
