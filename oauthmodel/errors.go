package oauthmodel

import "errors"

// Validation errors. Their text is returned to the client as error_description.
var (
	ErrMissingClientID            = errors.New("missing client_id")
	ErrMissingRedirectURI         = errors.New("missing redirect_uri")
	ErrMissingState               = errors.New("missing state")
	ErrMissingCodeChallenge       = errors.New("missing code_challenge")
	ErrInvalidCodeChallengeMethod = errors.New("only S256 code_challenge_method is supported")
	ErrInvalidRedirectURI         = errors.New("redirect_uri must be an absolute URL")
	ErrMissingCallbackParameters  = errors.New("missing code or state")
	ErrMissingTokenParameters     = errors.New("missing code or code_verifier")
)
