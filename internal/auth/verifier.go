// Package auth provides bearer-token identity verification.
//
// Cryptographic validation is delegated to the identity provider; this
// package only consumes "verify token, get principal or reject".
package auth

import (
	"context"
	"errors"

	"github.com/echoserve/echoserve/internal/model"
)

// ErrUnauthorized is returned for any token the provider rejects:
// expired, malformed, wrong signature or revoked. Callers do not get to
// distinguish these cases.
var ErrUnauthorized = errors.New("unauthorized access")

// Verifier validates a bearer token and yields the verified principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (*model.Principal, error)
}
