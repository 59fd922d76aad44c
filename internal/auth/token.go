// Package auth decodes the bearer token issued by the user service.
//
// The token is a JWT whose subject id and display name live under
// XML-SOAP-style claim URIs. The client only reads it for session state;
// signature verification is the issuing service's responsibility and every
// authenticated call carries the raw token back to the services untouched.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	claimNameIdentifier = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
	claimName           = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"
)

var (
	ErrMalformedToken = errors.New("malformed bearer token")
	ErrMissingClaims  = errors.New("token missing identity claims")
)

// Claims is the identity the client caches for the session.
type Claims struct {
	UserID string
	Name   string
	// ExpiresAt is zero when the token carries no exp claim.
	ExpiresAt time.Time
}

// Decode parses the token without verifying its signature and extracts the
// identity claims.
func Decode(token string) (Claims, error) {
	parser := jwt.NewParser()
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrMalformedToken
	}

	userID, _ := mapClaims[claimNameIdentifier].(string)
	name, _ := mapClaims[claimName].(string)
	if userID == "" {
		return Claims{}, ErrMissingClaims
	}

	c := Claims{UserID: userID, Name: name}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
