// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec issues and verifies the signed handles that identify list sessions.
//
// A session handle is an HS256 JWT whose signing key is derived from
// SESSION_SECRET with HKDF-SHA256, so the raw secret never signs anything.
package sec

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

// signingKeySize is the HS256 key length in bytes.
const signingKeySize = 32

// ErrMissingSessionID is returned for a well-signed token without a sid claim.
var ErrMissingSessionID = errors.New("sec: token carries no session id")

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	jwt.RegisteredClaims

	// SessionID is abbreviated to keep the token short.
	SessionID string `json:"sid"`
}

// SessionTokens signs and verifies session tokens.
type SessionTokens struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

/*
NewSessionTokens derives the signing key and builds a [SessionTokens].

Parameters:
  - secret: SESSION_SECRET
  - info: HKDF context string; changing it invalidates every issued token
  - issuer: 'iss' claim
  - ttl: Token lifetime

Returns:
  - *SessionTokens
  - error: When key derivation fails
*/
func NewSessionTokens(secret, info, issuer string, ttl time.Duration) (*SessionTokens, error) {
	key := make([]byte, signingKeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("sec: derive session key: %w", err)
	}

	return &SessionTokens{key: key, issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for sessionID.
func (tokens *SessionTokens) Issue(sessionID string) (string, error) {
	currentTime := tokens.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			Issuer:    tokens.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(tokens.ttl)),
		},
		SessionID: sessionID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tokens.key)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign session token: %w", err)
	}
	return signed, nil
}

// VerifySession checks signature, issuer and expiry and returns the session ID.
func (tokens *SessionTokens) VerifySession(tokenString string) (string, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return tokens.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokens.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tokens.now),
	)
	if err != nil {
		return "", fmt.Errorf("sec: invalid session token: %w", err)
	}

	if claims.SessionID == "" {
		return "", ErrMissingSessionID
	}
	return claims.SessionID, nil
}
