// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/rickmorty/internal/platform/apperr"
	"github.com/taibuivan/rickmorty/internal/platform/constants"
	"github.com/taibuivan/rickmorty/internal/platform/ctxutil"
	"github.com/taibuivan/rickmorty/internal/platform/respond"
)

// SessionVerifier checks a session token and returns the session ID it carries.
type SessionVerifier interface {
	VerifySession(token string) (string, error)
}

// tokenQueryParam is accepted for clients that cannot set headers, such as
// a browser EventSource.
const tokenQueryParam = "token"

// RequireSession verifies the session token and injects the session ID.
//
// # Flow
//  1. Read 'Authorization: Bearer <token>', falling back to the ?token= query parameter.
//  2. Verify the token via [SessionVerifier].
//  3. Store the session ID with [ctxutil.WithSessionID].
//
// Requests without a valid token are rejected with HTTP 401.
func RequireSession(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token, ok := bearerToken(request)
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized("Session token required"))
				return
			}

			sessionID, err := verifier.VerifySession(token)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired session token"))
				return
			}

			if recorder, ok := writer.(*statusRecorder); ok {
				recorder.sessionID = sessionID
			}

			ctx := ctxutil.WithSessionID(request.Context(), sessionID)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func bearerToken(request *http.Request) (string, bool) {
	authHeader := request.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		token := request.URL.Query().Get(tokenQueryParam)
		return token, token != ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
