// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server timing for the HTTP listener.
  - Inbound and outbound rate limits.
  - Session token and registry defaults.
  - Redis key prefixes for the upstream page cache.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "rickmorty-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for every non-streaming request.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// StreamHeartbeatInterval is how often an idle event stream sends a comment line.
	StreamHeartbeatInterval = 15 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Upstream

const (
	// DefaultUpstreamTimeout bounds a single call to the character API.
	DefaultUpstreamTimeout = 10 * time.Second

	// BackgroundLoadTimeout bounds the first-page load kicked off on session creation.
	BackgroundLoadTimeout = 30 * time.Second
)

// # Sessions

const (
	// SessionIssuer is the 'iss' claim of session tokens.
	SessionIssuer = "rickmorty.api"

	// SessionKeyInfo is the HKDF info string used to derive the token signing key.
	SessionKeyInfo = "rickmorty session token v1"

	// SessionSweepInterval is how often idle sessions are evicted.
	SessionSweepInterval = 1 * time.Minute

	// MaxFilterLength caps species and status filter values.
	MaxFilterLength = 64
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldError   = "error"
	FieldCode    = "code"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixCharacterPage = "characters:page:"
	RedisPrefixCharacter     = "characters:id:"
)
