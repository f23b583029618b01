// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

/*
Package constants provides centralized, immutable values for the gateway.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Upstream Timing: Deadlines and throughput limits for catalog API calls.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: Session cookie configuration and Redis key taxonomy.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "litbooks-gateway"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Upstream Timing

const (
	// UpstreamRequestTimeout bounds a single catalog API round trip.
	UpstreamRequestTimeout = 15 * time.Second

	// UpstreamRateLimitRPS caps outbound calls so a burst of gateway traffic
	// cannot saturate the catalog service.
	UpstreamRateLimitRPS = 50.0

	// UpstreamRateLimitBurst is the token bucket size for outbound calls.
	UpstreamRateLimitBurst = 100
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

// # Sessions

const (
	// SessionCookieName is the name of the cookie holding the opaque session id.
	// It is the server-side analogue of the SPA's fixed local-storage key.
	SessionCookieName = "litbooks_session"

	// SessionCookiePath scopes the session cookie to the whole gateway.
	SessionCookiePath = "/"

	// DefaultSessionTTL caps session lifetime when the upstream bearer token
	// carries no usable expiry claim.
	DefaultSessionTTL = 24 * time.Hour
)

// # Validation Limits

const (
	// MaxFullNameLen bounds the display name on registration.
	MaxFullNameLen = 100

	// MaxTitleLen bounds book titles and author names.
	MaxTitleLen = 200

	// MaxDescriptionLen bounds the free-text book description.
	MaxDescriptionLen = 2000

	// MaxTagsPerBook bounds how many tags a single book may carry.
	MaxTagsPerBook = 20

	// MaxTagLen bounds a single tag name.
	MaxTagLen = 50
)

// # Guard Redirect Targets

// The gateway fronts the Litbooks single-page app. Guard redirects point at
// the app's routes, mirroring the router behavior the views rely on.
const (
	// GuardLoginPath is where unauthenticated navigations are sent.
	GuardLoginPath = "/login"

	// GuardListingPath is where authenticated users hitting guest-only routes
	// and non-admins hitting the management view are sent.
	GuardListingPath = "/books"
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
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession = "session:"
)
