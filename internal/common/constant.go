package common

import "time"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "auth-token"

// SessionValidity is the lifetime of a session cookie and of its token.
const SessionValidity = 7 * 24 * time.Hour

// AllowedEmailDomain is the only email suffix accepted at registration.
const AllowedEmailDomain = "@police.belgium.eu"
