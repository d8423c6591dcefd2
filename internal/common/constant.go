package common

import "time"

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "session"

// DefaultSessionTTL is how long a freshly created session stays valid.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Version is reported by the health endpoint; overridden at link time.
var Version = "0.1.0"
