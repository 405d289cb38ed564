package model

// AuthStatusGranted is the only status ever written to an authorization
// record. A record with any other status is treated as absent and purged.
const AuthStatusGranted = "granted"

// AuthorizationRecord is the JSON document persisted in the key-value store
// after a successful unlock. Timestamp is epoch milliseconds of the unlock;
// expiry is derived from it at read time, never stored.
type AuthorizationRecord struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// Session describes the outcome of a session check.
// ExpiresAt is epoch milliseconds, set only when Authorized is true.
type Session struct {
	Authorized bool  `json:"authorized"`
	ExpiresAt  int64 `json:"expires_at,omitempty"`
}

// UnlockRequest is the payload for the unlock endpoint.
type UnlockRequest struct {
	Code string `json:"code" binding:"required,max=128"`
}

// ThemeRequest is the payload for saving a theme preference.
// The value is opaque to the backend.
type ThemeRequest struct {
	Theme string `json:"theme" binding:"required,max=64"`
}
