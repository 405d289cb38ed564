package websocket

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	// EventCountdown carries the remaining session time. Pushed at least
	// once per minute while the session is valid.
	EventCountdown Event = "countdown"
	// EventLocked is terminal: the session expired or was revoked, and the
	// client must return to the access gate.
	EventLocked Event = "locked"
	EventError  Event = "error"
)

// CountdownResponse is pushed on every tick of a valid session.
type CountdownResponse struct {
	Event       Event `json:"event"`
	ExpiresAt   int64 `json:"expires_at"`   // epoch ms
	RemainingMS int64 `json:"remaining_ms"` // clamped at 0
}

// LockedResponse tells the client its session is over.
type LockedResponse struct {
	Event Event `json:"event"`
}

// ErrorResponse reports a stream-level failure.
type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
