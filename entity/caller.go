package entity

// Caller identifies the sender of an inbound message: the platform-issued
// numeric identifier plus an optional username. Authorization checks accept
// the whole value so the id-or-username rule lives in one place.
type Caller struct {
	ID       int64
	Username string
}
