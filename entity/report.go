package entity

// BroadcastReport summarizes a delivery attempt to every activated user.
// Failed holds the identifiers that could not be reached (blocked bot,
// deleted account); those are excluded from Sent.
type BroadcastReport struct {
	Sent   int
	Failed []int64
}
