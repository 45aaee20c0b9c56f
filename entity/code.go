package entity

import "time"

// ActivationCode is a one-time token generated by an admin. A not-yet-activated
// user redeems it exactly once to gain access; redemption removes it from the
// registry, so a code value may be reissued later without conflict.
type ActivationCode struct {
	Code      string    `json:"code" bson:"code"`
	CreatedBy int64     `json:"created_by" bson:"created_by"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
