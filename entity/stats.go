package entity

// Stats is the payload of the health endpoint.
type Stats struct {
	ActivatedUsers   int    `json:"activated_users"`
	OutstandingCodes int    `json:"outstanding_codes"`
	StartedAt        string `json:"started_at"`
}
