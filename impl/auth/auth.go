// Package auth decides whether a caller holds admin rights.
package auth

import (
	"strings"

	"groupgate/entity"
)

type Service struct {
	adminId       int64
	adminUsername string
}

func New(adminId int64, adminUsername string) *Service {
	return &Service{
		adminId:       adminId,
		adminUsername: strings.TrimPrefix(adminUsername, "@"),
	}
}

// Authorized reports whether the caller is the configured admin: either the
// numeric id matches, or the username matches case-insensitively. Both checks
// are skipped when their side of the configuration is absent.
func (s *Service) Authorized(caller entity.Caller) bool {
	if s.adminId != 0 && caller.ID == s.adminId {
		return true
	}
	if s.adminUsername != "" &&
		strings.EqualFold(strings.TrimPrefix(caller.Username, "@"), s.adminUsername) {
		return true
	}
	return false
}
